package network

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned by Send after a connection has been
// closed.
var ErrConnectionClosed = errors.New("connection is closed")

// Conn is the subset of connection capabilities the rest of the server
// uses: a fire-and-forget text send and a close.
type Conn interface {
	Send(payload []byte) error
	Close() error
}

const writeWait = 5 * time.Second

// wsConn wraps a gorilla websocket connection with a write lock, so
// broadcasts from concurrent callers never interleave frames, and a
// closed flag consulted before every send.
type wsConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewConn wraps a websocket connection for concurrent senders.
func NewConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
