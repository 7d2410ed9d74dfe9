package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/stickstrike/arena/pkg/log"
)

// ConnectionHandler receives connection lifecycle events and inbound
// frames. HandleConnect returns the session id the transport passes
// back on every subsequent event for that connection.
type ConnectionHandler interface {
	HandleConnect(conn Conn) (sessionID string)
	HandleMessage(sessionID string, payload []byte)
	HandleDisconnect(sessionID string)
}

// WSServer is the single persistent-connection endpoint.
type WSServer struct {
	port int
	tls  *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port int
	TLS  *TLSConfig
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port: opts.Port,
		tls:  opts.TLS,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server and blocks until the context is
// canceled or the listener fails.
func (s *WSServer) Start(ctx context.Context, handler ConnectionHandler) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", conn.RemoteAddr().String())
		go s.handleWSConnection(conn, handler)
	})

	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection runs the read loop for one connection. A read
// error of any kind is the disconnect signal.
func (s *WSServer) handleWSConnection(raw *websocket.Conn, handler ConnectionHandler) {
	conn := NewConn(raw)
	sessionID := handler.HandleConnect(conn)

	defer func() {
		handler.HandleDisconnect(sessionID)
		conn.Close()
	}()

	for {
		_, payload, err := raw.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", raw.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", raw.RemoteAddr().String())
			return
		}
		handler.HandleMessage(sessionID, payload)
	}
}
