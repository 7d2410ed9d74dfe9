// Package broadcast delivers serialized events to one connection, to
// all connections, or to the connections of one room's members. Every
// delivery is best effort: a failed send is logged and dropped, never
// surfaced to the caller or retried.
package broadcast

import (
	"encoding/json"

	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/log"
	"github.com/stickstrike/arena/pkg/network"
	"github.com/stickstrike/arena/pkg/sessions"
)

// Broadcaster fans events out over the session registry. It does not
// interpret event content.
type Broadcaster struct {
	sessions *sessions.Registry
}

// NewBroadcaster creates a broadcaster over the given registry.
func NewBroadcaster(registry *sessions.Registry) *Broadcaster {
	return &Broadcaster{sessions: registry}
}

// SendTo delivers the event to one connection. Closed connections are
// silently dropped.
func (b *Broadcaster) SendTo(conn network.Conn, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to serialize event: %v", err)
		return
	}
	b.send(conn, payload)
}

// BroadcastAll delivers the event to every tracked connection.
func (b *Broadcaster) BroadcastAll(event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to serialize broadcast event: %v", err)
		return
	}
	for _, conn := range b.sessions.Conns() {
		b.send(conn, payload)
	}
}

// BroadcastToRoom delivers the event to every member of the room that
// still owns an open connection.
func (b *Broadcaster) BroadcastToRoom(room *game.Room, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to serialize room broadcast event: %v", err)
		return
	}
	for _, playerID := range room.PlayerIDs() {
		conn, ok := b.sessions.ConnOf(playerID)
		if !ok {
			log.Trace("Player %s has no live connection", playerID)
			continue
		}
		b.send(conn, payload)
	}
}

func (b *Broadcaster) send(conn network.Conn, payload []byte) {
	if err := conn.Send(payload); err != nil {
		log.Debug("Dropped delivery to connection: %v", err)
	}
}
