// Package sessions tracks the one-to-one binding between live
// connections and player identities.
package sessions

import (
	"sync"

	"github.com/google/uuid"
	"github.com/stickstrike/arena/pkg/game"
	"github.com/stickstrike/arena/pkg/network"
)

// Registry maps each live connection to exactly one player. Both
// directions of the session/player binding are kept as explicit maps
// and updated together, so per-player delivery never scans sessions.
type Registry struct {
	players *game.Directory

	lock          sync.RWMutex
	conns         map[string]network.Conn
	sessionPlayer map[string]string
	playerSession map[string]string
}

// NewRegistry creates a registry that issues player identities into the
// given directory.
func NewRegistry(players *game.Directory) *Registry {
	return &Registry{
		players:       players,
		conns:         make(map[string]network.Conn),
		sessionPlayer: make(map[string]string),
		playerSession: make(map[string]string),
	}
}

// Connect registers a new connection, allocates a fresh player identity
// backed by a default player, and returns both identifiers.
func (r *Registry) Connect(conn network.Conn) (sessionID, playerID string) {
	sessionID = uuid.NewString()
	playerID = uuid.NewString()
	r.players.Ensure(playerID, "")

	r.lock.Lock()
	defer r.lock.Unlock()
	r.conns[sessionID] = conn
	r.sessionPlayer[sessionID] = playerID
	r.playerSession[playerID] = sessionID
	return sessionID, playerID
}

// PlayerOf returns the player bound to the session.
func (r *Registry) PlayerOf(sessionID string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	playerID, ok := r.sessionPlayer[sessionID]
	return playerID, ok
}

// ConnOf returns the live connection owning the player.
func (r *Registry) ConnOf(playerID string) (network.Conn, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	sessionID, ok := r.playerSession[playerID]
	if !ok {
		return nil, false
	}
	conn, ok := r.conns[sessionID]
	return conn, ok
}

// ConnOfSession returns the connection for a session id.
func (r *Registry) ConnOfSession(sessionID string) (network.Conn, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	conn, ok := r.conns[sessionID]
	return conn, ok
}

// Conns returns every currently tracked connection.
func (r *Registry) Conns() []network.Conn {
	r.lock.RLock()
	defer r.lock.RUnlock()
	conns := make([]network.Conn, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

// Disconnect removes the session binding and the connection from the
// live set, returning the player that was bound to it. Disconnecting an
// unknown session is a no-op.
func (r *Registry) Disconnect(sessionID string) (playerID string, ok bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	playerID, ok = r.sessionPlayer[sessionID]
	if !ok {
		return "", false
	}
	delete(r.sessionPlayer, sessionID)
	delete(r.playerSession, playerID)
	delete(r.conns, sessionID)
	return playerID, true
}
