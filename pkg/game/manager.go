package game

import (
	"fmt"
	"sync"
)

// RoomManager owns room creation, membership, and lifecycle. Every
// mutating operation runs under one exclusive section, so compound
// sequences (lookup, capacity check, admit) are serialized against
// concurrent joins and leaves on the same room.
type RoomManager struct {
	lock  sync.RWMutex
	rooms map[string]*Room
}

// NewRoomManager creates an empty room manager.
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*Room),
	}
}

// Create allocates an open room with the given name, or a generated
// one if blank.
func (m *RoomManager) Create(name string) *Room {
	m.lock.Lock()
	defer m.lock.Unlock()
	if name == "" {
		name = fmt.Sprintf("Room %d", len(m.rooms)+1)
	}
	room := NewRoom(name)
	m.rooms[room.ID] = room
	return room
}

// Get returns the room with the given id.
func (m *RoomManager) Get(roomID string) (*Room, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	room, ok := m.rooms[roomID]
	return room, ok
}

// Join admits the player into the room. It fails without mutating
// anything when the room does not exist, is full, or has started.
// Join never flips the started flag; the caller observes IsFull after
// a successful join and drives the start transition.
func (m *RoomManager) Join(roomID string, player *Player) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return &ErrRoomNotFound{RoomID: roomID}
	}
	return room.AddPlayer(player)
}

// Leave removes the player from the room containing it and returns
// that room. A room whose member count reaches zero is deleted from
// the registry immediately.
func (m *RoomManager) Leave(playerID string) (*Room, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for id, room := range m.rooms {
		if room.RemovePlayer(playerID) {
			if room.PlayerCount() == 0 {
				delete(m.rooms, id)
			}
			return room, nil
		}
	}
	return nil, &ErrNotInRoom{PlayerID: playerID}
}

// FindRoomOf returns the room the player is a member of, without
// mutating anything.
func (m *RoomManager) FindRoomOf(playerID string) (*Room, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, room := range m.rooms {
		if room.HasPlayer(playerID) {
			return room, true
		}
	}
	return nil, false
}

// ListJoinable returns every room that is neither full nor started, in
// no guaranteed order.
func (m *RoomManager) ListJoinable() []*Room {
	m.lock.RLock()
	defer m.lock.RUnlock()
	joinable := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		if room.IsFull() || room.IsStarted() {
			continue
		}
		joinable = append(joinable, room)
	}
	return joinable
}
