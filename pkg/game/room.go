package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/stickstrike/arena/pkg/game/constants"
)

// Room is a capacity-limited match container. Membership and the
// started flag are guarded by the room's lock; the capacity check and
// the admit are a single critical section so two concurrent joiners can
// never both take the last slot.
type Room struct {
	ID   string
	Name string

	mu         sync.RWMutex
	players    map[string]*Player
	maxPlayers int
	started    bool
}

// RoomSummary is the client-visible snapshot of a room.
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Started     bool   `json:"started"`
}

// NewRoom creates an open room with a fresh id and the fixed two-player
// capacity.
func NewRoom(name string) *Room {
	return &Room{
		ID:         uuid.NewString(),
		Name:       name,
		players:    make(map[string]*Player),
		maxPlayers: constants.RoomCapacity,
	}
}

// AddPlayer admits the player if the room is neither full nor started.
// On failure nothing is mutated. AddPlayer never flips the started
// flag; the caller drives the start transition after observing IsFull.
func (r *Room) AddPlayer(player *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) >= r.maxPlayers {
		return &ErrRoomFull{RoomID: r.ID}
	}
	if r.started {
		return &ErrRoomStarted{RoomID: r.ID}
	}
	r.players[player.ID] = player
	return nil
}

// RemovePlayer removes the player and reports whether it was a member.
func (r *Room) RemovePlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[playerID]; !ok {
		return false
	}
	delete(r.players, playerID)
	return true
}

// HasPlayer reports whether the player is a member of the room.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[playerID]
	return ok
}

// PlayerCount returns the current number of members.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players) >= r.maxPlayers
}

// IsStarted reports whether the game has started.
func (r *Room) IsStarted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// Start flips the started flag and reports whether this call made the
// transition. A room never un-starts.
func (r *Room) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return false
	}
	r.started = true
	return true
}

// PlayerIDs returns the ids of the current members.
func (r *Room) PlayerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids
}

// PlayerInfos returns client-visible snapshots of the current members
// keyed by player id.
func (r *Room) PlayerInfos() map[string]PlayerInfo {
	r.mu.RLock()
	members := make([]*Player, 0, len(r.players))
	for _, player := range r.players {
		members = append(members, player)
	}
	r.mu.RUnlock()

	infos := make(map[string]PlayerInfo, len(members))
	for _, player := range members {
		infos[player.ID] = player.Info()
	}
	return infos
}

// Summary returns the client-visible snapshot of the room.
func (r *Room) Summary() RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		PlayerCount: len(r.players),
		MaxPlayers:  r.maxPlayers,
		Started:     r.started,
	}
}
