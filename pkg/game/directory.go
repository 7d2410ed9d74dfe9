package game

import (
	"fmt"
	"sync"

	"github.com/stickstrike/arena/pkg/geometry"
)

// Directory owns player identities and their live state.
type Directory struct {
	lock    sync.RWMutex
	players map[string]*Player
}

// NewDirectory creates an empty player directory.
func NewDirectory() *Directory {
	return &Directory{
		players: make(map[string]*Player),
	}
}

// Ensure returns the player with the given id, creating it with the
// suggested name if it does not exist. A blank name falls back to a
// default derived from the id.
func (d *Directory) Ensure(playerID, suggestedName string) *Player {
	d.lock.Lock()
	defer d.lock.Unlock()
	if player, ok := d.players[playerID]; ok {
		return player
	}
	name := suggestedName
	if name == "" {
		name = DefaultPlayerName(playerID)
	}
	player := NewPlayer(playerID, name)
	d.players[playerID] = player
	return player
}

// Get returns the player with the given id.
func (d *Directory) Get(playerID string) (*Player, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	player, ok := d.players[playerID]
	return player, ok
}

// Remove deletes the player from the directory. Removing an unknown id
// is a no-op.
func (d *Directory) Remove(playerID string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	delete(d.players, playerID)
}

// SetPosition overwrites the player's position and velocity. Unknown
// players are silently ignored; callers that need to report an error
// must check existence first.
func (d *Directory) SetPosition(playerID string, position, velocity *geometry.Vector2) {
	player, ok := d.Get(playerID)
	if !ok {
		return
	}
	player.SetMotion(position, velocity)
}

// ApplyDamage subtracts amount from the player's health, flooring at
// zero, and returns the new health.
func (d *Directory) ApplyDamage(playerID string, amount int) (int, error) {
	player, ok := d.Get(playerID)
	if !ok {
		return 0, &ErrPlayerNotFound{PlayerID: playerID}
	}
	return player.ApplyDamage(amount), nil
}

// All returns a snapshot of every player keyed by id.
func (d *Directory) All() map[string]PlayerInfo {
	d.lock.RLock()
	defer d.lock.RUnlock()
	infos := make(map[string]PlayerInfo, len(d.players))
	for id, player := range d.players {
		infos[id] = player.Info()
	}
	return infos
}

// DefaultPlayerName derives a display name from a fragment of the id.
func DefaultPlayerName(playerID string) string {
	fragment := playerID
	if len(fragment) > 4 {
		fragment = fragment[:4]
	}
	return fmt.Sprintf("Player %s", fragment)
}
