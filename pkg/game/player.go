package game

import (
	"sync"

	"github.com/stickstrike/arena/pkg/game/constants"
	"github.com/stickstrike/arena/pkg/geometry"
)

// Player holds a player's identity and live combat and movement state.
// All mutable fields are guarded by the player's own lock; read access
// goes through Info or the typed getters.
type Player struct {
	ID   string
	Name string

	mu       sync.Mutex
	health   int
	position geometry.Vector2
	velocity geometry.Vector2
	hitBox   *HitBox
}

// PlayerInfo is the client-visible snapshot of a player. Hitbox
// internals are deliberately not part of the payload.
type PlayerInfo struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Health   int              `json:"health"`
	Position geometry.Vector2 `json:"position"`
	Velocity geometry.Vector2 `json:"velocity"`
}

// NewPlayer creates a player with full health, zero position and
// velocity, and a default hitbox.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		health: constants.PlayerHealth,
		hitBox: NewHitBox(),
	}
}

// Health returns the player's current health.
func (p *Player) Health() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.health
}

// Position returns the player's current position.
func (p *Player) Position() geometry.Vector2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// SetMotion overwrites the player's position and/or velocity. A nil
// vector leaves the corresponding field untouched.
func (p *Player) SetMotion(position, velocity *geometry.Vector2) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if position != nil {
		p.position = *position
	}
	if velocity != nil {
		p.velocity = *velocity
	}
}

// ApplyDamage subtracts amount from the player's health, flooring at
// zero, and returns the new health.
func (p *Player) ApplyDamage(amount int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.health -= amount
	if p.health < 0 {
		p.health = 0
	}
	return p.health
}

// RegionAt resolves the body region for a hit point. The hitbox is
// anchored to the player's live position before the band test; the
// anchor stored at construction is not trusted (see resolver tests).
func (p *Player) RegionAt(hitPoint geometry.Vector2) HitRegion {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hitBox.Position = p.position
	return p.hitBox.RegionAt(hitPoint)
}

// Info returns a client-visible snapshot of the player.
func (p *Player) Info() PlayerInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PlayerInfo{
		ID:       p.ID,
		Name:     p.Name,
		Health:   p.health,
		Position: p.position,
		Velocity: p.velocity,
	}
}
