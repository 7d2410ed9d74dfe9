package game

import (
	"github.com/stickstrike/arena/pkg/game/constants"
	"github.com/stickstrike/arena/pkg/geometry"
)

// HitRegion is a named body zone with a damage multiplier.
type HitRegion struct {
	Name             string
	DamageMultiplier float64
}

// HitBox is a player's combat geometry: an anchor position, a radius,
// and the three fixed regions (head, body, legs).
type HitBox struct {
	Position geometry.Vector2
	Radius   float64
	regions  [3]HitRegion
}

// NewHitBox creates a hitbox with the default radius and the canonical
// region set. The region multipliers are fixed at creation.
func NewHitBox() *HitBox {
	return &HitBox{
		Radius: constants.HitBoxRadius,
		regions: [3]HitRegion{
			{Name: "head", DamageMultiplier: 1.5},
			{Name: "body", DamageMultiplier: 1.0},
			{Name: "legs", DamageMultiplier: 0.7},
		},
	}
}

// RegionAt resolves the body region for a hit point using a vertical
// band test relative to the hitbox anchor: above -0.3r is the head,
// below 0.3r the legs, the band between is the body.
func (h *HitBox) RegionAt(hitPoint geometry.Vector2) HitRegion {
	relativeY := hitPoint.Y - h.Position.Y
	switch {
	case relativeY < -h.Radius*0.3:
		return h.regions[0]
	case relativeY > h.Radius*0.3:
		return h.regions[2]
	default:
		return h.regions[1]
	}
}
