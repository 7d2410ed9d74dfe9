package game

import (
	"github.com/stickstrike/arena/pkg/game/constants"
	"github.com/stickstrike/arena/pkg/geometry"
)

// HitResult is the outcome of a resolved hit.
type HitResult struct {
	AttackerID      string
	TargetID        string
	Region          string
	Damage          int
	RemainingHealth int
}

// Resolver adjudicates hits against the player directory.
type Resolver struct {
	players    *Directory
	baseDamage int
}

// NewResolver creates a combat resolver with the fixed base damage.
func NewResolver(players *Directory) *Resolver {
	return &Resolver{
		players:    players,
		baseDamage: constants.BaseDamage,
	}
}

// ResolveHit computes the target's hit region from the impact point,
// applies the multiplied damage to the target's health (floored at
// zero), and returns the damage dealt and the resulting health. A nil
// impact point deals flat base damage, equivalent to a body hit.
// Attacker state is never touched.
func (r *Resolver) ResolveHit(attackerID, targetID string, impactPoint *geometry.Vector2) (HitResult, error) {
	if _, ok := r.players.Get(attackerID); !ok {
		return HitResult{}, &ErrPlayerNotFound{PlayerID: attackerID}
	}
	target, ok := r.players.Get(targetID)
	if !ok {
		return HitResult{}, &ErrPlayerNotFound{PlayerID: targetID}
	}

	damage := r.baseDamage
	region := "body"
	if impactPoint != nil {
		hitRegion := target.RegionAt(*impactPoint)
		region = hitRegion.Name
		damage = int(float64(r.baseDamage) * hitRegion.DamageMultiplier)
	}

	remaining := target.ApplyDamage(damage)
	return HitResult{
		AttackerID:      attackerID,
		TargetID:        targetID,
		Region:          region,
		Damage:          damage,
		RemainingHealth: remaining,
	}, nil
}
