// Package repositories records match history. The repository is an
// audit sink only: nothing recorded here is ever loaded back into live
// game state.
package repositories

import (
	"context"

	"github.com/stickstrike/arena/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	SaveCombatEvent(ctx context.Context, event models.CombatEvent) error
	SaveRoomEvent(ctx context.Context, event models.RoomEvent) error
}
