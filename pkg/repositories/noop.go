package repositories

import (
	"context"

	"github.com/stickstrike/arena/pkg/repositories/models"
)

// NoopRepository discards everything. It backs deployments that run
// without a history store configured.
type NoopRepository struct{}

func NewNoopRepository() Repository {
	return &NoopRepository{}
}

func (r *NoopRepository) Close(ctx context.Context) error {
	return nil
}

func (r *NoopRepository) SaveCombatEvent(ctx context.Context, event models.CombatEvent) error {
	return nil
}

func (r *NoopRepository) SaveRoomEvent(ctx context.Context, event models.RoomEvent) error {
	return nil
}
