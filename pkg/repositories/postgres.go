package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stickstrike/arena/pkg/repositories/models"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to the database named by connStr. The
// caller is responsible for calling Close() on the repository. The
// schema is expected to exist (see migrations/postgres).
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %v", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) SaveCombatEvent(ctx context.Context, event models.CombatEvent) error {
	q := `
	INSERT INTO combat_events (attacker_id, target_id, region, damage, remaining_health, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.pool.Exec(ctx, q,
		event.AttackerID, event.TargetID, event.Region, event.Damage, event.RemainingHealth, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert combat event: %v", err)
	}
	return nil
}

func (r *PostgresRepository) SaveRoomEvent(ctx context.Context, event models.RoomEvent) error {
	q := `
	INSERT INTO room_events (room_id, name, event, created_at)
	VALUES ($1, $2, $3, $4);
	`
	_, err := r.pool.Exec(ctx, q, event.RoomID, event.Name, event.Event, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert room event: %v", err)
	}
	return nil
}
