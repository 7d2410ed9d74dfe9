package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stickstrike/arena/pkg/repositories/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies every
// migration found in the migrations directory, in name order.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveCombatEvent(ctx context.Context, event models.CombatEvent) error {
	q := `
	INSERT INTO combat_events (attacker_id, target_id, region, damage, remaining_health, created_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
		event.AttackerID, event.TargetID, event.Region, event.Damage, event.RemainingHealth, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert combat event: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveRoomEvent(ctx context.Context, event models.RoomEvent) error {
	q := `
	INSERT INTO room_events (room_id, name, event, created_at)
	VALUES (?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, event.RoomID, event.Name, event.Event, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert room event: %v", err)
	}
	return nil
}
