package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/moneyball/internal/config"
)

// trackerSchema is applied statement by statement in one transaction
var trackerSchema = []string{`
CREATE TABLE IF NOT EXISTS tracker_entries (
	id                  UUID PRIMARY KEY,
	session_id          TEXT NOT NULL DEFAULT '',
	bet_date            DATE NOT NULL,
	legs                TEXT NOT NULL,
	leg_count           INTEGER NOT NULL CHECK (leg_count > 0),
	american_odds       INTEGER NOT NULL,
	true_probability    DOUBLE PRECISION NOT NULL,
	implied_probability DOUBLE PRECISION NOT NULL,
	ev_percent          DOUBLE PRECISION NOT NULL,
	edge_pp             DOUBLE PRECISION NOT NULL,
	tier                TEXT NOT NULL DEFAULT '',
	tracker_row         TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_tracker_entries_session ON tracker_entries (session_id, created_at DESC)`,
}

// Initialize creates a database connection pool and ensures the tracker schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tracker ledger table when it is missing
func EnsureSchema(ctx context.Context, db *DB) error {
	err := db.InTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range trackerSchema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create tracker schema: %w", err)
	}
	return nil
}
