package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/moneyball/internal/database"
	"github.com/yourusername/moneyball/internal/models"
)

const uniqueViolation = "23505"

const trackerColumns = `id, session_id, bet_date, legs, leg_count, american_odds,
	true_probability, implied_probability, ev_percent, edge_pp, tier, tracker_row, created_at`

// PostgresTrackerRepository implements TrackerRepository for PostgreSQL
type PostgresTrackerRepository struct {
	db *database.DB
}

// NewPostgresTrackerRepository creates a new tracker repository
func NewPostgresTrackerRepository(db *database.DB) TrackerRepository {
	return &PostgresTrackerRepository{db: db}
}

// Create inserts a new tracker entry
func (r *PostgresTrackerRepository) Create(ctx context.Context, entry *models.TrackerEntry) error {
	if err := prepareEntry(entry, time.Now()); err != nil {
		return err
	}

	query := `
		INSERT INTO tracker_entries (` + trackerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.SessionID, entry.BetDate, entry.Legs, entry.LegCount, entry.AmericanOdds,
		entry.TrueProbability, entry.ImpliedProbability, entry.EVPercent, entry.EdgePP,
		string(entry.Tier), entry.Row, entry.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("tracker entry %s: %w", entry.ID, models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create tracker entry: %w", err)
	}

	return nil
}

// GetByID retrieves a tracker entry by ID
func (r *PostgresTrackerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrackerEntry, error) {
	query := `SELECT ` + trackerColumns + ` FROM tracker_entries WHERE id = $1`

	entry, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracker entry: %w", err)
	}

	return entry, nil
}

// List retrieves the newest tracker entries, optionally for one session
func (r *PostgresTrackerRepository) List(ctx context.Context, filter TrackerFilter) ([]*models.TrackerEntry, error) {
	query := `
		SELECT ` + trackerColumns + `
		FROM tracker_entries
		WHERE ($1 = '' OR session_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, filter.SessionID, listLimit(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracker entries: %w", err)
	}
	defer rows.Close()

	entries := []*models.TrackerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracker entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*models.TrackerEntry, error) {
	entry := &models.TrackerEntry{}
	var tier string
	err := row.Scan(
		&entry.ID, &entry.SessionID, &entry.BetDate, &entry.Legs, &entry.LegCount, &entry.AmericanOdds,
		&entry.TrueProbability, &entry.ImpliedProbability, &entry.EVPercent, &entry.EdgePP,
		&tier, &entry.Row, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Tier = models.Tier(tier)
	return entry, nil
}
