package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckAfterSchema(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, EnsureSchema(ctx, db))
	assert.NoError(t, db.HealthCheck(ctx))
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := SetupTestDB(t)
	defer TeardownTestDB(t, db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	err := db.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO tracker_entries (id, session_id, bet_date, legs, leg_count,
			american_odds, true_probability, implied_probability, ev_percent, edge_pp, tracker_row)
			VALUES ('00000000-0000-0000-0000-0000000000aa', 'test-tx', CURRENT_DATE, 'A', 1, 100, 0.5, 0.5, 0, 0, 'row')`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(ctx, "SELECT count(*) FROM tracker_entries WHERE session_id = 'test-tx'").Scan(&n))
	assert.Zero(t, n)
}
