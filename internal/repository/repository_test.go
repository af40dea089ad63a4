package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/database"
	"github.com/yourusername/moneyball/internal/models"
)

func sampleEntry(sessionID string) *models.TrackerEntry {
	return &models.TrackerEntry{
		SessionID:          sessionID,
		BetDate:            time.Date(2024, 9, 8, 0, 0, 0, 0, time.UTC),
		Legs:               "NFL: J. Allen - Over 250.5 Pass Yds (-115) + NBA: Over 38.5 (PRA) (-110)",
		LegCount:           2,
		AmericanOdds:       264,
		TrueProbability:    0.33,
		ImpliedProbability: 0.2747,
		EVPercent:          20.1,
		EdgePP:             5.53,
		Tier:               models.TierElite,
		Row:                "2024-09-08 | ...",
	}
}

func TestMemoryTrackerCreateAndGet(t *testing.T) {
	repo := NewMemoryTrackerRepository()
	ctx := context.Background()

	entry := sampleEntry("sess-1")
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Legs, got.Legs)
	assert.Equal(t, models.TierElite, got.Tier)

	// returned entries are copies
	got.Legs = "changed"
	again, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Legs)
}

func TestMemoryTrackerGetMissing(t *testing.T) {
	repo := NewMemoryTrackerRepository()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryTrackerDuplicate(t *testing.T) {
	repo := NewMemoryTrackerRepository()
	ctx := context.Background()

	entry := sampleEntry("sess-1")
	require.NoError(t, repo.Create(ctx, entry))

	dup := sampleEntry("sess-1")
	dup.ID = entry.ID
	assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrDuplicateKey)
}

func TestMemoryTrackerRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *models.TrackerEntry)
	}{
		{name: "no legs", mutate: func(e *models.TrackerEntry) { e.Legs = "" }},
		{name: "zero leg count", mutate: func(e *models.TrackerEntry) { e.LegCount = 0 }},
		{name: "probability above one", mutate: func(e *models.TrackerEntry) { e.TrueProbability = 1.2 }},
		{name: "missing date", mutate: func(e *models.TrackerEntry) { e.BetDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryTrackerRepository()
			entry := sampleEntry("sess-1")
			tt.mutate(entry)
			assert.ErrorIs(t, repo.Create(context.Background(), entry), models.ErrMalformedInput)
		})
	}

	repo := NewMemoryTrackerRepository()
	assert.ErrorIs(t, repo.Create(context.Background(), nil), models.ErrMalformedInput)
}

func TestMemoryTrackerList(t *testing.T) {
	repo := NewMemoryTrackerRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		session := "sess-a"
		if i%2 == 1 {
			session = "sess-b"
		}
		entry := sampleEntry(session)
		entry.Legs = fmt.Sprintf("leg %d", i)
		require.NoError(t, repo.Create(ctx, entry))
	}

	all, err := repo.List(ctx, TrackerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "leg 4", all[0].Legs)

	onlyB, err := repo.List(ctx, TrackerFilter{SessionID: "sess-b"})
	require.NoError(t, err)
	require.Len(t, onlyB, 2)
	assert.Equal(t, "leg 3", onlyB[0].Legs)
	assert.Equal(t, "leg 1", onlyB[1].Legs)

	limited, err := repo.List(ctx, TrackerFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryTrackerCancelledContext(t *testing.T) {
	repo := NewMemoryTrackerRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, sampleEntry("sess-1")), context.Canceled)
	_, err := repo.List(ctx, TrackerFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)

	repos := NewMemoryRepositories()
	assert.NotNil(t, repos.Tracker)
}

// TestPostgresTrackerRoundTrip runs only when MONEYBALL_TEST_CONFIG points at a database
func TestPostgresTrackerRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := sampleEntry("test-" + uuid.NewString())
	require.NoError(t, repos.Tracker.Create(ctx, entry))

	got, err := repos.Tracker.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Legs, got.Legs)
	assert.Equal(t, entry.AmericanOdds, got.AmericanOdds)

	listed, err := repos.Tracker.List(ctx, TrackerFilter{SessionID: entry.SessionID})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.ErrorIs(t, repos.Tracker.Create(ctx, entry), models.ErrDuplicateKey)
}
