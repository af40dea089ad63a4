package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/moneyball/internal/models"
)

// MemoryTrackerRepository keeps tracker entries in process memory. It is
// used when no database is configured.
type MemoryTrackerRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*models.TrackerEntry
	order   []uuid.UUID
	now     func() time.Time
}

// NewMemoryTrackerRepository creates an empty in-memory ledger
func NewMemoryTrackerRepository() *MemoryTrackerRepository {
	return &MemoryTrackerRepository{
		entries: make(map[uuid.UUID]*models.TrackerEntry),
		now:     time.Now,
	}
}

// Create stores a copy of entry
func (r *MemoryTrackerRepository) Create(ctx context.Context, entry *models.TrackerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepareEntry(entry, r.now()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[entry.ID]; exists {
		return fmt.Errorf("tracker entry %s: %w", entry.ID, models.ErrDuplicateKey)
	}
	stored := *entry
	r.entries[entry.ID] = &stored
	r.order = append(r.order, entry.ID)
	return nil
}

// GetByID returns a copy of the stored entry
func (r *MemoryTrackerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrackerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *entry
	return &out, nil
}

// List returns the newest entries first
func (r *MemoryTrackerRepository) List(ctx context.Context, filter TrackerFilter) ([]*models.TrackerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := listLimit(filter)
	entries := []*models.TrackerEntry{}
	for i := len(r.order) - 1; i >= 0 && len(entries) < limit; i-- {
		entry := r.entries[r.order[i]]
		if filter.SessionID != "" && entry.SessionID != filter.SessionID {
			continue
		}
		out := *entry
		entries = append(entries, &out)
	}
	return entries, nil
}
