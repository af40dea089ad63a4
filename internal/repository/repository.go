// Package repository persists tracker ledger entries.
package repository

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/moneyball/internal/database"
	"github.com/yourusername/moneyball/internal/models"
)

// DefaultListLimit caps a listing when the filter sets no limit
const DefaultListLimit = 100

var entryValidator = validator.New()

// Repositories holds all repository implementations
type Repositories struct {
	Tracker TrackerRepository
}

// NewRepositories creates and returns the Postgres-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Tracker: NewPostgresTrackerRepository(db),
	}, nil
}

// NewMemoryRepositories creates repositories that live for the life of the process
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Tracker: NewMemoryTrackerRepository(),
	}
}

// prepareEntry fills the generated fields and checks the entry before a write.
func prepareEntry(entry *models.TrackerEntry, now time.Time) error {
	if entry == nil {
		return fmt.Errorf("tracker entry is nil: %w", models.ErrMalformedInput)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now.UTC()
	}
	if err := entryValidator.Struct(entry); err != nil {
		return fmt.Errorf("invalid tracker entry: %v: %w", err, models.ErrMalformedInput)
	}
	return nil
}

func listLimit(filter TrackerFilter) int {
	if filter.Limit <= 0 {
		return DefaultListLimit
	}
	return filter.Limit
}
