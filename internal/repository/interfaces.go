package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/moneyball/internal/models"
)

// TrackerFilter narrows a tracker listing
type TrackerFilter struct {
	SessionID string
	Limit     int
}

// TrackerRepository defines the interface for tracker ledger access
type TrackerRepository interface {
	Create(ctx context.Context, entry *models.TrackerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrackerEntry, error)
	List(ctx context.Context, filter TrackerFilter) ([]*models.TrackerEntry, error)
}
