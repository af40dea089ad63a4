package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackerEntry is a recorded parlay snapshot, the row a bettor copies into
// their own results tracker.
type TrackerEntry struct {
	ID                 uuid.UUID `db:"id" json:"id" validate:"required"`
	SessionID          string    `db:"session_id" json:"session_id"`
	BetDate            time.Time `db:"bet_date" json:"bet_date" validate:"required"`
	Legs               string    `db:"legs" json:"legs" validate:"required"`
	LegCount           int       `db:"leg_count" json:"leg_count" validate:"gte=1"`
	AmericanOdds       int       `db:"american_odds" json:"american_odds"`
	TrueProbability    float64   `db:"true_probability" json:"true_probability" validate:"gte=0,lte=1"`
	ImpliedProbability float64   `db:"implied_probability" json:"implied_probability" validate:"gte=0,lte=1"`
	EVPercent          float64   `db:"ev_percent" json:"ev_percent"`
	EdgePP             float64   `db:"edge_pp" json:"edge_pp"`
	Tier               Tier      `db:"tier" json:"tier"`
	Row                string    `db:"tracker_row" json:"row"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
