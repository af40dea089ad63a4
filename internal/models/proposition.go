package models

import "time"

// Sport is the tag attached to propositions and parlay legs
type Sport string

const (
	SportNFL     Sport = "NFL"
	SportATS     Sport = "ATS/Totals"
	SportMLBHit  Sport = "MLB Hit"
	SportPitcher Sport = "Pitcher"
	SportNBA     Sport = "NBA"
	SportSoccer  Sport = "Soccer"
)

// Tier is the four-level confidence label shown next to a proposition
type Tier string

const (
	TierElite    Tier = "Elite"
	TierStrong   Tier = "Strong"
	TierModerate Tier = "Moderate"
	TierRisky    Tier = "Risky"
)

// Proposition is a single computed estimate that can be saved to a board
// or pushed to a parlay cart as a leg.
type Proposition struct {
	ID                 string    `json:"id"`
	Sport              Sport     `json:"sport"`
	Subject            string    `json:"subject"`
	Market             string    `json:"market"`
	Description        string    `json:"description"`
	Line               float64   `json:"line"`
	TrueProbability    float64   `json:"true_probability"`
	AmericanOdds       *float64  `json:"american_odds,omitempty"`
	DecimalOdds        float64   `json:"decimal_odds,omitempty"`
	ImpliedProbability float64   `json:"implied_probability,omitempty"`
	EdgePP             float64   `json:"edge_pp,omitempty"`
	EVPerDollar        float64   `json:"ev_per_dollar,omitempty"`
	Tier               Tier      `json:"tier,omitempty"`
	Notes              []string  `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasOdds reports whether a sportsbook price was attached
func (p *Proposition) HasOdds() bool {
	return p.AmericanOdds != nil
}

// TruePercent returns the true probability as a percentage
func (p *Proposition) TruePercent() float64 {
	return p.TrueProbability * 100
}
