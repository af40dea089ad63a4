package parlay

import (
	"fmt"
	"strings"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/probability"
)

// MinBuilderLegs is the smallest parlay the builder accepts
const MinBuilderLegs = 2

// Selection is a decimal-priced pick offered to the builder.
type Selection struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	DecimalOdds     float64 `json:"decimal_odds"`
	TrueProbability float64 `json:"true_probability"`
}

// Combination is the result of building a parlay from selections.
type Combination struct {
	Selections         []Selection `json:"selections"`
	TrueProbability    float64     `json:"true_probability"`
	DecimalOdds        float64     `json:"decimal_odds"`
	ImpliedProbability float64     `json:"implied_probability"`
	EdgePP             float64     `json:"edge_pp"`
	EVPerDollar        float64     `json:"ev_per_dollar"`
	UsingBookPrice     bool        `json:"using_book_price"`
	ManualOddsError    string      `json:"manual_odds_error,omitempty"`
	Tier               models.Tier `json:"tier"`
}

// Build multiplies two or more decimal-priced selections and tiers the
// result on EV per dollar. A parsable manualOdds replaces the product price.
func Build(selections []Selection, manualOdds string, table ev.TierTable) (Combination, error) {
	if len(selections) < MinBuilderLegs {
		return Combination{}, fmt.Errorf("parlay needs %d legs, got %d: %w", MinBuilderLegs, len(selections), models.ErrInsufficientLegs)
	}

	c := Combination{Selections: selections, TrueProbability: 1, DecimalOdds: 1}
	for _, s := range selections {
		if s.DecimalOdds <= 1 {
			return Combination{}, fmt.Errorf("selection %s decimal odds %v: %w", s.ID, s.DecimalOdds, models.ErrDomainViolation)
		}
		c.TrueProbability *= probability.Clamp(s.TrueProbability)
		c.DecimalOdds *= s.DecimalOdds
	}

	if strings.TrimSpace(manualOdds) != "" {
		price, err := odds.ParseOdds(manualOdds)
		if err != nil {
			c.ManualOddsError = err.Error()
		} else {
			c.DecimalOdds = price.Decimal
			c.UsingBookPrice = true
		}
	}

	c.ImpliedProbability = 1 / c.DecimalOdds
	c.EdgePP = ev.EdgePP(c.TrueProbability, c.ImpliedProbability)
	c.EVPerDollar = ev.PerDollar(c.TrueProbability, c.DecimalOdds)
	c.Tier = table.Classify(c.EVPerDollar)
	return c, nil
}
