// Package ev compares a modelled true probability with a sportsbook price.
package ev

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

// EdgePP returns the percentage-point gap between true and implied probability.
func EdgePP(trueP, impliedP float64) float64 {
	return (trueP - impliedP) * 100
}

// PerDollar returns expected profit per unit staked at decimal odds.
func PerDollar(trueP, decimalOdds float64) float64 {
	return trueP*(decimalOdds-1) - (1 - trueP)
}

// Evaluation is the EV summary for one proposition at one price.
type Evaluation struct {
	TrueProbability    float64 `json:"true_probability"`
	ImpliedProbability float64 `json:"implied_probability"`
	DecimalOdds        float64 `json:"decimal_odds"`
	EdgePP             float64 `json:"edge_pp"`
	EVPerDollar        float64 `json:"ev_per_dollar"`
}

// Evaluate prices a true probability against a sportsbook price.
func Evaluate(trueP float64, price odds.Price) (Evaluation, error) {
	if math.IsNaN(trueP) || trueP < 0 || trueP > 1 {
		return Evaluation{}, fmt.Errorf("true probability %v outside [0,1]: %w", trueP, models.ErrDomainViolation)
	}
	if price.Decimal <= 1 {
		return Evaluation{}, fmt.Errorf("decimal odds %v must be greater than 1: %w", price.Decimal, models.ErrDomainViolation)
	}
	return Evaluation{
		TrueProbability:    trueP,
		ImpliedProbability: price.Implied,
		DecimalOdds:        price.Decimal,
		EdgePP:             EdgePP(trueP, price.Implied),
		EVPerDollar:        PerDollar(trueP, price.Decimal),
	}, nil
}

// EVPercent is EV per dollar expressed as a percentage
func (e Evaluation) EVPercent() float64 {
	return e.EVPerDollar * 100
}

// ExpectedProfit returns the expected profit on a stake.
func (e Evaluation) ExpectedProfit(stake float64) float64 {
	if stake <= 0 {
		return 0
	}
	return e.EVPerDollar * stake
}

// Kelly returns the fraction of bankroll to stake, scaled by fraction
// (0.25 for quarter Kelly). Negative-edge bets return 0.
func Kelly(trueP, decimalOdds, fraction float64) float64 {
	if trueP <= 0 || decimalOdds <= 1 {
		return 0
	}
	b := decimalOdds - 1
	kelly := (b*trueP - (1 - trueP)) / b
	if kelly <= 0 {
		return 0
	}
	if fraction <= 0 {
		fraction = 1
	}
	return kelly * fraction
}
