package service

import (
	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

const defaultKellyFraction = 0.25

// Quote prices a single proposition at a sportsbook price.
type Quote struct {
	Odds           odds.Price    `json:"odds"`
	Evaluation     ev.Evaluation `json:"evaluation"`
	EVPercent      float64       `json:"ev_percent"`
	Stake          float64       `json:"stake"`
	ExpectedProfit float64       `json:"expected_profit"`
	KellyFraction  float64       `json:"kelly_fraction"`
	KellyStake     float64       `json:"kelly_stake"`
	Tier           models.Tier   `json:"tier"`
}

// Quote reads prob, odds and the optional stake and kelly_fraction fields,
// and prices the bet. The tier uses the prop_probability table.
func (c *Calculator) Quote(form input.Form) (Quote, error) {
	r := input.NewReader(form)
	trueP := r.Percent("prob")
	if trueP > 1 {
		r.Fail("prob", input.KindDomain, "must be at most 100%")
	}
	price := r.Price("odds")
	stake := r.FloatDefault("stake", 100, input.NonNegative)
	fraction := r.FloatDefault("kelly_fraction", defaultKellyFraction, input.Between(0, 1))
	if err := r.Err(); err != nil {
		return Quote{}, err
	}

	e, err := ev.Evaluate(trueP, price)
	if err != nil {
		return Quote{}, input.AsValidationErrors(err, "odds")
	}

	kelly := ev.Kelly(trueP, price.Decimal, fraction)
	return Quote{
		Odds:           price,
		Evaluation:     e,
		EVPercent:      e.EVPercent(),
		Stake:          stake,
		ExpectedProfit: e.ExpectedProfit(stake),
		KellyFraction:  kelly,
		KellyStake:     kelly * stake,
		Tier:           c.tiers.Table(ev.TablePropProbability).Classify(trueP),
	}, nil
}
