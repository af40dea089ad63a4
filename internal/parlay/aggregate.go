package parlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/probability"
)

// Aggregate is the combined view of a set of legs. It is derived on demand
// and never stored.
type Aggregate struct {
	Legs            []Leg   `json:"legs"`
	TrueProbability float64 `json:"true_probability"`
	DecimalProduct  float64 `json:"decimal_product"`
	AutoAmerican    int     `json:"auto_american"`
	AutoImplied     float64 `json:"auto_implied"`

	// BookOdds is set when a manual sportsbook price overrides the auto odds
	BookOdds        *odds.Price `json:"book_odds,omitempty"`
	ManualOddsErr   error       `json:"-"`
	ManualOddsError string      `json:"manual_odds_error,omitempty"`

	UsedAmerican float64     `json:"used_american"`
	UsedDecimal  float64     `json:"used_decimal"`
	UsedImplied  float64     `json:"used_implied"`
	EdgePP       float64     `json:"edge_pp"`
	EVPerDollar  float64     `json:"ev_per_dollar"`
	Tier         models.Tier `json:"tier,omitempty"`
}

// Empty reports whether the aggregate has no legs
func (a Aggregate) Empty() bool {
	return len(a.Legs) == 0
}

// EVPercent is the ROI per dollar as a percentage
func (a Aggregate) EVPercent() float64 {
	return a.EVPerDollar * 100
}

// Aggregate computes the combined parlay over the current legs using the
// parlay_ev table on EV percent. manualOdds, when non-blank, overrides the
// auto odds for EV and edge.
func (c *Cart) Aggregate(manualOdds string, table ev.TierTable) Aggregate {
	agg := Combine(c.Legs(), manualOdds)
	if !agg.Empty() {
		agg.Tier = table.Classify(agg.EVPercent())
	}
	return agg
}

// Combine multiplies the legs together. An empty slice yields the neutral
// aggregate: true probability 1, decimal 1, zero edge and EV, no tier.
func Combine(legs []Leg, manualOdds string) Aggregate {
	agg := Aggregate{
		Legs:            legs,
		TrueProbability: 1,
		DecimalProduct:  1,
		UsedDecimal:     1,
	}
	if agg.Legs == nil {
		agg.Legs = []Leg{}
	}

	var book *odds.Price
	if strings.TrimSpace(manualOdds) != "" {
		p, err := odds.ParseOdds(manualOdds)
		if err != nil {
			agg.ManualOddsErr = err
			agg.ManualOddsError = err.Error()
		} else {
			book = &p
		}
	}

	if len(legs) == 0 {
		return agg
	}

	for _, leg := range legs {
		agg.TrueProbability *= probability.Clamp(leg.TrueProbability)
		d, err := odds.AmericanToDecimal(leg.AmericanOdds)
		if err != nil {
			// Cart.Add rejects these; a leg built elsewhere contributes nothing.
			continue
		}
		agg.DecimalProduct *= d
	}

	if auto, err := odds.DecimalToAmerican(agg.DecimalProduct); err == nil {
		agg.AutoAmerican = auto
		agg.AutoImplied, _ = odds.AmericanToProbability(float64(auto))
	}

	if book != nil {
		agg.BookOdds = book
		agg.UsedAmerican = book.American
		agg.UsedDecimal = book.Decimal
		agg.UsedImplied = book.Implied
	} else {
		agg.UsedAmerican = float64(agg.AutoAmerican)
		agg.UsedDecimal = agg.DecimalProduct
		agg.UsedImplied = agg.AutoImplied
	}

	agg.EdgePP = ev.EdgePP(agg.TrueProbability, agg.UsedImplied)
	agg.EVPerDollar = ev.PerDollar(agg.TrueProbability, agg.UsedDecimal)
	return agg
}

// LegsText joins the leg labels with " + "
func (a Aggregate) LegsText() string {
	labels := make([]string, len(a.Legs))
	for i, leg := range a.Legs {
		labels[i] = leg.Label()
	}
	return strings.Join(labels, " + ")
}

// TrackerRow renders the copy-ready line for a results tracker.
func (a Aggregate) TrackerRow(date time.Time) string {
	return fmt.Sprintf("%s | %s | %d | True %s%% | Implied %s%% | EV %s%% | Edge %s pp | %s",
		date.Format("2006-01-02"),
		a.LegsText(),
		int(a.UsedAmerican),
		pct(a.TrueProbability*100),
		pct(a.UsedImplied*100),
		pct(a.EVPercent()),
		pct(a.EdgePP),
		a.Tier,
	)
}

// TrackerEntry converts the aggregate into a ledger record.
func (a Aggregate) TrackerEntry(sessionID string, date time.Time) *models.TrackerEntry {
	return &models.TrackerEntry{
		SessionID:          sessionID,
		BetDate:            date,
		Legs:               a.LegsText(),
		LegCount:           len(a.Legs),
		AmericanOdds:       int(a.UsedAmerican),
		TrueProbability:    a.TrueProbability,
		ImpliedProbability: a.UsedImplied,
		EVPercent:          a.EVPercent(),
		EdgePP:             a.EdgePP,
		Tier:               a.Tier,
		Row:                a.TrackerRow(date),
	}
}

func pct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
