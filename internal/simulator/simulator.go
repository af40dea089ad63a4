// Package simulator turns per-sport statistical inputs into priced
// propositions. Each sport has a Parse function that reads raw form fields
// through the input boundary and a Simulator method that runs the model.
package simulator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

// Kind names a simulator
type Kind string

const (
	KindNFL       Kind = "nfl"
	KindATS       Kind = "ats"
	KindMLBHit    Kind = "mlb-hit"
	KindPitcherER Kind = "pitcher-er"
	KindPitcherK  Kind = "pitcher-k"
	KindNBA       Kind = "nba"
	KindSoccer    Kind = "soccer"
)

// Kinds lists every simulator in menu order
func Kinds() []Kind {
	return []Kind{KindNFL, KindATS, KindMLBHit, KindPitcherER, KindPitcherK, KindNBA, KindSoccer}
}

// ParseKind resolves a simulator name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, models.ErrUnknownSport)
}

// Sport returns the tag used on propositions from this simulator
func (k Kind) Sport() models.Sport {
	switch k {
	case KindNFL:
		return models.SportNFL
	case KindATS:
		return models.SportATS
	case KindMLBHit:
		return models.SportMLBHit
	case KindPitcherER, KindPitcherK:
		return models.SportPitcher
	case KindNBA:
		return models.SportNBA
	case KindSoccer:
		return models.SportSoccer
	default:
		return ""
	}
}

// Report is implemented by every simulator result
type Report interface {
	Propositions() []models.Proposition
	Messages() []string
}

// Outcome carries the propositions and notes shared by all results.
type Outcome struct {
	Props []models.Proposition `json:"propositions"`
	Notes []string             `json:"notes,omitempty"`
}

// Propositions returns the computed propositions
func (o *Outcome) Propositions() []models.Proposition {
	return o.Props
}

// Messages returns the explanatory notes
func (o *Outcome) Messages() []string {
	return o.Notes
}

func (o *Outcome) note(format string, args ...interface{}) {
	o.Notes = append(o.Notes, fmt.Sprintf(format, args...))
}

// Simulator runs the sport models against a set of tier tables.
type Simulator struct {
	tiers ev.TierSet
	now   func() time.Time
}

// New creates a Simulator. A nil set uses the built-in tables.
func New(tiers ev.TierSet) *Simulator {
	if tiers == nil {
		tiers = ev.DefaultTierSet()
	}
	return &Simulator{tiers: tiers, now: time.Now}
}

// Tiers returns the tier tables in use
func (s *Simulator) Tiers() ev.TierSet {
	return s.tiers
}

// Run parses form for kind and runs the matching model.
func (s *Simulator) Run(kind Kind, form input.Form) (Report, error) {
	switch kind {
	case KindNFL:
		in, err := ParseNFL(form)
		if err != nil {
			return nil, err
		}
		res, err := s.NFL(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindATS:
		in, err := ParseATS(form)
		if err != nil {
			return nil, err
		}
		res, err := s.ATS(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindMLBHit:
		in, err := ParseMLBHit(form)
		if err != nil {
			return nil, err
		}
		res, err := s.MLBHit(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindPitcherER:
		in, err := ParseEarnedRuns(form)
		if err != nil {
			return nil, err
		}
		res, err := s.EarnedRuns(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindPitcherK:
		in, err := ParseStrikeouts(form)
		if err != nil {
			return nil, err
		}
		res, err := s.Strikeouts(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindNBA:
		in, err := ParseNBA(form)
		if err != nil {
			return nil, err
		}
		res, err := s.NBA(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	case KindSoccer:
		in, err := ParseSoccer(form)
		if err != nil {
			return nil, err
		}
		res, err := s.Soccer(in)
		if err != nil {
			return nil, err
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, models.ErrUnknownSport)
	}
}

// proposition builds a proposition and prices it when price is non-nil.
func (s *Simulator) proposition(sport models.Sport, subject, market, description string, line, trueP float64, price *odds.Price) (models.Proposition, error) {
	p := models.Proposition{
		ID:              uuid.NewString(),
		Sport:           sport,
		Subject:         subject,
		Market:          market,
		Description:     description,
		Line:            line,
		TrueProbability: trueP,
		CreatedAt:       s.now().UTC(),
	}
	if price == nil {
		return p, nil
	}

	e, err := ev.Evaluate(trueP, *price)
	if err != nil {
		return p, fmt.Errorf("pricing %s: %w", description, err)
	}
	american := price.American
	p.AmericanOdds = &american
	p.DecimalOdds = e.DecimalOdds
	p.ImpliedProbability = e.ImpliedProbability
	p.EdgePP = e.EdgePP
	p.EVPerDollar = e.EVPerDollar
	return p, nil
}

func americanPrice(american *float64) (*odds.Price, error) {
	if american == nil {
		return nil, nil
	}
	p, err := odds.NewPriceFromAmerican(*american)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// round rounds half to even at the given number of decimal places.
func round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, _ := decimal.NewFromFloat(x).RoundBank(places).Float64()
	return v
}

func roundInt(x float64) int {
	return int(round(x, 0))
}

func formatLine(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
