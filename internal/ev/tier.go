package ev

import (
	"fmt"
	"sort"

	"github.com/yourusername/moneyball/internal/models"
)

// Table names for the built-in tier tables
const (
	TablePropProbability = "prop_probability"
	TableMLBHitZone      = "mlb_hit_zone"
	TableATSEdge         = "ats_edge"
	TableParlayEV        = "parlay_ev"
	TableSoccerOver15    = "soccer_over_1_5"
	TableSoccerOver25    = "soccer_over_2_5"
	TableSoccerBTTS      = "soccer_btts"
	TableSoccerParlayEV  = "soccer_parlay_ev"
)

// Threshold pairs a cutoff with the tier awarded at or above it
type Threshold struct {
	Cutoff float64     `mapstructure:"cutoff" json:"cutoff"`
	Tier   models.Tier `mapstructure:"tier" json:"tier"`
}

// TierTable is an ordered, descending list of thresholds.
type TierTable []Threshold

// Classify returns the tier of the first cutoff value meets or exceeds,
// falling through to Risky.
func (t TierTable) Classify(value float64) models.Tier {
	for _, th := range t {
		if value >= th.Cutoff {
			return th.Tier
		}
	}
	return models.TierRisky
}

// Validate checks that cutoffs are strictly descending and labelled.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty: %w", models.ErrDomainViolation)
	}
	for i, th := range t {
		if th.Tier == "" {
			return fmt.Errorf("threshold %d has no tier label: %w", i, models.ErrDomainViolation)
		}
		if i > 0 && th.Cutoff >= t[i-1].Cutoff {
			return fmt.Errorf("cutoff %v not below %v: %w", th.Cutoff, t[i-1].Cutoff, models.ErrDomainViolation)
		}
	}
	return nil
}

func standard(elite, strong, moderate float64) TierTable {
	return TierTable{
		{Cutoff: elite, Tier: models.TierElite},
		{Cutoff: strong, Tier: models.TierStrong},
		{Cutoff: moderate, Tier: models.TierModerate},
	}
}

// TierSet holds the named tables used across simulators.
type TierSet map[string]TierTable

// DefaultTierSet returns the built-in tables. Probability tables use
// fractions, ats_edge uses percentage points, parlay_ev uses EV percent and
// soccer_parlay_ev uses EV per dollar.
func DefaultTierSet() TierSet {
	return TierSet{
		TablePropProbability: standard(0.80, 0.65, 0.50),
		TableMLBHitZone:      standard(0.80, 0.70, 0.60),
		TableATSEdge:         standard(20, 10, 0),
		TableParlayEV:        standard(10, 5, 0),
		TableSoccerOver15:    standard(0.75, 0.65, 0.55),
		TableSoccerOver25:    standard(0.60, 0.50, 0.45),
		TableSoccerBTTS:      standard(0.58, 0.52, 0.47),
		TableSoccerParlayEV:  standard(0.20, 0.10, 0.05),
	}
}

// Table returns the named table, falling back to the built-in default.
func (s TierSet) Table(name string) TierTable {
	if t, ok := s[name]; ok && len(t) > 0 {
		return t
	}
	return DefaultTierSet()[name]
}

// Merge returns a copy of s with overrides applied on top.
func (s TierSet) Merge(overrides TierSet) TierSet {
	merged := make(TierSet, len(s)+len(overrides))
	for name, t := range s {
		merged[name] = t
	}
	for name, t := range overrides {
		sorted := append(TierTable(nil), t...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cutoff > sorted[j].Cutoff })
		merged[name] = sorted
	}
	return merged
}

// Validate checks every table in the set.
func (s TierSet) Validate() error {
	for name, t := range s {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tier table %s: %w", name, err)
		}
	}
	return nil
}
