package simulator

import (
	"fmt"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/probability"
)

// PitcherTier rates the opposing starter for a hitter
type PitcherTier string

const (
	PitcherEasy    PitcherTier = "Easy Pitcher"
	PitcherAverage PitcherTier = "Average Pitcher"
	PitcherTough   PitcherTier = "Tough Pitcher"
)

const pitcherAdjustment = 0.020

// expected at-bats by lineup slot
var atBatsByOrder = map[int]float64{
	1: 4.6, 2: 4.5, 3: 4.4, 4: 4.3, 5: 4.2, 6: 4.0, 7: 3.8, 8: 3.6, 9: 3.4,
}

const defaultAtBats = 4.0

// MLBHitInput holds a hitter's splits and the opposing starter.
type MLBHitInput struct {
	Player     string  `form:"player"`
	SeasonAvg  float64 `form:"season_avg" validate:"gte=0,lte=1"`
	Last7Avg   float64 `form:"last7_avg" validate:"gte=0,lte=1"`
	SplitAvg   float64 `form:"split_avg" validate:"gte=0,lte=1"`
	HandAvg    float64 `form:"hand_avg" validate:"gte=0,lte=1"`
	PitcherAvg float64 `form:"pitcher_avg" validate:"gte=0,lte=1"`

	ABvsPitcher  int      `form:"ab_vs_pitcher" validate:"gte=0"`
	PitcherHand  string   `form:"pitcher_hand" validate:"oneof=Right Left"`
	PitcherERA   float64  `form:"pitcher_era" validate:"gte=0"`
	PitcherWHIP  float64  `form:"pitcher_whip" validate:"gte=0"`
	PitcherK9    *float64 `form:"pitcher_k9"`
	BattingOrder int      `form:"batting_order" validate:"gte=1,lte=9"`
	Odds         float64  `form:"odds"`
}

// ParseMLBHit reads a hitter form. Odds are required.
func ParseMLBHit(form input.Form) (MLBHitInput, error) {
	r := input.NewReader(form)
	in := MLBHitInput{
		Player:       r.Text("player", "Player"),
		SeasonAvg:    r.Float("season_avg"),
		Last7Avg:     r.Float("last7_avg"),
		SplitAvg:     r.Float("split_avg"),
		HandAvg:      r.Float("hand_avg"),
		PitcherAvg:   r.Float("pitcher_avg"),
		ABvsPitcher:  r.IntDefault("ab_vs_pitcher", 0),
		PitcherHand:  r.Choice("pitcher_hand", "Right", "Right", "Left"),
		PitcherERA:   r.Float("pitcher_era"),
		PitcherWHIP:  r.Float("pitcher_whip"),
		PitcherK9:    r.OptionalFloat("pitcher_k9", input.NonNegative),
		BattingOrder: r.IntDefault("batting_order", 1),
		Odds:         r.American("odds"),
	}
	r.Struct(&in)
	return in, r.Err()
}

// WeightedAverage blends the five batting averages, rounded to 4 places.
func WeightedAverage(season, last7, split, hand, pitcher float64) float64 {
	return round(0.2*season+0.3*last7+0.2*split+0.2*hand+0.1*pitcher, 4)
}

// RatePitcher returns the tier and average adjustment for a starter.
func RatePitcher(era, whip float64) (PitcherTier, float64) {
	switch {
	case whip >= 1.40 || era >= 5.00:
		return PitcherEasy, pitcherAdjustment
	case whip < 1.10 || era < 3.50:
		return PitcherTough, -pitcherAdjustment
	default:
		return PitcherAverage, 0
	}
}

// ExpectedAtBats returns the lineup-slot at-bat estimate
func ExpectedAtBats(order int) float64 {
	if ab, ok := atBatsByOrder[order]; ok {
		return ab
	}
	return defaultAtBats
}

// MLBHitResult is the 1+ hit estimate.
type MLBHitResult struct {
	Outcome
	WeightedAvg float64     `json:"weighted_avg"`
	AdjustedAvg float64     `json:"adjusted_avg"`
	EstimatedAB float64     `json:"estimated_ab"`
	AtBats      int         `json:"at_bats"`
	PitcherTier PitcherTier `json:"pitcher_tier"`
}

// MLBHit estimates the chance of at least one hit.
func (s *Simulator) MLBHit(in MLBHitInput) (*MLBHitResult, error) {
	res := &MLBHitResult{
		WeightedAvg: WeightedAverage(in.SeasonAvg, in.Last7Avg, in.SplitAvg, in.HandAvg, in.PitcherAvg),
		EstimatedAB: ExpectedAtBats(in.BattingOrder),
	}

	var adj float64
	res.PitcherTier, adj = RatePitcher(in.PitcherERA, in.PitcherWHIP)
	res.AdjustedAvg = probability.Clamp(res.WeightedAvg + adj)
	res.AtBats = roundInt(res.EstimatedAB)

	trueP, err := probability.AtLeastOne(res.AdjustedAvg, res.AtBats)
	if err != nil {
		return nil, err
	}

	price, err := odds.NewPriceFromAmerican(in.Odds)
	if err != nil {
		return nil, err
	}

	p, err := s.proposition(models.SportMLBHit, in.Player, "1+ Hit",
		fmt.Sprintf("%s - 1+ Hit", in.Player), 0.5, trueP, &price)
	if err != nil {
		return nil, err
	}
	p.Tier = s.tiers.Table(ev.TableMLBHitZone).Classify(trueP)
	res.Props = append(res.Props, p)

	res.note("%s, batting %d vs %s-handed starter (%d career AB)", res.PitcherTier, in.BattingOrder, in.PitcherHand, in.ABvsPitcher)
	return res, nil
}
