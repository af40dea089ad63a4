package simulator

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/probability"
)

// Ballpark shifts expected innings for earned-run props
type Ballpark string

const (
	BallparkNeutral Ballpark = "Neutral"
	BallparkPitcher Ballpark = "Pitcher-Friendly"
	BallparkHitter  Ballpark = "Hitter-Friendly"
)

const (
	ballparkShiftIP  = 0.2
	plateAppearances = 4.3
	minStrikeoutRate = 0.10
	maxStrikeoutRate = 0.45
	defaultERLine    = 2.5
	defaultERStarts  = 15
	defaultKStarts   = 17
)

// InningsAdjustment returns the expected-innings shift for the park
func (b Ballpark) InningsAdjustment() float64 {
	switch b {
	case BallparkPitcher:
		return ballparkShiftIP
	case BallparkHitter:
		return -ballparkShiftIP
	default:
		return 0
	}
}

// EarnedRunsInput holds a starter's line for an earned-runs under.
type EarnedRunsInput struct {
	Pitcher      string    `form:"pitcher"`
	ERA          float64   `form:"era" validate:"gte=0"`
	TotalIP      float64   `form:"total_ip" validate:"gte=0"`
	GamesStarted int       `form:"games_started" validate:"gte=0"`
	RecentIP     []float64 `form:"recent_ip" validate:"min=1"`
	XERA         float64   `form:"xera" validate:"gte=0"`
	WHIP         float64   `form:"whip" validate:"gte=0"`
	OpponentOPS  float64   `form:"opp_ops" validate:"gte=0"`
	LeagueOPS    float64   `form:"league_ops" validate:"gte=0"`
	Ballpark     Ballpark  `form:"ballpark"`
	Line         float64   `form:"line" validate:"gte=0"`
	UnderOdds    float64   `form:"under_odds"`
}

// ParseEarnedRuns reads an earned-runs form. xERA and WHIP are optional.
func ParseEarnedRuns(form input.Form) (EarnedRunsInput, error) {
	r := input.NewReader(form)
	park := r.Choice("ballpark", string(BallparkNeutral),
		string(BallparkNeutral), string(BallparkPitcher), string(BallparkHitter))
	in := EarnedRunsInput{
		Pitcher:      r.Text("pitcher", "Pitcher"),
		ERA:          r.Float("era"),
		TotalIP:      r.Float("total_ip"),
		GamesStarted: r.IntDefault("games_started", defaultERStarts),
		RecentIP:     r.FloatList("recent_ip", input.NonNegative),
		XERA:         r.FloatDefault("xera", 0),
		WHIP:         r.FloatDefault("whip", 0),
		OpponentOPS:  r.Float("opp_ops"),
		LeagueOPS:    r.Float("league_ops"),
		Ballpark:     Ballpark(park),
		Line:         r.FloatDefault("line", defaultERLine),
		UnderOdds:    r.American("under_odds"),
	}
	r.Struct(&in)
	return in, r.Err()
}

// EarnedRunsResult is the Poisson earned-runs projection.
type EarnedRunsResult struct {
	Outcome
	ExpectedIP  float64 `json:"expected_ip"`
	UsedERA     float64 `json:"used_era"`
	AdjustedERA float64 `json:"adjusted_era"`
	ProjectedER float64 `json:"projected_er"`
	Warning     string  `json:"warning,omitempty"`
}

// EarnedRuns prices the under on earned runs allowed.
func (s *Simulator) EarnedRuns(in EarnedRunsInput) (*EarnedRunsResult, error) {
	baseIP := in.TotalIP / float64(max(1, in.GamesStarted))
	trendIP := mean(in.RecentIP)

	res := &EarnedRunsResult{
		ExpectedIP: round((baseIP+trendIP)/2+in.Ballpark.InningsAdjustment(), 2),
		UsedERA:    in.ERA,
	}
	if in.XERA > 0 {
		res.UsedERA = in.XERA
	}
	res.AdjustedERA = round(res.UsedERA*(in.OpponentOPS/math.Max(in.LeagueOPS, 1e-6)), 3)
	res.ProjectedER = round(res.AdjustedERA*(res.ExpectedIP/9), 3)

	under, err := probability.PoissonCDF(int(math.Floor(in.Line)), math.Max(res.ProjectedER, 0))
	if err != nil {
		return nil, err
	}
	trueP := round(under*100, 2) / 100

	if in.WHIP > 1.45 && in.ERA < 3.20 && in.XERA == 0 {
		res.Warning = "ERA may be misleading due to high WHIP. Consider xERA."
		res.note("%s", res.Warning)
	}

	price, err := odds.NewPriceFromAmerican(in.UnderOdds)
	if err != nil {
		return nil, err
	}
	line := formatLine(in.Line)
	p, err := s.proposition(models.SportPitcher, in.Pitcher, fmt.Sprintf("Under %s ER", line),
		fmt.Sprintf("%s U%s ER", in.Pitcher, line), in.Line, trueP, &price)
	if err != nil {
		return nil, err
	}
	p.Tier = s.tiers.Table(ev.TablePropProbability).Classify(trueP)
	res.Props = append(res.Props, p)
	return res, nil
}

// StrikeoutsInput holds a starter's strikeout profile.
type StrikeoutsInput struct {
	Pitcher         string    `form:"pitcher"`
	TotalIP         float64   `form:"total_ip" validate:"gte=0"`
	GamesStarted    int       `form:"games_started" validate:"gte=0"`
	RecentIP        []float64 `form:"recent_ip" validate:"min=1"`
	KRate           float64   `form:"k_pct" validate:"probability"`
	OpponentKRate   float64   `form:"opp_k_pct" validate:"probability"`
	Line            float64   `form:"line" validate:"gte=0"`
	OverOdds        float64   `form:"over_odds"`
	UnderOdds       float64   `form:"under_odds"`
	ParkFactor      float64   `form:"park_factor" validate:"gt=0"`
	UmpireFactor    float64   `form:"ump_factor" validate:"gt=0"`
	RecentFormRatio float64   `form:"recent_factor" validate:"gt=0"`
}

// ParseStrikeouts reads a strikeout form. Rates accept 24.3 or 0.243.
func ParseStrikeouts(form input.Form) (StrikeoutsInput, error) {
	r := input.NewReader(form)
	in := StrikeoutsInput{
		Pitcher:         r.Text("pitcher", "Pitcher"),
		TotalIP:         r.Float("total_ip"),
		GamesStarted:    r.IntDefault("games_started", defaultKStarts),
		RecentIP:        r.FloatList("recent_ip", input.NonNegative),
		KRate:           r.Percent("k_pct"),
		OpponentKRate:   r.Percent("opp_k_pct"),
		Line:            r.Float("line"),
		OverOdds:        r.American("over_odds"),
		UnderOdds:       r.American("under_odds"),
		ParkFactor:      r.FloatDefault("park_factor", 1.0),
		UmpireFactor:    r.FloatDefault("ump_factor", 1.0),
		RecentFormRatio: r.FloatDefault("recent_factor", 1.0),
	}
	r.Struct(&in)
	return in, r.Err()
}

// StrikeoutRate blends pitcher and opponent strikeout rates, applies the
// park, umpire and form factors, and bounds the result to [0.10, 0.45].
func StrikeoutRate(pitcher, opponent, park, ump, recent float64) float64 {
	base := 0.6*pitcher + 0.4*opponent
	return probability.ClampRange(base*park*ump*recent, minStrikeoutRate, maxStrikeoutRate)
}

// BattersFaced converts expected innings into plate appearances, at least one.
func BattersFaced(expectedIP float64) int {
	return max(1, roundInt(expectedIP*plateAppearances))
}

// StrikeoutsResult is the binomial strikeout projection.
type StrikeoutsResult struct {
	Outcome
	ExpectedIP   float64 `json:"expected_ip"`
	BattersFaced int     `json:"batters_faced"`
	StrikeoutPA  float64 `json:"strikeout_per_pa"`
	ExpectedKs   float64 `json:"expected_ks"`
}

// Strikeouts prices the over and under on a strikeout line.
func (s *Simulator) Strikeouts(in StrikeoutsInput) (*StrikeoutsResult, error) {
	baseIP := in.TotalIP / float64(max(1, in.GamesStarted))
	expectedIP := round((baseIP+mean(in.RecentIP))/2, 2)

	pK := StrikeoutRate(in.KRate, in.OpponentKRate, in.ParkFactor, in.UmpireFactor, in.RecentFormRatio)
	n := BattersFaced(expectedIP)

	res := &StrikeoutsResult{
		ExpectedIP:   expectedIP,
		BattersFaced: n,
		StrikeoutPA:  round(pK, 3),
		ExpectedKs:   round(float64(n)*pK, 2),
	}

	under, err := probability.BinomialCDF(n, int(math.Floor(in.Line)), pK)
	if err != nil {
		return nil, err
	}

	line := formatLine(in.Line)
	table := s.tiers.Table(ev.TablePropProbability)
	sides := []struct {
		side, short string
		trueP       float64
		american    float64
	}{
		{"Over", "O", probability.Clamp(1 - under), in.OverOdds},
		{"Under", "U", under, in.UnderOdds},
	}
	for _, side := range sides {
		price, err := odds.NewPriceFromAmerican(side.american)
		if err != nil {
			return nil, err
		}
		p, err := s.proposition(models.SportPitcher, in.Pitcher, fmt.Sprintf("%s %s K", side.side, line),
			fmt.Sprintf("%s %s%s K", in.Pitcher, side.short, line), in.Line, side.trueP, &price)
		if err != nil {
			return nil, err
		}
		p.Tier = table.Classify(side.trueP)
		res.Props = append(res.Props, p)
	}

	res.note("%d batters faced at %.3f strikeouts per PA, %.2f expected", n, pK, res.ExpectedKs)
	return res, nil
}
