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

// League selects the scoring model for spreads and totals
type League string

const (
	LeagueMLB   League = "MLB"
	LeagueNFL   League = "NFL"
	LeagueNBA   League = "NBA"
	LeagueNCAAF League = "NCAA Football"
	LeagueNCAAB League = "NCAA Basketball"
)

const (
	defaultJuice     = -110.0
	atsKellyFraction = 0.25
	percentBase      = 100.0
)

// Sigmas returns the standard deviations of the game total and margin.
func (l League) Sigmas() (total, margin float64) {
	switch l {
	case LeagueMLB:
		return 3.5, 3.0
	case LeagueNFL:
		return 10.0, 9.0
	case LeagueNCAAF:
		return 12.0, 10.0
	case LeagueNBA:
		return 15.0, 12.0
	case LeagueNCAAB:
		return 18.0, 14.0
	default:
		return 12.0, 10.0
	}
}

// SuggestedVolatility is the automatic widening of both sigmas, in percent.
func (l League) SuggestedVolatility() float64 {
	switch l {
	case LeagueNFL:
		return 10
	case LeagueNCAAF:
		return 12
	case LeagueNBA:
		return 12
	case LeagueNCAAB:
		return 15
	case LeagueMLB:
		return 8
	default:
		return 10
	}
}

func (l League) football() bool   { return l == LeagueNFL || l == LeagueNCAAF }
func (l League) basketball() bool { return l == LeagueNBA || l == LeagueNCAAB }

// ATSAdjustments are the optional tweaks applied to the base projection.
// Point values are additive; everything else is a signed percentage.
type ATSAdjustments struct {
	HomeEdge   float64 `form:"home_edge"`
	AwayEdge   float64 `form:"away_edge"`
	HomeForm   float64 `form:"home_form"`
	AwayForm   float64 `form:"away_form"`
	HomeInjury float64 `form:"home_injury"`
	AwayInjury float64 `form:"away_injury"`
	GlobalPace float64 `form:"global_pace"`

	AutoVolatility bool    `form:"auto_volatility"`
	Volatility     float64 `form:"volatility"`

	Plays          float64 `form:"plays"`
	TurnoverMargin float64 `form:"turnover_margin"`
	HomeRedZone    float64 `form:"home_redzone"`
	AwayRedZone    float64 `form:"away_redzone"`

	Pace     float64 `form:"pace"`
	HomeORtg float64 `form:"home_ortg"`
	AwayORtg float64 `form:"away_ortg"`
	HomeDRtg float64 `form:"home_drtg"`
	AwayDRtg float64 `form:"away_drtg"`
	HomeRest float64 `form:"home_rest"`
	AwayRest float64 `form:"away_rest"`

	HomeSP      float64 `form:"home_sp"`
	AwaySP      float64 `form:"away_sp"`
	HomeBullpen float64 `form:"home_bullpen"`
	AwayBullpen float64 `form:"away_bullpen"`
	Park        float64 `form:"park"`
	Weather     float64 `form:"weather"`
}

// ATSInput describes one game.
type ATSInput struct {
	League League `form:"league" validate:"required"`
	Home   string `form:"home"`
	Away   string `form:"away"`

	HomeScored  float64 `form:"home_pf" validate:"gte=0"`
	HomeAllowed float64 `form:"home_pa" validate:"gte=0"`
	AwayScored  float64 `form:"away_pf" validate:"gte=0"`
	AwayAllowed float64 `form:"away_pa" validate:"gte=0"`

	SpreadHome     float64 `form:"spread_home"`
	SpreadOddsHome float64 `form:"spread_odds_home"`
	SpreadOddsAway float64 `form:"spread_odds_away"`
	TotalLine      float64 `form:"total_line" validate:"gte=0"`
	OverOdds       float64 `form:"over_odds"`
	UnderOdds      float64 `form:"under_odds"`
	MLHome         float64 `form:"ml_home"`
	MLAway         float64 `form:"ml_away"`

	Stake float64 `form:"stake" validate:"gte=0"`

	Adjustments ATSAdjustments
}

// ParseATS reads a spreads-and-totals form. Odds default to -110.
func ParseATS(form input.Form) (ATSInput, error) {
	r := input.NewReader(form)
	in := ATSInput{
		League: League(r.Choice("league", string(LeagueNFL),
			string(LeagueMLB), string(LeagueNFL), string(LeagueNBA), string(LeagueNCAAF), string(LeagueNCAAB))),
		Home:           r.Text("home", "Home"),
		Away:           r.Text("away", "Away"),
		HomeScored:     r.Float("home_pf"),
		HomeAllowed:    r.Float("home_pa"),
		AwayScored:     r.Float("away_pf"),
		AwayAllowed:    r.Float("away_pa"),
		SpreadHome:     r.FloatDefault("spread_home", 0),
		SpreadOddsHome: r.AmericanDefault("spread_odds_home", defaultJuice),
		SpreadOddsAway: r.AmericanDefault("spread_odds_away", defaultJuice),
		TotalLine:      r.Float("total_line"),
		OverOdds:       r.AmericanDefault("over_odds", defaultJuice),
		UnderOdds:      r.AmericanDefault("under_odds", defaultJuice),
		MLHome:         r.AmericanDefault("ml_home", defaultJuice),
		MLAway:         r.AmericanDefault("ml_away", defaultJuice),
		Stake:          r.FloatDefault("stake", 0),
	}

	a := &in.Adjustments
	pct := func(field string) float64 { return r.FloatDefault(field, 0, input.Between(-100, 1000)) }
	a.HomeEdge = r.FloatDefault("home_edge", 0)
	a.AwayEdge = r.FloatDefault("away_edge", 0)
	a.HomeForm = pct("home_form")
	a.AwayForm = pct("away_form")
	a.HomeInjury = pct("home_injury")
	a.AwayInjury = pct("away_injury")
	a.GlobalPace = pct("global_pace")
	a.AutoVolatility = r.Choice("auto_volatility", "true", "true", "false") == "true"
	a.Volatility = r.FloatDefault("volatility", 0, input.Between(-100, 1000))

	if in.League.football() {
		a.Plays = pct("plays")
		a.TurnoverMargin = r.FloatDefault("turnover_margin", 0)
		a.HomeRedZone = pct("home_redzone")
		a.AwayRedZone = pct("away_redzone")
	}
	if in.League.basketball() {
		a.Pace = pct("pace")
		a.HomeORtg = pct("home_ortg")
		a.AwayORtg = pct("away_ortg")
		a.HomeDRtg = pct("home_drtg")
		a.AwayDRtg = pct("away_drtg")
		a.HomeRest = pct("home_rest")
		a.AwayRest = pct("away_rest")
	}
	if in.League == LeagueMLB {
		a.HomeSP = r.FloatDefault("home_sp", 0)
		a.AwaySP = r.FloatDefault("away_sp", 0)
		a.HomeBullpen = r.FloatDefault("home_bullpen", 0)
		a.AwayBullpen = r.FloatDefault("away_bullpen", 0)
		a.Park = pct("park")
		a.Weather = pct("weather")
	}

	r.Struct(&in)
	return in, r.Err()
}

func mult(pct float64) float64 {
	return 1 + pct/percentBase
}

// ProjectScores returns the adjusted home and away scores. Adjustments are
// applied in a fixed order: additive edges, form and injury, the league
// specific block, then global pace.
func ProjectScores(in ATSInput) (home, away float64) {
	a := in.Adjustments

	home = (in.HomeScored + in.AwayAllowed) / 2
	away = (in.AwayScored + in.HomeAllowed) / 2

	home += a.HomeEdge
	away += a.AwayEdge

	home *= mult(a.HomeForm) * mult(a.HomeInjury)
	away *= mult(a.AwayForm) * mult(a.AwayInjury)

	switch {
	case in.League.football():
		home += a.TurnoverMargin / 2
		away -= a.TurnoverMargin / 2
		home *= mult(a.HomeRedZone)
		away *= mult(a.AwayRedZone)
		scale := mult(a.Plays)
		home *= scale
		away *= scale

	case in.League.basketball():
		// pace is applied to the home side only
		home *= mult(a.Pace) * mult(a.HomeORtg) * mult(a.HomeRest)
		away *= mult(a.AwayORtg) * mult(a.AwayRest)
		home *= mult(a.AwayDRtg)
		away *= mult(a.HomeDRtg)

	case in.League == LeagueMLB:
		home += a.HomeSP + a.HomeBullpen
		away += a.AwaySP + a.AwayBullpen
		factor := mult(a.Park) * mult(a.Weather)
		home *= factor
		away *= factor
	}

	home *= mult(a.GlobalPace)
	away *= mult(a.GlobalPace)
	return home, away
}

// Wager is the stake advice for one proposition.
type Wager struct {
	PropositionID  string  `json:"proposition_id"`
	Description    string  `json:"description"`
	ExpectedProfit float64 `json:"expected_profit"`
	KellyFraction  float64 `json:"kelly_fraction"`
}

// ATSResult is the projected game and the six priced markets.
type ATSResult struct {
	Outcome
	League          League  `json:"league"`
	HomeProjected   float64 `json:"home_projected"`
	AwayProjected   float64 `json:"away_projected"`
	ProjectedTotal  float64 `json:"projected_total"`
	ProjectedMargin float64 `json:"projected_margin"`
	SigmaTotal      float64 `json:"sigma_total"`
	SigmaMargin     float64 `json:"sigma_margin"`
	VolatilityPct   float64 `json:"volatility_pct"`
	Wagers          []Wager `json:"wagers,omitempty"`
}

// ATS prices home and away spread, over and under, and both moneylines.
func (s *Simulator) ATS(in ATSInput) (*ATSResult, error) {
	home, away := ProjectScores(in)
	res := &ATSResult{
		League:          in.League,
		HomeProjected:   home,
		AwayProjected:   away,
		ProjectedTotal:  home + away,
		ProjectedMargin: home - away,
	}

	res.VolatilityPct = in.Adjustments.Volatility
	if in.Adjustments.AutoVolatility {
		res.VolatilityPct = in.League.SuggestedVolatility()
	}
	sdTotal, sdMargin := in.League.Sigmas()
	res.SigmaTotal = sdTotal * mult(res.VolatilityPct)
	res.SigmaMargin = sdMargin * mult(res.VolatilityPct)
	if res.SigmaTotal <= 0 || res.SigmaMargin <= 0 {
		return nil, fmt.Errorf("volatility %v%% leaves no spread: %w", res.VolatilityPct, models.ErrDomainViolation)
	}

	// covering home +line means margin + line > 0
	homeCover, err := probability.Cover(res.ProjectedMargin, -in.SpreadHome, res.SigmaMargin)
	if err != nil {
		return nil, err
	}
	over, err := probability.Cover(res.ProjectedTotal, in.TotalLine, res.SigmaTotal)
	if err != nil {
		return nil, err
	}
	homeWin, err := probability.Cover(res.ProjectedMargin, 0, res.SigmaMargin)
	if err != nil {
		return nil, err
	}

	awaySpread := 0 - in.SpreadHome
	markets := []struct {
		subject, market string
		line, trueP     float64
		american        float64
	}{
		{in.Home, fmt.Sprintf("%s %+.2f", in.Home, in.SpreadHome), in.SpreadHome, homeCover, in.SpreadOddsHome},
		{in.Away, fmt.Sprintf("%s %+.2f", in.Away, awaySpread), awaySpread, 1 - homeCover, in.SpreadOddsAway},
		{"Total", fmt.Sprintf("Over %.2f", in.TotalLine), in.TotalLine, over, in.OverOdds},
		{"Total", fmt.Sprintf("Under %.2f", in.TotalLine), in.TotalLine, math.Max(0, 1-over), in.UnderOdds},
		{in.Home, fmt.Sprintf("%s ML", in.Home), 0, homeWin, in.MLHome},
		{in.Away, fmt.Sprintf("%s ML", in.Away), 0, 1 - homeWin, in.MLAway},
	}

	table := s.tiers.Table(ev.TableATSEdge)
	for _, m := range markets {
		price, err := odds.NewPriceFromAmerican(m.american)
		if err != nil {
			return nil, err
		}
		p, err := s.proposition(models.SportATS, m.subject, m.market, m.market, m.line, round(m.trueP, 4), &price)
		if err != nil {
			return nil, err
		}
		p.Tier = table.Classify(round(p.EdgePP, 2))
		res.Props = append(res.Props, p)

		if in.Stake > 0 {
			res.Wagers = append(res.Wagers, Wager{
				PropositionID:  p.ID,
				Description:    p.Description,
				ExpectedProfit: round(p.EVPerDollar*in.Stake, 2),
				KellyFraction:  round(ev.Kelly(p.TrueProbability, price.Decimal, atsKellyFraction), 4),
			})
		}
	}

	res.note("Projected %s %.2f, %s %.2f, total %.2f, margin %.2f",
		in.Home, home, in.Away, away, res.ProjectedTotal, res.ProjectedMargin)
	return res, nil
}
