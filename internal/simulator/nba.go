package simulator

import (
	"fmt"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/probability"
)

// StatType selects the projected NBA stat
type StatType string

const (
	StatPRA    StatType = "PRA"
	StatPoints StatType = "Points"
)

// Scale returns the logistic scale for the stat
func (t StatType) Scale() float64 {
	if t == StatPoints {
		return 6.5
	}
	return 8.0
}

// LoadManagement scales the projection for expected minutes
type LoadManagement string

const (
	LoadNone   LoadManagement = "None"
	LoadLight  LoadManagement = "Light"
	LoadHeavy  LoadManagement = "Heavy"
	LoadCustom LoadManagement = "Custom"
)

const (
	nbaMinProbability = 0.10
	nbaMaxProbability = 0.90
	maxDefenseShift   = 0.25
	defenseShiftSlope = maxDefenseShift / 14.5
	defenseRankMid    = 15.5
)

// Factor returns the projection multiplier. customPct applies to LoadCustom only.
func (l LoadManagement) Factor(customPct float64) float64 {
	switch l {
	case LoadLight:
		return 0.95
	case LoadHeavy:
		return 0.90
	case LoadCustom:
		return probability.ClampRange(1+customPct/100, 0.70, 1.20)
	default:
		return 1.0
	}
}

// MatchupTier describes an opponent's defensive rank against the position.
type MatchupTier struct {
	Label  string  `json:"label"`
	Factor float64 `json:"factor"`
}

// ClassifyMatchup maps a defensive rank (1 best, 30 worst) to a tier
func ClassifyMatchup(rank int) MatchupTier {
	switch {
	case rank <= 5:
		return MatchupTier{"Elite Defense", 0.92}
	case rank <= 10:
		return MatchupTier{"Strong Defense", 0.95}
	case rank <= 20:
		return MatchupTier{"Moderate Defense", 1.00}
	case rank <= 25:
		return MatchupTier{"Favorable Defense", 1.05}
	default:
		return MatchupTier{"Very Favorable Defense", 1.08}
	}
}

// DefenseShift is the logit offset for a defensive rank.
func DefenseShift(rank int) float64 {
	return probability.ClampRange(defenseShiftSlope*(float64(rank)-defenseRankMid), -maxDefenseShift, maxDefenseShift)
}

// BlendWeight returns the weight on current-season production. Before any
// regular-season games a meaningful preseason earns a small weight.
func BlendWeight(gamesPlayed, preseasonGames int, preseasonMPG float64) float64 {
	switch {
	case gamesPlayed <= 0:
		if preseasonGames >= 3 && preseasonMPG >= 15 {
			return 0.10
		}
		return 0
	case gamesPlayed <= 3:
		return 0.10
	case gamesPlayed <= 6:
		return 0.20
	case gamesPlayed <= 9:
		return 0.30
	default:
		return 1.0
	}
}

// Readiness labels how much of the projection comes from this season.
func Readiness(gamesPlayed int, weight float64) string {
	switch {
	case gamesPlayed >= 10 && weight == 1.0:
		return "Current-season stable"
	case weight > 0:
		return "Blended (LY + Current)"
	default:
		return "Last-season only"
	}
}

// LineProbability returns the over probability for a line, bounded to [0.10, 0.90].
func LineProbability(stat StatType, projection, line float64, defenseRank int) float64 {
	if line <= 0 {
		return nbaMinProbability
	}
	z := (projection-line)/stat.Scale() + DefenseShift(defenseRank)
	return probability.ClampRange(round(probability.Sigmoid(z), 4), nbaMinProbability, nbaMaxProbability)
}

// NBAInput holds a player projection for points or PRA.
type NBAInput struct {
	Player         string         `form:"player"`
	Team           string         `form:"team"`
	Opponent       string         `form:"opponent"`
	Stat           StatType       `form:"stat"`
	Line           float64        `form:"line" validate:"gte=0"`
	OverOdds       *float64       `form:"over_odds"`
	UnderOdds      *float64       `form:"under_odds"`
	BasePoints     float64        `form:"base_pts" validate:"gte=0"`
	BaseRebounds   float64        `form:"base_reb" validate:"gte=0"`
	BaseAssists    float64        `form:"base_ast" validate:"gte=0"`
	RecentAvg      float64        `form:"recent_avg" validate:"gte=0"`
	DefenseRank    int            `form:"def_rank" validate:"gte=1,lte=30"`
	AltLine        float64        `form:"alt_line" validate:"gte=0"`
	AltOdds        *float64       `form:"alt_odds"`
	GamesPlayed    int            `form:"games_played" validate:"gte=0"`
	PreseasonGames int            `form:"preseason_games" validate:"gte=0"`
	PreseasonMPG   float64        `form:"preseason_mpg" validate:"gte=0"`
	LoadManagement LoadManagement `form:"load_management"`
	CustomLoadPct  float64        `form:"custom_lm_pct"`
}

// ParseNBA reads an NBA form. All odds are optional.
func ParseNBA(form input.Form) (NBAInput, error) {
	r := input.NewReader(form)
	load := r.Choice("load_management", string(LoadNone),
		string(LoadNone), string(LoadLight), string(LoadHeavy), string(LoadCustom))
	in := NBAInput{
		Player:         r.Text("player", "Player"),
		Team:           r.Text("team", ""),
		Opponent:       r.Text("opponent", ""),
		Stat:           StatType(r.Choice("stat", string(StatPRA), string(StatPRA), string(StatPoints))),
		Line:           r.Float("line"),
		OverOdds:       r.OptionalAmerican("over_odds"),
		UnderOdds:      r.OptionalAmerican("under_odds"),
		BasePoints:     r.FloatDefault("base_pts", 0),
		BaseRebounds:   r.FloatDefault("base_reb", 0),
		BaseAssists:    r.FloatDefault("base_ast", 0),
		RecentAvg:      r.FloatDefault("recent_avg", 0),
		DefenseRank:    r.IntDefault("def_rank", 15),
		AltLine:        r.FloatDefault("alt_line", 0),
		AltOdds:        r.OptionalAmerican("alt_odds"),
		GamesPlayed:    r.IntDefault("games_played", 0),
		PreseasonGames: r.IntDefault("preseason_games", 0),
		PreseasonMPG:   r.FloatDefault("preseason_mpg", 0),
		LoadManagement: LoadManagement(load),
		CustomLoadPct:  r.FloatDefault("custom_lm_pct", 0),
	}
	r.Struct(&in)
	return in, r.Err()
}

// NBAResult is the projection for one player.
type NBAResult struct {
	Outcome
	Projection    float64     `json:"projection"`
	BlendWeight   float64     `json:"blend_weight"`
	Readiness     string      `json:"readiness"`
	Matchup       MatchupTier `json:"matchup"`
	OverProb      float64     `json:"over_probability"`
	AltOverProb   *float64    `json:"alt_over_probability,omitempty"`
	DefenseShift  float64     `json:"defense_shift"`
	LastSeasonAvg float64     `json:"last_season_avg"`
}

type nbaLeg struct {
	market string
	line   float64
	trueP  float64
	odds   *float64
}

// NBA projects points or PRA and prices the over and under. NBA props are
// not tiered.
func (s *Simulator) NBA(in NBAInput) (*NBAResult, error) {
	base := in.BasePoints
	if in.Stat == StatPRA {
		base = in.BasePoints + in.BaseRebounds + in.BaseAssists
	}
	current := base
	if in.RecentAvg > 0 {
		current = in.RecentAvg
	}

	w := BlendWeight(in.GamesPlayed, in.PreseasonGames, in.PreseasonMPG)
	matchup := ClassifyMatchup(in.DefenseRank)
	projection := (w*current + (1-w)*base) * in.LoadManagement.Factor(in.CustomLoadPct) * matchup.Factor

	res := &NBAResult{
		Projection:    round(projection, 2),
		BlendWeight:   w,
		Readiness:     Readiness(in.GamesPlayed, w),
		Matchup:       matchup,
		OverProb:      LineProbability(in.Stat, projection, in.Line, in.DefenseRank),
		DefenseShift:  DefenseShift(in.DefenseRank),
		LastSeasonAvg: base,
	}

	line := formatLine(in.Line)
	legs := []nbaLeg{
		{fmt.Sprintf("Over %s (%s)", line, in.Stat), in.Line, res.OverProb, in.OverOdds},
		{fmt.Sprintf("Under %s (%s)", line, in.Stat), in.Line, 1 - res.OverProb, in.UnderOdds},
	}
	if in.AltLine > 0 {
		alt := LineProbability(in.Stat, projection, in.AltLine, in.DefenseRank)
		res.AltOverProb = &alt
		legs = append(legs, nbaLeg{fmt.Sprintf("Alt Over %s (%s)", formatLine(in.AltLine), in.Stat), in.AltLine, alt, in.AltOdds})
	}

	for _, leg := range legs {
		price, err := americanPrice(leg.odds)
		if err != nil {
			return nil, err
		}
		p, err := s.proposition(models.SportNBA, in.Player, leg.market,
			fmt.Sprintf("%s %s", in.Player, leg.market), leg.line, leg.trueP, price)
		if err != nil {
			return nil, err
		}
		res.Props = append(res.Props, p)
	}

	res.note("%s (rank %d), blend %.0f/%.0f LY/current, %s", matchup.Label, in.DefenseRank, (1-w)*100, w*100, res.Readiness)
	return res, nil
}
