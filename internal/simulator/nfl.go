package simulator

import (
	"fmt"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/probability"
)

// Position is an NFL skill position
type Position string

const (
	PositionQB Position = "QB"
	PositionWR Position = "WR"
	PositionRB Position = "RB"
)

const (
	yardsScale      = 15.0
	touchdownScale  = 0.5
	receptionsScale = 1.5

	leagueWRYards      = 150.0
	leagueWRReceptions = 12.0
)

// DefenseTier buckets an opponent by yards allowed per game
type DefenseTier string

const (
	DefenseTough   DefenseTier = "Tough"
	DefenseAverage DefenseTier = "Average"
	DefenseEasy    DefenseTier = "Easy"
)

// ClassifyDefense buckets yards allowed: under 210 is Tough, up to 240 Average.
func ClassifyDefense(yardsAllowed float64) DefenseTier {
	switch {
	case yardsAllowed < 210:
		return DefenseTough
	case yardsAllowed <= 240:
		return DefenseAverage
	default:
		return DefenseEasy
	}
}

// Adjust shifts a yardage and touchdown projection for the tier.
func (t DefenseTier) Adjust(yards, tds float64) (float64, float64) {
	switch t {
	case DefenseTough:
		return yards - 10, tds - 0.2
	case DefenseEasy:
		return yards + 10, tds + 0.2
	default:
		return yards, tds
	}
}

// NFLInput holds one player's prop inputs.
type NFLInput struct {
	Position Position `form:"position" validate:"oneof=QB WR RB"`
	Player   string   `form:"player"`
	Opponent string   `form:"opponent"`

	StandardLine float64  `form:"std_line"`
	OverOdds     *float64 `form:"over_odds"`
	UnderOdds    *float64 `form:"under_odds"`
	AltLine      *float64 `form:"alt_line"`
	AltOdds      *float64 `form:"alt_odds"`

	// QB only
	TDLine      float64  `form:"td_line"`
	TDUnderOdds *float64 `form:"td_under_odds"`
	TDsPerGame  float64  `form:"tds_pg"`
	DefTDs      float64  `form:"def_tds"`

	// WR and RB
	ReceptionLine     float64  `form:"rec_line"`
	RecOverOdds       *float64 `form:"rec_over_odds"`
	RecUnderOdds      *float64 `form:"rec_under_odds"`
	ReceptionsPerGame float64  `form:"rpg"`
	DefReceptions     float64  `form:"def_rec"`

	YardsPerGame float64 `form:"ypg"`
	DefYards     float64 `form:"def_yds"`
}

// ParseNFL reads an NFL prop form.
func ParseNFL(form input.Form) (NFLInput, error) {
	r := input.NewReader(form)
	in := NFLInput{
		Position:     Position(r.Choice("position", string(PositionQB), string(PositionQB), string(PositionWR), string(PositionRB))),
		Player:       r.Text("player", "Player"),
		Opponent:     r.Text("opponent", ""),
		StandardLine: r.Float("std_line", input.NonNegative),
		OverOdds:     r.OptionalAmerican("over_odds"),
		UnderOdds:    r.OptionalAmerican("under_odds"),
		AltLine:      r.OptionalFloat("alt_line", input.Positive),
		AltOdds:      r.OptionalAmerican("alt_odds"),
		YardsPerGame: r.Float("ypg", input.NonNegative),
		DefYards:     r.Float("def_yds", input.NonNegative),
	}

	if in.Position == PositionQB {
		in.TDLine = r.FloatDefault("td_line", 1.5, input.NonNegative)
		in.TDUnderOdds = r.OptionalAmerican("td_under_odds")
		in.TDsPerGame = r.Float("tds_pg", input.NonNegative)
		in.DefTDs = r.Float("def_tds", input.NonNegative)
	} else {
		in.ReceptionLine = r.Float("rec_line", input.NonNegative)
		in.RecOverOdds = r.OptionalAmerican("rec_over_odds")
		in.RecUnderOdds = r.OptionalAmerican("rec_under_odds")
		in.ReceptionsPerGame = r.Float("rpg", input.NonNegative)
		in.DefReceptions = r.Float("def_rec", input.NonNegative)
	}

	r.Struct(&in)
	return in, r.Err()
}

// NFLResult is the outcome of an NFL prop simulation.
type NFLResult struct {
	Outcome
	Position            Position    `json:"position"`
	DefenseTier         DefenseTier `json:"defense_tier"`
	ProjectedYards      float64     `json:"projected_yards"`
	ProjectedTDs        float64     `json:"projected_tds,omitempty"`
	ProjectedReceptions float64     `json:"projected_receptions,omitempty"`
}

type nflLeg struct {
	market string
	line   float64
	pct    float64
	odds   *float64
}

// NFL projects the player's yardage and secondary stat against the
// opponent and prices each prop.
func (s *Simulator) NFL(in NFLInput) (*NFLResult, error) {
	tier := ClassifyDefense(in.DefYards)
	res := &NFLResult{Position: in.Position, DefenseTier: tier}

	var legs []nflLeg
	switch in.Position {
	case PositionQB:
		avgYards := (in.YardsPerGame + in.DefYards) / 2
		avgTDs := (in.TDsPerGame + in.DefTDs) / 2
		res.ProjectedYards, res.ProjectedTDs = tier.Adjust(avgYards, avgTDs)

		std, err := logisticPct(res.ProjectedYards, in.StandardLine, yardsScale)
		if err != nil {
			return nil, err
		}
		td, err := logisticPct(res.ProjectedTDs, in.TDLine, touchdownScale)
		if err != nil {
			return nil, err
		}

		legs = append(legs, nflLeg{fmt.Sprintf("Over %s Pass Yds", formatLine(in.StandardLine)), in.StandardLine, std, in.OverOdds})
		if in.AltLine != nil {
			alt, err := logisticPct(res.ProjectedYards, *in.AltLine, yardsScale)
			if err != nil {
				return nil, err
			}
			legs = append(legs, nflLeg{fmt.Sprintf("Over %s Alt Pass Yds", formatLine(*in.AltLine)), *in.AltLine, alt, in.AltOdds})
		}
		legs = append(legs, nflLeg{fmt.Sprintf("Under %s Pass TDs", formatLine(in.TDLine)), in.TDLine, round(100-td, 2), in.TDUnderOdds})

	case PositionWR, PositionRB:
		var avgYards float64
		if in.Position == PositionWR {
			avgYards = in.YardsPerGame * (in.DefYards / leagueWRYards)
			res.ProjectedReceptions = in.ReceptionsPerGame * (in.DefReceptions / leagueWRReceptions)
		} else {
			avgYards = (in.YardsPerGame + in.DefYards) / 2
			res.ProjectedReceptions = (in.ReceptionsPerGame + in.DefReceptions) / 2
		}
		res.ProjectedYards, _ = tier.Adjust(avgYards, 0)

		std, err := logisticPct(res.ProjectedYards, in.StandardLine, yardsScale)
		if err != nil {
			return nil, err
		}
		rec, err := logisticPct(res.ProjectedReceptions, in.ReceptionLine, receptionsScale)
		if err != nil {
			return nil, err
		}

		unit := "Rec Yds"
		if in.Position == PositionRB {
			unit = "Rush Yds"
		}
		legs = append(legs,
			nflLeg{fmt.Sprintf("Over %s %s", formatLine(in.StandardLine), unit), in.StandardLine, std, in.OverOdds},
			nflLeg{fmt.Sprintf("Under %s %s", formatLine(in.StandardLine), unit), in.StandardLine, round(100-std, 2), in.UnderOdds},
		)
		if in.AltLine != nil {
			alt, err := logisticPct(res.ProjectedYards, *in.AltLine, yardsScale)
			if err != nil {
				return nil, err
			}
			legs = append(legs, nflLeg{fmt.Sprintf("Over %s Alt %s", formatLine(*in.AltLine), unit), *in.AltLine, alt, in.AltOdds})
		}
		legs = append(legs,
			nflLeg{fmt.Sprintf("Over %s Receptions", formatLine(in.ReceptionLine)), in.ReceptionLine, rec, in.RecOverOdds},
			nflLeg{fmt.Sprintf("Under %s Receptions", formatLine(in.ReceptionLine)), in.ReceptionLine, round(100-rec, 2), in.RecUnderOdds},
		)

	default:
		return nil, fmt.Errorf("position %q: %w", in.Position, models.ErrDomainViolation)
	}

	res.note("Opponent defense tier: %s", tier)

	table := s.tiers.Table(ev.TablePropProbability)
	for _, leg := range legs {
		price, err := americanPrice(leg.odds)
		if err != nil {
			return nil, err
		}
		trueP := leg.pct / 100
		p, err := s.proposition(models.SportNFL, in.Player, leg.market,
			fmt.Sprintf("%s - %s", in.Player, leg.market), leg.line, trueP, price)
		if err != nil {
			return nil, err
		}
		p.Tier = table.Classify(trueP)
		res.Props = append(res.Props, p)
	}
	return res, nil
}

// logisticPct returns the logistic probability as a percentage rounded to
// two places.
func logisticPct(x, line, scale float64) (float64, error) {
	p, err := probability.Logistic(x, line, scale)
	if err != nil {
		return 0, err
	}
	return round(p*100, 2), nil
}
