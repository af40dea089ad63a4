package simulator

import (
	"fmt"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/probability"
)

const (
	defenseFactor  = 1.2
	soccerMaxGoals = probability.DefaultMaxGoals
	playThreshold  = 0.05
)

// SoccerInput holds season xG totals for both sides and the three market prices.
type SoccerInput struct {
	Home        string     `form:"home"`
	Away        string     `form:"away"`
	HomeXG      float64    `form:"home_xg" validate:"gte=0"`
	HomeXGA     float64    `form:"home_xga" validate:"gte=0"`
	HomeMatches float64    `form:"home_matches" validate:"gt=0"`
	AwayXG      float64    `form:"away_xg" validate:"gte=0"`
	AwayXGA     float64    `form:"away_xga" validate:"gte=0"`
	AwayMatches float64    `form:"away_matches" validate:"gt=0"`
	Over15Odds  odds.Price `form:"over15_odds"`
	Over25Odds  odds.Price `form:"over25_odds"`
	BTTSOdds    odds.Price `form:"btts_odds"`
}

// ParseSoccer reads a match form. Odds may be American or decimal.
func ParseSoccer(form input.Form) (SoccerInput, error) {
	r := input.NewReader(form)
	in := SoccerInput{
		Home:        r.Text("home", "Home"),
		Away:        r.Text("away", "Away"),
		HomeXG:      r.Float("home_xg", input.NonNegative),
		HomeXGA:     r.Float("home_xga", input.NonNegative),
		HomeMatches: r.Float("home_matches", input.Positive),
		AwayXG:      r.Float("away_xg", input.NonNegative),
		AwayXGA:     r.Float("away_xga", input.NonNegative),
		AwayMatches: r.Float("away_matches", input.Positive),
		Over15Odds:  r.Price("over15_odds"),
		Over25Odds:  r.Price("over25_odds"),
		BTTSOdds:    r.Price("btts_odds"),
	}
	r.Struct(&in)
	return in, r.Err()
}

// PerMatch divides a season total by matches played, rounded to 3 places.
func PerMatch(total, matches float64) (float64, error) {
	if matches <= 0 {
		return 0, fmt.Errorf("matches played %v: %w", matches, models.ErrDomainViolation)
	}
	return round(total/matches, 3), nil
}

// ExpectedGoals derives each side's goal rate from attack and opposing defence.
func ExpectedGoals(homeXG, homeXGA, awayXG, awayXGA float64) (home, away float64) {
	return homeXG * awayXGA / defenseFactor, awayXG * homeXGA / defenseFactor
}

// Play is a highlighted market
type Play struct {
	Market          string  `json:"market"`
	Odds            string  `json:"odds"`
	TrueProbability float64 `json:"true_probability"`
	EVPerDollar     float64 `json:"ev_per_dollar"`
}

// SoccerResult holds the match projection and its three markets.
type SoccerResult struct {
	Outcome
	Match      string  `json:"match"`
	HomeXGPM   float64 `json:"home_xg_per_match"`
	HomeXGAPM  float64 `json:"home_xga_per_match"`
	AwayXGPM   float64 `json:"away_xg_per_match"`
	AwayXGAPM  float64 `json:"away_xga_per_match"`
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`
	HomeWin    float64 `json:"home_win"`
	Draw       float64 `json:"draw"`
	AwayWin    float64 `json:"away_win"`
	ValuePlay  *Play   `json:"value_play,omitempty"`
	SafePlay   *Play   `json:"safe_play,omitempty"`
}

type soccerMarket struct {
	name  string
	table string
	line  float64
	trueP float64
	price odds.Price
}

// Soccer runs the Poisson goal model for a match.
func (s *Simulator) Soccer(in SoccerInput) (*SoccerResult, error) {
	res := &SoccerResult{Match: fmt.Sprintf("%s vs %s", in.Home, in.Away)}

	perMatch := []struct {
		dst            *float64
		total, matches float64
	}{
		{&res.HomeXGPM, in.HomeXG, in.HomeMatches},
		{&res.HomeXGAPM, in.HomeXGA, in.HomeMatches},
		{&res.AwayXGPM, in.AwayXG, in.AwayMatches},
		{&res.AwayXGAPM, in.AwayXGA, in.AwayMatches},
	}
	for _, pm := range perMatch {
		v, err := PerMatch(pm.total, pm.matches)
		if err != nil {
			return nil, err
		}
		*pm.dst = v
	}

	res.LambdaHome, res.LambdaAway = ExpectedGoals(res.HomeXGPM, res.HomeXGAPM, res.AwayXGPM, res.AwayXGAPM)
	m, err := probability.NewGoalMatrix(res.LambdaHome, res.LambdaAway, soccerMaxGoals)
	if err != nil {
		return nil, err
	}
	res.HomeWin, res.Draw, res.AwayWin = m.Result()

	markets := []soccerMarket{
		{"Over 1.5", ev.TableSoccerOver15, 1.5, m.TotalAtLeast(2), in.Over15Odds},
		{"Over 2.5", ev.TableSoccerOver25, 2.5, m.TotalAtLeast(3), in.Over25Odds},
		{"BTTS", ev.TableSoccerBTTS, 0, m.BothTeamsScore(), in.BTTSOdds},
	}

	for _, mk := range markets {
		price := mk.price
		p, err := s.proposition(models.SportSoccer, res.Match, mk.name,
			fmt.Sprintf("%s - %s", res.Match, mk.name), mk.line, mk.trueP, &price)
		if err != nil {
			return nil, err
		}
		p.Tier = s.tiers.Table(mk.table).Classify(mk.trueP)
		res.Props = append(res.Props, p)
	}

	prices := make([]odds.Price, len(markets))
	for i, mk := range markets {
		prices[i] = mk.price
	}
	res.ValuePlay, res.SafePlay = pickPlays(res.Props, prices)
	switch {
	case res.ValuePlay == nil:
		res.note("No value play (all EV < 5%%).")
	default:
		res.note("Value play: %s (%s)", res.ValuePlay.Market, res.ValuePlay.Odds)
		res.note("Safe play: %s (%s)", res.SafePlay.Market, res.SafePlay.Odds)
	}
	return res, nil
}

// pickPlays returns the highest-EV market and, among markets clearing the EV
// threshold, the most likely one. Both are nil when nothing clears it.
// prices[i] is the price entered for props[i].
func pickPlays(props []models.Proposition, prices []odds.Price) (value, safe *Play) {
	for i := range props {
		p := props[i]
		if p.EVPerDollar < playThreshold {
			continue
		}
		if value == nil || p.EVPerDollar > value.EVPerDollar {
			value = toPlay(p, prices[i])
		}
		if safe == nil || p.TrueProbability > safe.TrueProbability {
			safe = toPlay(p, prices[i])
		}
	}
	return value, safe
}

// toPlay shows the odds in the format they were entered
func toPlay(p models.Proposition, price odds.Price) *Play {
	return &Play{
		Market:          p.Market,
		Odds:            price.String(),
		TrueProbability: p.TrueProbability,
		EVPerDollar:     p.EVPerDollar,
	}
}
