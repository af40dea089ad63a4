package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
)

func soccerForm() input.Form {
	return input.Form{
		"home":         "Arsenal",
		"away":         "Spurs",
		"home_xg":      "45",
		"home_xga":     "22",
		"home_matches": "20",
		"away_xg":      "30",
		"away_xga":     "32",
		"away_matches": "20",
		"over15_odds":  "1.20",
		"over25_odds":  "+110",
		"btts_odds":    "-150",
	}
}

func TestPerMatch(t *testing.T) {
	v, err := PerMatch(45, 20)
	require.NoError(t, err)
	assert.Equal(t, 2.25, v)

	v, err = PerMatch(10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.333, v)

	_, err = PerMatch(10, 0)
	assert.ErrorIs(t, err, models.ErrDomainViolation)
}

func TestSoccer(t *testing.T) {
	res, err := New(nil).Run(KindSoccer, soccerForm())
	require.NoError(t, err)

	sc := res.(*SoccerResult)
	assert.Equal(t, "Arsenal vs Spurs", sc.Match)
	assert.InDelta(t, 3.0, sc.LambdaHome, 1e-9)
	assert.InDelta(t, 1.375, sc.LambdaAway, 1e-9)
	assert.InDelta(t, 1.0, sc.HomeWin+sc.Draw+sc.AwayWin, 1e-9)
	assert.Greater(t, sc.HomeWin, sc.AwayWin)
	require.Len(t, sc.Props, 3)

	tests := []struct {
		market string
		trueP  float64
		dec    float64
	}{
		{"Over 1.5", 0.93232, 1.20},
		{"Over 2.5", 0.81181, 2.10},
		{"BTTS", 0.70995, 1.0 + 100.0/150.0},
	}
	for _, tt := range tests {
		t.Run(tt.market, func(t *testing.T) {
			p := propByMarket(t, sc.Props, tt.market)
			assert.InDelta(t, tt.trueP, p.TrueProbability, 1e-4)
			assert.InDelta(t, tt.dec, p.DecimalOdds, 1e-9)
			assert.Equal(t, models.TierElite, p.Tier)
			assert.Equal(t, "Arsenal vs Spurs - "+tt.market, p.Description)
		})
	}

	require.NotNil(t, sc.ValuePlay)
	assert.Equal(t, "Over 2.5", sc.ValuePlay.Market)
	assert.Equal(t, "+110", sc.ValuePlay.Odds)
	require.NotNil(t, sc.SafePlay)
	assert.Equal(t, "Over 1.5", sc.SafePlay.Market)
	assert.Equal(t, "1.20", sc.SafePlay.Odds)
	assert.Contains(t, sc.Notes, "Safe play: Over 1.5 (1.20)")
}

func TestSoccerNoValuePlay(t *testing.T) {
	form := soccerForm()
	form["over15_odds"] = "1.01"
	form["over25_odds"] = "1.05"
	form["btts_odds"] = "1.10"

	res, err := New(nil).Run(KindSoccer, form)
	require.NoError(t, err)
	sc := res.(*SoccerResult)
	assert.Nil(t, sc.ValuePlay)
	assert.Nil(t, sc.SafePlay)
	assert.Contains(t, sc.Notes, "No value play (all EV < 5%).")
}

func TestSoccerRejectsZeroMatches(t *testing.T) {
	form := soccerForm()
	form["away_matches"] = "0"

	_, err := New(nil).Run(KindSoccer, form)
	assert.ErrorIs(t, err, models.ErrDomainViolation)
}
