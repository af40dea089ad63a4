package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/models"
)

func TestClassifyDefense(t *testing.T) {
	tests := []struct {
		yards float64
		want  DefenseTier
	}{
		{195, DefenseTough},
		{209.9, DefenseTough},
		{210, DefenseAverage},
		{240, DefenseAverage},
		{240.1, DefenseEasy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDefense(tt.yards), "yards %v", tt.yards)
	}
}

func TestNFLQuarterback(t *testing.T) {
	res, err := New(nil).Run(KindNFL, input.Form{
		"position":      "QB",
		"player":        "J. Allen",
		"std_line":      "250.5",
		"over_odds":     "-115",
		"td_line":       "1.5",
		"td_under_odds": "+120",
		"tds_pg":        "1.8",
		"def_tds":       "1.6",
		"ypg":           "260",
		"def_yds":       "230",
	})
	require.NoError(t, err)

	nfl := res.(*NFLResult)
	assert.Equal(t, DefenseAverage, nfl.DefenseTier)
	assert.InDelta(t, 245.0, nfl.ProjectedYards, 1e-9)
	assert.InDelta(t, 1.7, nfl.ProjectedTDs, 1e-9)
	require.Len(t, nfl.Props, 2)

	over := propByMarket(t, nfl.Props, "Over 250.5 Pass Yds")
	assert.InDelta(t, 0.4093, over.TrueProbability, 1e-9)
	assert.Equal(t, models.TierRisky, over.Tier)
	assert.True(t, over.HasOdds())
	assert.Equal(t, "J. Allen - Over 250.5 Pass Yds", over.Description)

	under := propByMarket(t, nfl.Props, "Under 1.5 Pass TDs")
	assert.InDelta(t, 0.4013, under.TrueProbability, 1e-9)
	assert.InDelta(t, 100.0/220.0, under.ImpliedProbability, 1e-9)
}

func TestNFLReceiver(t *testing.T) {
	res, err := New(nil).Run(KindNFL, input.Form{
		"position": "WR",
		"player":   "J. Chase",
		"std_line": "120.5",
		"alt_line": "100.5",
		"rec_line": "5.5",
		"rpg":      "5",
		"def_rec":  "14",
		"ypg":      "80",
		"def_yds":  "250",
	})
	require.NoError(t, err)

	nfl := res.(*NFLResult)
	assert.Equal(t, DefenseEasy, nfl.DefenseTier)
	assert.InDelta(t, 80*250.0/150+10, nfl.ProjectedYards, 1e-9)
	require.Len(t, nfl.Props, 5)

	over := propByMarket(t, nfl.Props, "Over 120.5 Rec Yds")
	assert.InDelta(t, 0.8209, over.TrueProbability, 1e-9)
	assert.Equal(t, models.TierElite, over.Tier)
	assert.False(t, over.HasOdds())

	under := propByMarket(t, nfl.Props, "Under 120.5 Rec Yds")
	assert.InDelta(t, 0.1791, under.TrueProbability, 1e-9)

	rec := propByMarket(t, nfl.Props, "Over 5.5 Receptions")
	assert.InDelta(t, 0.5553, rec.TrueProbability, 1e-9)
	assert.Equal(t, models.TierModerate, rec.Tier)

	alt := propByMarket(t, nfl.Props, "Over 100.5 Alt Rec Yds")
	assert.Greater(t, alt.TrueProbability, over.TrueProbability)
}

func TestNFLRejectsBadPosition(t *testing.T) {
	_, err := New(nil).Run(KindNFL, input.Form{"position": "K", "std_line": "10", "ypg": "1", "def_yds": "1"})
	assert.ErrorIs(t, err, models.ErrDomainViolation)
}
