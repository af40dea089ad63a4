package parlay

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/ev"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

const (
	nbaDescription = "Jokic Over 48.5 (PRA)"
	nflDescription = "QB — Over 249.5 Pass Yds"
)

func parlayTable() ev.TierTable {
	return ev.DefaultTierSet().Table(ev.TableParlayEV)
}

func TestCartAddPreservesOrderAndDuplicates(t *testing.T) {
	cart := NewCart()

	first, err := cart.Add(models.SportNBA, nbaDescription, -110, 0.58)
	require.NoError(t, err)
	second, err := cart.Add(models.SportNBA, nbaDescription, -110, 0.58)
	require.NoError(t, err)
	_, err = cart.Add(models.SportNFL, nflDescription, 120, 0.5)
	require.NoError(t, err)

	legs := cart.Legs()
	require.Len(t, legs, 3)
	assert.Equal(t, first.ID, legs[0].ID)
	assert.Equal(t, second.ID, legs[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, first.ID, 8)
	assert.Equal(t, models.SportNFL, legs[2].Sport)
}

func TestCartAddRejectsBadLegs(t *testing.T) {
	cart := NewCart()

	_, err := cart.Add(models.SportNFL, nflDescription, 0, 0.5)
	assert.ErrorIs(t, err, models.ErrDomainViolation)

	_, err = cart.Add(models.SportNFL, nflDescription, -110, nan())
	assert.ErrorIs(t, err, models.ErrDomainViolation)

	assert.Equal(t, 0, cart.Len())
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	leg, err := cart.Add(models.SportMLBHit, "Judge — 1+ Hit", -200, 0.7)
	require.NoError(t, err)
	_, err = cart.Add(models.SportPitcher, "Cole U2.5 ER", -130, 0.6)
	require.NoError(t, err)

	assert.False(t, cart.Remove("missing"))
	assert.Equal(t, 2, cart.Len())

	assert.True(t, cart.Remove(leg.ID))
	assert.Equal(t, 1, cart.Len())
	assert.False(t, cart.Remove(leg.ID))

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.Empty(t, cart.Legs())
}

func TestAggregateTwoLegExample(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(models.SportNFL, "Leg A", 100, 0.60)
	require.NoError(t, err)
	_, err = cart.Add(models.SportNFL, "Leg B", 120, 0.50)
	require.NoError(t, err)

	agg := cart.Aggregate("", parlayTable())
	assert.InDelta(t, 0.30, agg.TrueProbability, 1e-12)
	assert.InDelta(t, 4.4, agg.DecimalProduct, 1e-12)
	assert.Equal(t, 340, agg.AutoAmerican)
	assert.InDelta(t, 100.0/440.0, agg.AutoImplied, 1e-12)
	assert.Nil(t, agg.BookOdds)
	assert.InDelta(t, 0.30*3.4-0.70, agg.EVPerDollar, 1e-12)
	assert.Equal(t, models.TierElite, agg.Tier)
}

func TestAggregateSingleLegMatchesLeg(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(models.SportNBA, nbaDescription, -110, 0.58)
	require.NoError(t, err)

	agg := cart.Aggregate("", parlayTable())
	assert.InDelta(t, 0.58, agg.TrueProbability, 1e-12)
	assert.InDelta(t, 1+100.0/110.0, agg.DecimalProduct, 1e-12)
	assert.Equal(t, -110, agg.AutoAmerican)
}

func TestAggregateEmptyCart(t *testing.T) {
	agg := NewCart().Aggregate("+650", parlayTable())

	assert.True(t, agg.Empty())
	assert.Equal(t, 1.0, agg.TrueProbability)
	assert.Equal(t, 1.0, agg.DecimalProduct)
	assert.Equal(t, 0.0, agg.EVPerDollar)
	assert.Equal(t, 0.0, agg.EdgePP)
	assert.Equal(t, models.Tier(""), agg.Tier)
}

func TestAggregateClampsProbabilities(t *testing.T) {
	legs := []Leg{
		{ID: "a", AmericanOdds: 100, TrueProbability: 1.4},
		{ID: "b", AmericanOdds: 100, TrueProbability: 0.5},
	}
	agg := Combine(legs, "")
	assert.InDelta(t, 0.5, agg.TrueProbability, 1e-12)
}

func TestAggregateManualOddsOverride(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(models.SportNFL, "Leg A", 100, 0.60)
	require.NoError(t, err)
	_, err = cart.Add(models.SportNFL, "Leg B", 120, 0.50)
	require.NoError(t, err)

	agg := cart.Aggregate("+300", parlayTable())
	require.NotNil(t, agg.BookOdds)
	assert.NoError(t, agg.ManualOddsErr)
	assert.Equal(t, 340, agg.AutoAmerican)
	assert.Equal(t, 300.0, agg.UsedAmerican)
	assert.InDelta(t, 0.25, agg.UsedImplied, 1e-12)
	assert.InDelta(t, 5.0, agg.EdgePP, 1e-9)
	assert.InDelta(t, 0.30*3-0.70, agg.EVPerDollar, 1e-12)
	assert.Equal(t, models.TierElite, agg.Tier)
}

func TestAggregateMalformedManualOddsIsNonFatal(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(models.SportNFL, "Leg A", 100, 0.60)
	require.NoError(t, err)

	agg := cart.Aggregate("plus six fifty", parlayTable())
	assert.ErrorIs(t, agg.ManualOddsErr, models.ErrMalformedInput)
	assert.NotEmpty(t, agg.ManualOddsError)
	assert.Nil(t, agg.BookOdds)
	assert.Equal(t, 100.0, agg.UsedAmerican)
	assert.InDelta(t, 0.5, agg.UsedImplied, 1e-12)
}

func TestTrackerRow(t *testing.T) {
	cart := NewCart()
	_, err := cart.Add(models.SportNFL, "Leg A", 100, 0.60)
	require.NoError(t, err)
	_, err = cart.Add(models.SportNBA, "Leg B", 120, 0.50)
	require.NoError(t, err)

	agg := cart.Aggregate("", parlayTable())
	date := time.Date(2025, 9, 14, 18, 0, 0, 0, time.UTC)

	row := agg.TrackerRow(date)
	assert.Equal(t,
		"2025-09-14 | NFL: Leg A + NBA: Leg B | 340 | True 30.00% | Implied 22.73% | EV 32.00% | Edge 7.27 pp | Elite",
		row)

	entry := agg.TrackerEntry("session-1", date)
	assert.Equal(t, 2, entry.LegCount)
	assert.Equal(t, 340, entry.AmericanOdds)
	assert.Equal(t, row, entry.Row)
}

func TestCartConcurrentAdds(t *testing.T) {
	cart := NewCart()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cart.Add(models.SportSoccer, "Over 2.5", 110, 0.5)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, cart.Len())
}

func TestAggregateManualOddsFormats(t *testing.T) {
	tests := []struct {
		manual       string
		wantFormat   odds.Format
		wantAmerican float64
		wantDecimal  float64
	}{
		// unsigned values below 100 are decimal prices
		{"2.5", odds.FormatDecimal, 150, 2.5},
		{"99", odds.FormatDecimal, 9800, 99},
		// an explicit sign or 100 and above is American
		{"150", odds.FormatAmerican, 150, 2.5},
		{"+150", odds.FormatAmerican, 150, 2.5},
		{"-200", odds.FormatAmerican, -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.manual, func(t *testing.T) {
			cart := NewCart()
			_, err := cart.Add(models.SportNBA, nbaDescription, -110, 0.58)
			require.NoError(t, err)

			agg := cart.Aggregate(tt.manual, parlayTable())
			require.NoError(t, agg.ManualOddsErr)
			require.NotNil(t, agg.BookOdds)
			assert.Equal(t, tt.wantFormat, agg.BookOdds.Format)
			assert.Equal(t, tt.wantAmerican, agg.UsedAmerican)
			assert.InDelta(t, tt.wantDecimal, agg.UsedDecimal, 1e-9)
		})
	}

	cart := NewCart()
	_, err := cart.Add(models.SportNBA, nbaDescription, -110, 0.58)
	require.NoError(t, err)
	agg := cart.Aggregate("1.0", parlayTable())
	assert.ErrorIs(t, agg.ManualOddsErr, models.ErrDomainViolation)
	assert.Nil(t, agg.BookOdds)
}
