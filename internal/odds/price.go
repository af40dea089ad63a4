package odds

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/moneyball/internal/models"
)

// Format records how a price was entered
type Format string

const (
	FormatAmerican Format = "american"
	FormatDecimal  Format = "decimal"
)

// Price is a parsed sportsbook price with all three representations filled in.
type Price struct {
	Format   Format  `json:"format"`
	American float64 `json:"american"`
	Decimal  float64 `json:"decimal"`
	Implied  float64 `json:"implied_probability"`
}

// NewPriceFromAmerican builds a Price from American odds
func NewPriceFromAmerican(american float64) (Price, error) {
	d, err := AmericanToDecimal(american)
	if err != nil {
		return Price{}, err
	}
	implied, err := AmericanToProbability(american)
	if err != nil {
		return Price{}, err
	}
	return Price{Format: FormatAmerican, American: american, Decimal: d, Implied: implied}, nil
}

// NewPriceFromDecimal builds a Price from decimal odds. The American field
// holds the rounded integer equivalent.
func NewPriceFromDecimal(d float64) (Price, error) {
	american, err := DecimalToAmerican(d)
	if err != nil {
		return Price{}, err
	}
	return Price{Format: FormatDecimal, American: float64(american), Decimal: d, Implied: 1 / d}, nil
}

// String renders the price in the format it was entered in
func (p Price) String() string {
	if p.Format == FormatDecimal {
		return decimal.NewFromFloat(p.Decimal).StringFixed(2)
	}
	return FormatAmericanOdds(p.American)
}

// FormatAmericanOdds renders American odds with an explicit sign, e.g. "+650" or "-120".
func FormatAmericanOdds(american float64) string {
	s := decimal.NewFromFloat(american).Round(2).String()
	if american > 0 {
		return "+" + s
	}
	return s
}

// ParseAmerican parses text such as "+650", "-120" or "150".
func ParseAmerican(text string) (float64, error) {
	v, err := parseNumber(text)
	if err != nil {
		return 0, err
	}
	american, _ := v.Float64()
	if err := checkAmerican(american); err != nil {
		return 0, err
	}
	return american, nil
}

// ParseOdds parses either format. A leading sign or an unsigned magnitude of
// 100 or more is read as American; anything else is read as decimal odds.
func ParseOdds(text string) (Price, error) {
	s := strings.TrimSpace(text)
	v, err := parseNumber(s)
	if err != nil {
		return Price{}, err
	}
	f, _ := v.Float64()

	signed := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
	if signed || v.Abs().GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return NewPriceFromAmerican(f)
	}
	return NewPriceFromDecimal(f)
}

func parseNumber(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty odds value: %w", models.ErrMalformedInput)
	}
	v, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse odds %q: %w", text, models.ErrMalformedInput)
	}
	return v, nil
}
