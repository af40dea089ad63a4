// Package odds converts between American odds, decimal odds and implied
// probability.
package odds

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/moneyball/internal/models"
)

// AmericanToProbability converts American odds to the sportsbook-implied probability.
// American +150 → 0.40
// American -150 → 0.60
func AmericanToProbability(american float64) (float64, error) {
	if err := checkAmerican(american); err != nil {
		return 0, err
	}

	if american >= 0 {
		return 100 / (american + 100), nil
	}

	abs := math.Abs(american)
	return abs / (abs + 100), nil
}

// AmericanToDecimal converts American odds to decimal odds.
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american float64) (float64, error) {
	if err := checkAmerican(american); err != nil {
		return 0, err
	}

	if american >= 0 {
		return 1 + american/100, nil
	}

	return 1 + 100/math.Abs(american), nil
}

// DecimalToAmerican converts decimal odds to the nearest integer American price.
// Halves round to even.
// Decimal 2.50 → American +150
// Decimal 1.50 → American -200
func DecimalToAmerican(d float64) (int, error) {
	if err := checkDecimal(d); err != nil {
		return 0, err
	}

	if d >= 2 {
		return roundHalfEven((d - 1) * 100), nil
	}

	return -roundHalfEven(100 / (d - 1)), nil
}

// DecimalToProbability converts decimal odds to implied probability.
func DecimalToProbability(d float64) (float64, error) {
	if err := checkDecimal(d); err != nil {
		return 0, err
	}
	return 1 / d, nil
}

// ProbabilityToAmerican returns the fair American price for a probability.
func ProbabilityToAmerican(p float64) (int, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("probability %v outside (0,1): %w", p, models.ErrDomainViolation)
	}
	return DecimalToAmerican(1 / p)
}

func checkAmerican(american float64) error {
	if math.IsNaN(american) || math.IsInf(american, 0) {
		return fmt.Errorf("american odds %v not finite: %w", american, models.ErrDomainViolation)
	}
	if american == 0 {
		return fmt.Errorf("american odds cannot be 0: %w", models.ErrDomainViolation)
	}
	return nil
}

func checkDecimal(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 1 {
		return fmt.Errorf("decimal odds %v must be greater than 1: %w", d, models.ErrDomainViolation)
	}
	return nil
}

func roundHalfEven(x float64) int {
	return int(decimal.NewFromFloat(x).RoundBank(0).IntPart())
}
