// Package probability holds the closed-form estimators used by the sport
// simulators: logistic gap curves, Poisson and binomial tails, normal-CDF
// margin models and the soccer goal matrix.
//
// Every estimator saturates into [0,1] instead of overflowing.
package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
)

// Clamp ensures probability in [0,1]
func Clamp(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, -1) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ClampRange bounds v to [lo, hi]
func ClampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s %v not finite: %w", name, v, models.ErrDomainViolation)
	}
	return nil
}

func checkProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("probability %v outside [0,1]: %w", p, models.ErrDomainViolation)
	}
	return nil
}
