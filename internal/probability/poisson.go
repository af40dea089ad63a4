package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
)

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda), computed in log space.
func PoissonPMF(k int, lambda float64) (float64, error) {
	if err := checkRate(lambda); err != nil {
		return 0, err
	}
	return poissonPMF(k, lambda), nil
}

// PoissonCDF returns P(X <= k).
func PoissonCDF(k int, lambda float64) (float64, error) {
	if err := checkRate(lambda); err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, nil
	}

	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += poissonPMF(i, lambda)
	}
	return Clamp(sum), nil
}

// PoissonSurvival returns P(X > k).
func PoissonSurvival(k int, lambda float64) (float64, error) {
	cdf, err := PoissonCDF(k, lambda)
	if err != nil {
		return 0, err
	}
	return Clamp(1 - cdf), nil
}

// PoissonRow returns P(X = 0..maxK).
func PoissonRow(lambda float64, maxK int) ([]float64, error) {
	if err := checkRate(lambda); err != nil {
		return nil, err
	}
	if maxK < 0 {
		return nil, fmt.Errorf("max count %d negative: %w", maxK, models.ErrDomainViolation)
	}
	row := make([]float64, maxK+1)
	for k := range row {
		row[k] = poissonPMF(k, lambda)
	}
	return row, nil
}

func poissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(-lambda + float64(k)*math.Log(lambda) - lg)
}

func checkRate(lambda float64) error {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		return fmt.Errorf("rate %v must be finite and non-negative: %w", lambda, models.ErrDomainViolation)
	}
	return nil
}
