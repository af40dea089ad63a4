package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
)

// NormalCDF is the standard normal CDF, 0.5 * (1 + erf(z/√2)).
func NormalCDF(z float64) float64 {
	if math.IsNaN(z) {
		return 0
	}
	return Clamp(0.5 * (1 + math.Erf(z/math.Sqrt2)))
}

// Cover returns Φ((projection-line)/sigma), the chance a normally distributed
// outcome centred on projection finishes above line.
func Cover(projection, line, sigma float64) (float64, error) {
	if err := checkFinite("projection", projection); err != nil {
		return 0, err
	}
	if err := checkFinite("line", line); err != nil {
		return 0, err
	}
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return 0, fmt.Errorf("standard deviation %v must be positive: %w", sigma, models.ErrDomainViolation)
	}
	return NormalCDF((projection - line) / sigma), nil
}
