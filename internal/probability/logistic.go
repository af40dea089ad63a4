package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
)

// expLimit is the largest exponent math.Exp handles without overflowing
const expLimit = 709

// Logistic maps the gap between a projection and a line onto a probability:
// 1 / (1 + e^-((x-line)/scale)).
func Logistic(x, line, scale float64) (float64, error) {
	if err := checkFinite("projection", x); err != nil {
		return 0, err
	}
	if err := checkFinite("line", line); err != nil {
		return 0, err
	}
	if math.IsNaN(scale) || scale <= 0 {
		return 0, fmt.Errorf("logistic scale %v must be positive: %w", scale, models.ErrDomainViolation)
	}
	return Sigmoid((x - line) / scale), nil
}

// Sigmoid is the standard logistic function, saturating at the float limits.
func Sigmoid(z float64) float64 {
	switch {
	case math.IsNaN(z):
		return 0
	case z <= -expLimit:
		return 0
	case z >= expLimit:
		return 1
	}
	return 1 / (1 + math.Exp(-z))
}
