package probability

import (
	"fmt"
	"math"

	"github.com/yourusername/moneyball/internal/models"
)

// AtLeastOne returns 1 - (1-p)^n, the chance of one or more successes in n trials.
func AtLeastOne(p float64, n int) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	if err := checkTrials(n); err != nil {
		return 0, err
	}
	return Clamp(1 - math.Pow(1-p, float64(n))), nil
}

// BinomialPMF returns P(X = k) for X ~ Binomial(n, p).
func BinomialPMF(n, k int, p float64) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	if err := checkTrials(n); err != nil {
		return 0, err
	}
	return binomialPMF(n, k, p), nil
}

// BinomialCDF returns P(X <= k).
func BinomialCDF(n, k int, p float64) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	if err := checkTrials(n); err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, nil
	}
	if k >= n {
		return 1, nil
	}

	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += binomialPMF(n, i, p)
	}
	return Clamp(sum), nil
}

func binomialPMF(n, k int, p float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	switch p {
	case 0:
		if k == 0 {
			return 1
		}
		return 0
	case 1:
		if k == n {
			return 1
		}
		return 0
	}
	lgN, _ := math.Lgamma(float64(n) + 1)
	lgK, _ := math.Lgamma(float64(k) + 1)
	lgNK, _ := math.Lgamma(float64(n-k) + 1)
	logProb := lgN - lgK - lgNK + float64(k)*math.Log(p) + float64(n-k)*math.Log1p(-p)
	return math.Exp(logProb)
}

func checkTrials(n int) error {
	if n < 0 {
		return fmt.Errorf("trial count %d negative: %w", n, models.ErrDomainViolation)
	}
	return nil
}
