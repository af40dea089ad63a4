package probability

import (
	"fmt"

	"github.com/yourusername/moneyball/internal/models"
)

const (
	// MaxGoalRate caps each side's expected goals before the matrix is built
	MaxGoalRate = 4.0
	// DefaultMaxGoals truncates the score grid at 10 goals per side
	DefaultMaxGoals = 10
)

// GoalMatrix is the joint distribution of home and away goals under two
// independent Poisson processes, truncated and renormalized.
type GoalMatrix struct {
	HomeRate float64
	AwayRate float64
	cells    [][]float64
}

// NewGoalMatrix builds the score grid from per-side expected goals. Rates are
// clipped to [0, MaxGoalRate].
func NewGoalMatrix(homeRate, awayRate float64, maxGoals int) (*GoalMatrix, error) {
	if err := checkRate(homeRate); err != nil {
		return nil, fmt.Errorf("home rate: %w", err)
	}
	if err := checkRate(awayRate); err != nil {
		return nil, fmt.Errorf("away rate: %w", err)
	}
	if maxGoals < 0 {
		return nil, fmt.Errorf("max goals %d negative: %w", maxGoals, models.ErrDomainViolation)
	}

	homeRate = ClampRange(homeRate, 0, MaxGoalRate)
	awayRate = ClampRange(awayRate, 0, MaxGoalRate)

	home, _ := PoissonRow(homeRate, maxGoals)
	away, _ := PoissonRow(awayRate, maxGoals)

	total := 0.0
	cells := make([][]float64, len(home))
	for i, ph := range home {
		cells[i] = make([]float64, len(away))
		for j, pa := range away {
			cells[i][j] = ph * pa
			total += cells[i][j]
		}
	}
	if total > 0 {
		for i := range cells {
			for j := range cells[i] {
				cells[i][j] /= total
			}
		}
	}

	return &GoalMatrix{HomeRate: homeRate, AwayRate: awayRate, cells: cells}, nil
}

// MaxGoals returns the per-side truncation point
func (m *GoalMatrix) MaxGoals() int {
	return len(m.cells) - 1
}

// Prob returns P(home = h, away = a)
func (m *GoalMatrix) Prob(h, a int) float64 {
	if h < 0 || a < 0 || h >= len(m.cells) || a >= len(m.cells[h]) {
		return 0
	}
	return m.cells[h][a]
}

// Sum adds the probability of every scoreline matching pred.
func (m *GoalMatrix) Sum(pred func(h, a int) bool) float64 {
	sum := 0.0
	for i, row := range m.cells {
		for j, p := range row {
			if pred(i, j) {
				sum += p
			}
		}
	}
	return Clamp(sum)
}

// TotalAtLeast returns P(home + away >= goals)
func (m *GoalMatrix) TotalAtLeast(goals int) float64 {
	return m.Sum(func(h, a int) bool { return h+a >= goals })
}

// BothTeamsScore returns P(home >= 1 and away >= 1)
func (m *GoalMatrix) BothTeamsScore() float64 {
	return m.Sum(func(h, a int) bool { return h >= 1 && a >= 1 })
}

// Result returns the home win, draw and away win probabilities.
func (m *GoalMatrix) Result() (home, draw, away float64) {
	home = m.Sum(func(h, a int) bool { return h > a })
	draw = m.Sum(func(h, a int) bool { return h == a })
	away = m.Sum(func(h, a int) bool { return h < a })
	return home, draw, away
}
