// Package parlay holds the per-session leg cart and the combined parlay view.
package parlay

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

// Leg is one selection in the cart.
type Leg struct {
	ID              string       `json:"id"`
	Sport           models.Sport `json:"sport"`
	Description     string       `json:"description"`
	AmericanOdds    float64      `json:"american_odds"`
	TrueProbability float64      `json:"true_probability"`
	AddedAt         time.Time    `json:"added_at"`
}

// Label renders the leg the way it appears in a tracker row
func (l Leg) Label() string {
	return fmt.Sprintf("%s: %s", l.Sport, l.Description)
}

// Cart is an ordered collection of legs owned by one session.
type Cart struct {
	mu   sync.RWMutex
	legs []Leg
	now  func() time.Time
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{now: time.Now}
}

// Add appends a leg. Duplicates are allowed; insertion order is display order.
func (c *Cart) Add(sport models.Sport, description string, americanOdds, trueProbability float64) (Leg, error) {
	if _, err := odds.AmericanToDecimal(americanOdds); err != nil {
		return Leg{}, fmt.Errorf("leg odds: %w", err)
	}
	if math.IsNaN(trueProbability) || math.IsInf(trueProbability, 0) {
		return Leg{}, fmt.Errorf("leg probability %v not finite: %w", trueProbability, models.ErrDomainViolation)
	}

	leg := Leg{
		ID:              newLegID(),
		Sport:           sport,
		Description:     strings.TrimSpace(description),
		AmericanOdds:    americanOdds,
		TrueProbability: trueProbability,
		AddedAt:         c.now().UTC(),
	}

	c.mu.Lock()
	c.legs = append(c.legs, leg)
	c.mu.Unlock()

	return leg, nil
}

// Remove drops the leg with id. It reports whether a leg was removed.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, leg := range c.legs {
		if leg.ID == id {
			c.legs = append(c.legs[:i], c.legs[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	c.legs = nil
	c.mu.Unlock()
}

// Legs returns a copy of the legs in display order
func (c *Cart) Legs() []Leg {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Leg(nil), c.legs...)
}

// Len returns the number of legs
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.legs)
}

func newLegID() string {
	return uuid.NewString()[:8]
}
