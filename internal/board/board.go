// Package board keeps the plays a session has saved from its simulations.
package board

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/moneyball/internal/models"
)

// Board is a session's saved plays, keyed by proposition id.
type Board struct {
	mu    sync.RWMutex
	plays map[string]models.Proposition
	order []string
}

// New creates an empty board
func New() *Board {
	return &Board{plays: make(map[string]models.Proposition)}
}

// Save stores p. Saving the same proposition twice keeps one copy.
func (b *Board) Save(p models.Proposition) error {
	if p.ID == "" {
		return fmt.Errorf("saving play: %w", models.ErrInvalidID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.plays[p.ID]; !ok {
		b.order = append(b.order, p.ID)
	}
	b.plays[p.ID] = p
	return nil
}

// Get returns the saved play with id
func (b *Board) Get(id string) (models.Proposition, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p, ok := b.plays[id]
	if !ok {
		return models.Proposition{}, fmt.Errorf("play %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

// Remove deletes the play with id and reports whether it existed.
func (b *Board) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.plays[id]; !ok {
		return false
	}
	delete(b.plays, id)
	for i, pid := range b.order {
		if pid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Plays returns the saved plays, most likely first. Ties keep save order.
// An empty sport returns every play.
func (b *Board) Plays(sport models.Sport) []models.Proposition {
	b.mu.RLock()
	out := make([]models.Proposition, 0, len(b.order))
	for _, id := range b.order {
		p := b.plays[id]
		if sport == "" || p.Sport == sport {
			out = append(out, p)
		}
	}
	b.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrueProbability > out[j].TrueProbability
	})
	return out
}

// Len returns the number of saved plays
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
