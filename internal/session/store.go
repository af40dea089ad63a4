// Package session keeps per-user working state: the parlay cart and the
// saved-play board. Sessions live in an in-memory cache and expire after a
// period of inactivity.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/moneyball/internal/board"
	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/parlay"
)

// Session is one user's cart and board. Recent holds the propositions from
// the latest simulator runs so they can be saved or added by id.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Cart      *parlay.Cart `json:"-"`
	Board     *board.Board `json:"-"`
	Recent    *board.Board `json:"-"`
}

// Store holds live sessions with a sliding TTL
type Store struct {
	cache       *cache.Cache
	ttl         time.Duration
	maxSessions int
	mu          sync.Mutex

	evictMu sync.RWMutex
	onEvict func(id uuid.UUID)
}

// NewStore creates a session store. maxSessions <= 0 means unlimited.
func NewStore(ttl time.Duration, maxSessions int) *Store {
	s := &Store{
		cache:       cache.New(ttl, ttl*2),
		ttl:         ttl,
		maxSessions: maxSessions,
	}
	s.cache.OnEvicted(func(key string, _ interface{}) {
		s.evictMu.RLock()
		fn := s.onEvict
		s.evictMu.RUnlock()
		if fn == nil {
			return
		}
		if id, err := uuid.Parse(key); err == nil {
			fn(id)
		}
	})
	return s
}

// OnEvict registers a callback run when a session expires or is deleted.
func (s *Store) OnEvict(fn func(id uuid.UUID)) {
	s.evictMu.Lock()
	s.onEvict = fn
	s.evictMu.Unlock()
}

// Create starts a new empty session
func (s *Store) Create(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && s.cache.ItemCount() >= s.maxSessions {
		// Drop anything already expired before refusing
		s.cache.DeleteExpired()
		if s.cache.ItemCount() >= s.maxSessions {
			return nil, fmt.Errorf("%d active sessions: %w", s.maxSessions, models.ErrSessionLimit)
		}
	}

	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Cart:      parlay.NewCart(),
		Board:     board.New(),
		Recent:    board.New(),
	}
	s.cache.Set(sess.ID.String(), sess, s.ttl)
	return sess, nil
}

// Get returns the session with id and extends its expiry.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	v, found := s.cache.Get(id.String())
	if !found {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	// Replace only succeeds while the entry is still live, so a concurrent
	// Delete or expiry is never undone.
	if err := s.cache.Replace(id.String(), sess, s.ttl); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	return sess, nil
}

// Delete ends a session
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, found := s.cache.Get(id.String()); !found {
		return fmt.Errorf("session %s: %w", id, models.ErrSessionNotFound)
	}
	s.cache.Delete(id.String())
	return nil
}

// Sweep removes expired sessions and returns how many remain.
func (s *Store) Sweep() int {
	s.cache.DeleteExpired()
	return s.cache.ItemCount()
}

// Count returns the number of sessions held, including any expired but not
// yet swept.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Flush drops every session
func (s *Store) Flush() {
	s.cache.Flush()
}
