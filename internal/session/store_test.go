package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/models"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour, 10)
	defer store.Flush()
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sess.ID)
	require.NotNil(t, sess.Cart)
	require.NotNil(t, sess.Board)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour, 10)
	ctx := context.Background()

	a, err := store.Create(ctx)
	require.NoError(t, err)
	b, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = a.Cart.Add(models.SportNFL, "leg", -110, 0.55)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Cart.Len())
	assert.Equal(t, 0, b.Cart.Len())
}

func TestGetUnknown(t *testing.T) {
	store := NewStore(time.Hour, 10)
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestDelete(t *testing.T) {
	store := NewStore(time.Hour, 10)
	ctx := context.Background()

	var evicted uuid.UUID
	store.OnEvict(func(id uuid.UUID) { evicted = id })

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sess.ID))
	assert.Equal(t, sess.ID, evicted)

	assert.ErrorIs(t, store.Delete(ctx, sess.ID), models.ErrSessionNotFound)
}

func TestSessionLimit(t *testing.T) {
	store := NewStore(time.Hour, 2)
	ctx := context.Background()

	_, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.Create(ctx)
	require.NoError(t, err)

	_, err = store.Create(ctx)
	assert.ErrorIs(t, err, models.ErrSessionLimit)
}

func TestSweepExpired(t *testing.T) {
	store := NewStore(20*time.Millisecond, 1)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, store.Sweep())

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = store.Create(ctx)
	assert.NoError(t, err)
}

func TestGetDoesNotResurrectDeletedSession(t *testing.T) {
	store := NewStore(time.Hour, 0)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		sess, err := store.Create(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					_, _ = store.Get(ctx, sess.ID)
				}
			}()
		}
		require.NoError(t, store.Delete(ctx, sess.ID))
		wg.Wait()

		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	}
	assert.Zero(t, store.Count())
}
