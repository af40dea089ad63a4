package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/logger"
)

type countingHousekeeper struct {
	sweeps   atomic.Int32
	refreshes atomic.Int32
}

func (h *countingHousekeeper) SweepSessions() int {
	h.sweeps.Add(1)
	return 3
}

func (h *countingHousekeeper) RefreshGauges() {
	h.refreshes.Add(1)
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := NewScheduler(&countingHousekeeper{}, logger.Discard())

	assert.Error(t, s.ScheduleSessionSweep("every now and then"))
	assert.Empty(t, s.Entries())
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(&countingHousekeeper{}, logger.Discard())

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&countingHousekeeper{}, logger.Discard())

	require.NoError(t, s.ScheduleSessionSweep("@every 5m"))
	require.NoError(t, s.ScheduleGaugeRefresh("*/1 * * * *"))
	assert.Len(t, s.Entries(), 2)
	assert.True(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleGaugeRefresh("@every 1m"))

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now().Add(-time.Second)))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}

func TestJobsRun(t *testing.T) {
	h := &countingHousekeeper{}
	s := NewScheduler(h, logger.Discard())

	require.NoError(t, s.ScheduleSessionSweep("@every 1s"))
	require.NoError(t, s.ScheduleGaugeRefresh("@every 1s"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return h.sweeps.Load() > 0 && h.refreshes.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
