package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReaper struct {
	calls int32
}

func (c *countingReaper) Reap(time.Time) int {
	atomic.AddInt32(&c.calls, 1)
	return 0
}

func TestSchedulerRunsReaper(t *testing.T) {
	r := &countingReaper{}
	s := New(r, 50*time.Millisecond)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&r.calls) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerDisabled(t *testing.T) {
	r := &countingReaper{}
	s := New(r, 0)
	require.NoError(t, s.Start())
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&r.calls))
}
