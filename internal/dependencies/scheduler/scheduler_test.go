package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealScheduler_After(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	s.After(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRealScheduler_AfterStopped(t *testing.T) {
	s := New()
	var fired atomic.Bool

	timer := s.After(20*time.Millisecond, func() { fired.Store(true) })
	timer.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestRealScheduler_Every(t *testing.T) {
	s := New()
	var count atomic.Int32

	timer := s.Every(5*time.Millisecond, func() { count.Add(1) })
	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)

	timer.Stop()
	stoppedAt := count.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), stoppedAt+1)
}

func TestRealScheduler_EveryStopFromCallback(t *testing.T) {
	s := New()
	var count atomic.Int32
	var timer Timer
	ready := make(chan struct{})

	timer = s.Every(5*time.Millisecond, func() {
		<-ready
		count.Add(1)
		timer.Stop()
	})
	close(ready)

	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())

	// Stopping twice is safe
	timer.Stop()
}
