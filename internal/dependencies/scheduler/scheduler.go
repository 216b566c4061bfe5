package scheduler

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop cancels the timer. A stopped timer never fires again.
	Stop()
}

// Scheduler arms one-shot and repeating callbacks. It can be mocked for testing.
type Scheduler interface {
	// After runs fn once after d
	After(d time.Duration, fn func()) Timer

	// Every runs fn every d until stopped
	Every(d time.Duration, fn func()) Timer
}

// RealScheduler implements Scheduler with wall-clock timers
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// After runs fn on its own goroutine once d has elapsed
func (s *RealScheduler) After(d time.Duration, fn func()) Timer {
	return &oneShot{timer: time.AfterFunc(d, fn)}
}

// Every runs fn on a dedicated goroutine at each tick of d
func (s *RealScheduler) Every(d time.Duration, fn func()) Timer {
	t := &repeating{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type oneShot struct {
	timer *time.Timer
}

func (t *oneShot) Stop() {
	t.timer.Stop()
}

type repeating struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *repeating) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a pending tick
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *repeating) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
