package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/rpsduel/internal/dependencies/scheduler"
)

// MockScheduler is a Scheduler driven by virtual time.
// Callbacks only run inside Advance, on the caller's goroutine.
type MockScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*mockTimer
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

type mockTimer struct {
	s        *MockScheduler
	seq      int
	due      time.Duration
	interval time.Duration // zero for one-shot timers
	fn       func()
	stopped  bool
}

func (t *mockTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// NewMockScheduler creates a MockScheduler at virtual time zero
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// After schedules fn to run once d from now
func (s *MockScheduler) After(d time.Duration, fn func()) scheduler.Timer {
	return s.add(d, 0, fn)
}

// Every schedules fn to run every d from now
func (s *MockScheduler) Every(d time.Duration, fn func()) scheduler.Timer {
	return s.add(d, d, fn)
}

func (s *MockScheduler) add(d, interval time.Duration, fn func()) *mockTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &mockTimer{s: s, seq: s.seq, due: s.now + d, interval: interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every timer that falls due in order.
// Timers armed by callbacks fire too if they fall inside the window.
func (s *MockScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest live timer due at or before target. Caller holds mu.
func (s *MockScheduler) nextDue(target time.Duration) *mockTimer {
	var next *mockTimer
	live := s.timers[:0]
	for _, t := range s.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	s.timers = live
	return next
}

// Pending returns the number of timers that have not fired (one-shot) or been stopped
func (s *MockScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Now returns the elapsed virtual time
func (s *MockScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
