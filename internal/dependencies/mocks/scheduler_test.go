package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockScheduler_FiresInDueOrder(t *testing.T) {
	s := NewMockScheduler()
	var order []string

	s.After(3*time.Second, func() { order = append(order, "after3") })
	s.Every(time.Second, func() { order = append(order, "tick") })

	s.Advance(3 * time.Second)

	// the tick at 3s was armed after the one-shot
	assert.Equal(t, []string{"tick", "tick", "after3", "tick"}, order)
	assert.Equal(t, 1, s.Pending())
}

func TestMockScheduler_StopFromCallback(t *testing.T) {
	s := NewMockScheduler()
	count := 0
	var timer interface{ Stop() }
	timer = s.Every(time.Second, func() {
		count++
		if count == 2 {
			timer.Stop()
		}
	})

	s.Advance(10 * time.Second)

	assert.Equal(t, 2, count)
	assert.Equal(t, 0, s.Pending())
}

func TestMockScheduler_CallbackArmsTimerInsideWindow(t *testing.T) {
	s := NewMockScheduler()
	fired := false
	s.After(time.Second, func() {
		s.After(time.Second, func() { fired = true })
	})

	s.Advance(2 * time.Second)

	assert.True(t, fired)
	assert.Equal(t, 2*time.Second, s.Now())
}
