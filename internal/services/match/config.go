package match

import "time"

// Config holds the round timings
type Config struct {
	// RoundDuration is how long players have to pick an action
	RoundDuration time.Duration
	// TickInterval is how often the remaining time is pushed
	TickInterval time.Duration
	// ResultDelay is how long the results screen is shown before moving on
	ResultDelay time.Duration
}

// DefaultConfig returns the standard game timings
func DefaultConfig() Config {
	return Config{
		RoundDuration: 5 * time.Second,
		TickInterval:  time.Second,
		ResultDelay:   2000 * time.Millisecond,
	}
}

// countdownTicks is the remaining time, in ticks, at the start of a round
func (c Config) countdownTicks() int {
	if c.TickInterval <= 0 {
		return 0
	}
	return int(c.RoundDuration / c.TickInterval)
}
