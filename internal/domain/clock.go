package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// The recency cutoff and the dataset load stamp both read it; production
// code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for loading. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
