// Package clock abstracts deferred-callback scheduling so the playback
// engine's timelines can be driven by a deterministic clock in tests.
//
// The engine never reads wall time for ordering decisions; everything is
// expressed as "run f after d". The system implementation delegates to
// time.AfterFunc.
package clock

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped the timer
	// before it fired.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	// AfterFunc runs f in its own goroutine after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// Now returns the clock's current time. Used for elapsed-time reporting
	// only, never for ordering.
	Now() time.Time
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns the real clock.
func System() Clock {
	return systemClock{}
}
