// Package clock provides an abstraction for time operations to improve
// testability. Instead of calling time.Now() or time.After() directly,
// polling loops use the Clock interface, which can be faked in tests to
// drive retry schedules without real sleeps.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives after d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After waits for d using the system timer.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Ensure RealClock implements Clock.
var _ Clock = RealClock{}
