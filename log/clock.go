package log

import "time"

// Clock supplies the wall time used for timestamps and the entry times of
// traced frames. Elapsed time is computed from the difference of two Now
// values, so an implementation returning times with a monotonic reading
// yields elapsed times that are immune to wall clock adjustments.
type Clock interface {
	Now() time.Time
}

// SystemClock is the [Clock] backed by [time.Now].
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts an ordinary function to the [Clock] interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }
