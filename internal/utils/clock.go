package utils

import "time"

// Clock supplies the current instant. Everything that needs "now" takes one
// so that streaks and day keys can be computed against a fixed time in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local timezone.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock reports a settable instant.
type FixedClock struct {
	T time.Time
}

// NewFixedClock returns a clock stopped at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{T: t}
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.T = t
}
