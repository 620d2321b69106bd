package service

import "time"

// Clock is the time source for streak dates and session expiry.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful in tests and tools.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
