// Package application holds the use-case services and what they share.
package application

import "time"

// Clock lets services read the time through something tests can pin.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
