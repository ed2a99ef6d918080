// Package clock provides an injectable time source.  The booking engine and
// the slot calendar must agree on a single canonical reference clock, so
// rather than calling time.Now directly they take a Clock.  Tests pin time
// with NewFixed.
package clock

import "time"

// Clock returns the current instant.  Implementations must return UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a Clock backed by time.Now in UTC.
func NewSystem() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct {
	now time.Time
}

// NewFixed returns a Clock that always reports the same instant.
func NewFixed(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
