// Package clock abstracts wall-clock reads so session and report logic can be
// driven by fixed instants in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock in a fixed location.
type System struct {
	Loc *time.Location
}

func (s System) Now() time.Time {
	if s.Loc == nil {
		return time.Now()
	}
	return time.Now().In(s.Loc)
}

// Fixed is a manually advanced clock. The zero value is not usable; use NewFixed.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Offset is the system clock shifted by a fixed duration.
type Offset struct {
	Base  Clock
	Shift time.Duration
}

func (o Offset) Now() time.Time {
	base := o.Base
	if base == nil {
		base = System{}
	}
	return base.Now().Add(o.Shift)
}
