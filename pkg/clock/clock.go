package clock

import "time"

// Clock abstracts wall-clock reads so time-dependent logic (night windows,
// Sunday surcharges, future-dated checks) can be pinned in tests.
type Clock interface {
	Now() time.Time
}

// System reads the real clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time { return f.Instant }

// At builds a fixed clock for the given instant.
func At(t time.Time) Fixed { return Fixed{Instant: t} }
