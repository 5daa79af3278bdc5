// Package clock provides an injectable source of wall time so the
// scheduler and jobs can be tested deterministically. The process-wide
// clock is read exactly once per tick; nothing downstream re-reads it.
package clock

import "time"

// Clock returns the current wall time.
type Clock interface {
	Now() time.Time
}

// Real is the production Clock, backed by time.Now.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed is a test Clock that always returns the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }
