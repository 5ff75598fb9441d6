package meca

import (
	"fmt"
	"time"
)

type timeoutMode uint8

const (
	pollMode timeoutMode = iota
	boundedMode
	foreverMode
)

// Timeout selects how long a readiness wait may block.
//
// The three regimes are distinct and used by both connections:
//   - Forever: block until bytes are readable.
//   - Poll: check for readable bytes without blocking.
//   - Within(d): block for at most d.
//
// The zero value is Poll.
type Timeout struct {
	mode timeoutMode
	d    time.Duration
}

// Forever returns a Timeout that blocks until data is readable.
func Forever() Timeout { return Timeout{mode: foreverMode} }

// Poll returns a non-blocking Timeout.
func Poll() Timeout { return Timeout{mode: pollMode} }

// Within returns a Timeout bounded by d. A non-positive d is a Poll.
func Within(d time.Duration) Timeout {
	if d <= 0 {
		return Poll()
	}

	return Timeout{mode: boundedMode, d: d}
}

// IsForever reports whether t blocks without bound.
func (t Timeout) IsForever() bool { return t.mode == foreverMode }

// IsPoll reports whether t is non-blocking.
func (t Timeout) IsPoll() bool { return t.mode == pollMode }

// Duration returns the bound of a Within timeout, and 0 otherwise.
func (t Timeout) Duration() time.Duration {
	if t.mode == boundedMode {
		return t.d
	}

	return 0
}

// Deadline converts t into an absolute deadline relative to now.
// Forever yields the zero time (no deadline) and Poll yields now.
func (t Timeout) Deadline(now time.Time) time.Time {
	switch t.mode {
	case foreverMode:
		return time.Time{}
	case boundedMode:
		return now.Add(t.d)
	default:
		return now
	}
}

func (t Timeout) String() string {
	switch t.mode {
	case foreverMode:
		return "forever"
	case boundedMode:
		return fmt.Sprintf("within(%s)", t.d)
	default:
		return "poll"
	}
}
