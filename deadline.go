package llio

import (
	"time"

	"github.com/jacobsa/timeutil"
)

// realClock is the default Clock used when a Deadline is resolved without
// an explicit one, matching the RealClock used throughout the jacobsa
// ecosystem when no fake clock has been injected for tests.
var realClock timeutil.Clock = timeutil.RealClock()

// Deadline is either an absolute wall-clock time, a relative duration from
// when it is resolved, or infinite. A zero-duration Deadline
// (DeadlineImmediate) is non-blocking (spec.md section 3: "Zero means
// non-blocking").
type Deadline struct {
	absolute time.Time
	relative time.Duration
	infinite bool
	isZero   bool
}

// DeadlineNone is a Deadline that never expires.
var DeadlineNone = Deadline{infinite: true}

// DeadlineImmediate is a zero-duration Deadline that has already expired.
var DeadlineImmediate = Deadline{isZero: true}

// AbsoluteDeadline returns a Deadline that expires at t.
func AbsoluteDeadline(t time.Time) Deadline {
	return Deadline{absolute: t}
}

// RelativeDeadline returns a Deadline that expires d after it is resolved.
func RelativeDeadline(d time.Duration) Deadline {
	if d <= 0 {
		return DeadlineImmediate
	}
	return Deadline{relative: d}
}

// resolve turns the Deadline into an absolute time.Time using clock, or
// reports ok=false if the deadline is infinite (no timeout to wait for).
func (d Deadline) resolve(clock timeutil.Clock) (t time.Time, ok bool) {
	switch {
	case d.infinite:
		return time.Time{}, false
	case d.isZero:
		return clock.Now(), true
	case !d.absolute.IsZero():
		return d.absolute, true
	default:
		return clock.Now().Add(d.relative), true
	}
}

// remaining returns how long is left until the deadline, using clock to
// resolve relative/zero deadlines. A negative or zero result means expired.
func (d Deadline) remaining(clock timeutil.Clock) (dur time.Duration, infinite bool) {
	t, ok := d.resolve(clock)
	if !ok {
		return 0, true
	}
	return t.Sub(clock.Now()), false
}

// expired reports whether d has already passed, using the real clock. A
// synchronous IoHandle cannot genuinely wait on a deadline the way
// AsyncFileHandle's completion port can (spec.md section 4.4), so the sync
// Read/Write path only honors the pre-check: zero is always expired, an
// absolute deadline in the past is expired, everything else (including
// every relative deadline, which starts counting from now) is not.
func (d Deadline) expired() bool {
	if d.infinite {
		return false
	}
	if d.isZero {
		return true
	}
	if !d.absolute.IsZero() {
		return !d.absolute.After(realClock.Now())
	}
	return false
}
