package llio

import (
	"testing"
	"time"

	"github.com/jacobsa/timeutil"
)

func TestDeadlineNoneIsInfinite(t *testing.T) {
	_, infinite := DeadlineNone.remaining(timeutil.RealClock())
	if !infinite {
		t.Errorf("DeadlineNone.remaining() infinite = false, want true")
	}
}

func TestDeadlineImmediateHasExpired(t *testing.T) {
	clock := timeutil.NewSimulatedClock(time.Unix(1000, 0))
	dur, infinite := DeadlineImmediate.remaining(clock)
	if infinite {
		t.Fatalf("DeadlineImmediate.remaining() infinite = true, want false")
	}
	if dur > 0 {
		t.Errorf("DeadlineImmediate.remaining() = %v, want <= 0", dur)
	}
}

func TestRelativeDeadlineCountsDownFromResolution(t *testing.T) {
	clock := timeutil.NewSimulatedClock(time.Unix(1000, 0))
	d := RelativeDeadline(5 * time.Second)

	dur, infinite := d.remaining(clock)
	if infinite {
		t.Fatalf("remaining() infinite = true, want false")
	}
	if dur != 5*time.Second {
		t.Errorf("remaining() = %v, want 5s", dur)
	}

	clock.AdvanceTime(3 * time.Second)
	dur, _ = d.remaining(clock)
	if dur != 2*time.Second {
		t.Errorf("remaining() after advance = %v, want 2s", dur)
	}
}

func TestRelativeDeadlineNonPositiveIsImmediate(t *testing.T) {
	clock := timeutil.NewSimulatedClock(time.Unix(1000, 0))
	d := RelativeDeadline(0)
	dur, infinite := d.remaining(clock)
	if infinite || dur > 0 {
		t.Errorf("remaining() = (%v, %v), want (<=0, false)", dur, infinite)
	}
}

func TestAbsoluteDeadline(t *testing.T) {
	clock := timeutil.NewSimulatedClock(time.Unix(1000, 0))
	target := time.Unix(1010, 0)
	d := AbsoluteDeadline(target)

	dur, infinite := d.remaining(clock)
	if infinite {
		t.Fatalf("remaining() infinite = true, want false")
	}
	if dur != 10*time.Second {
		t.Errorf("remaining() = %v, want 10s", dur)
	}
}
