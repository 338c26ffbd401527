package osutil

import "testing"

func TestRoundUpPage(t *testing.T) {
	ps := PageSize()
	testCases := []struct {
		in   uintptr
		want uintptr
	}{
		{0, ps},
		{1, ps},
		{ps, ps},
		{ps + 1, 2 * ps},
		{2 * ps, 2 * ps},
	}

	for _, tc := range testCases {
		if got := RoundUpPage(tc.in); got != tc.want {
			t.Errorf("RoundUpPage(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIsPageAligned(t *testing.T) {
	ps := PageSize()
	if !IsPageAligned(0) {
		t.Errorf("IsPageAligned(0) = false, want true")
	}
	if !IsPageAligned(ps) {
		t.Errorf("IsPageAligned(ps) = false, want true")
	}
	if IsPageAligned(ps + 1) {
		t.Errorf("IsPageAligned(ps+1) = true, want false")
	}
}

func TestRandomNameDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := RandomName(32)
		if len(name) != 32 {
			t.Fatalf("RandomName(32) returned length %d", len(name))
		}
		if seen[name] {
			t.Fatalf("RandomName produced a duplicate: %s", name)
		}
		seen[name] = true
	}
}
