package logring

import (
	"fmt"
	"reflect"
	"testing"
)

func TestRing(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		appends  int
		want     []string
	}{
		{"empty", 3, 0, []string{}},
		{"partial", 3, 2, []string{"line0", "line1"}},
		{"exact", 3, 3, []string{"line0", "line1", "line2"}},
		{"wraps once", 3, 4, []string{"line1", "line2", "line3"}},
		{"wraps twice", 3, 7, []string{"line4", "line5", "line6"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.capacity)
			for i := 0; i < tc.appends; i++ {
				r.Append(fmt.Sprintf("line%d", i))
			}

			got := r.Tail()
			if len(got) == 0 {
				got = []string{}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tail() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRingNonPositiveCapacity(t *testing.T) {
	r := New(0)
	r.Append("a")
	r.Append("b")
	if got, want := r.Tail(), []string{"b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Tail() = %v, want %v", got, want)
	}
}
