package events_test

import (
	"testing"

	"scrambleorg/internal/events"
)

func TestGroupLabel(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{13, "M"},
		{26, "Z"},
		{0, ""},
		{27, ""},
		{-4, ""},
	}
	for _, tc := range tests {
		if got := events.GroupLabel(tc.in); got != tc.want {
			t.Fatalf("GroupLabel(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
