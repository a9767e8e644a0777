package util

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{33.333333, 33.33},
		{66.666666, 66.67},
		{50, 50},
		{0, 0},
		{74.999, 75},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	if got := ParsePositiveInt("15", 10); got != 15 {
		t.Errorf("got %d, want 15", got)
	}
	for _, bad := range []string{"", "abc", "-3", "0"} {
		if got := ParsePositiveInt(bad, 10); got != 10 {
			t.Errorf("ParsePositiveInt(%q) = %d, want default 10", bad, got)
		}
	}
}
