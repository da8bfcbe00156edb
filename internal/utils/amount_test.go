package utils

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{"$300", 300},
		{"PKR 1,000", 1000},
		{"42", 42},
		{"12.50", 12.5},
		{"$1,250.75", 1250.75},
		{"", 0},
		{"free", 0},
		{"N/A", 0},
		{"1.2.3", 0}, // two dots, unparseable
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	if got := CoerceAmount(-5); got != 0 {
		t.Errorf("CoerceAmount(-5) = %v, want 0", got)
	}
	if got := CoerceAmount(math.NaN()); got != 0 {
		t.Errorf("CoerceAmount(NaN) = %v, want 0", got)
	}
	if got := CoerceAmount(7.5); got != 7.5 {
		t.Errorf("CoerceAmount(7.5) = %v, want 7.5", got)
	}
}

func TestRound1HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{4.25, 4.3},
		{4.24, 4.2},
		{4.75, 4.8},
		{0, 0},
		{5, 5},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.out {
			t.Errorf("Round1(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	if got := FormatUSD(1250.5); got != "$1250.50" {
		t.Errorf("FormatUSD(1250.5) = %q", got)
	}
}
