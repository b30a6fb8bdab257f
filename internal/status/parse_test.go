package status

import (
	"math"
	"testing"
)

func TestParseValueNumericForms(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"7", 7},
		{"12,5%", 12.5},
		{"12.5%", 12.5},
		{"'3'", 3},
		{"  80 % ", 80},
		{"-4,25", -4.25},
		{"0", 0},
		{"100%", 100},
	}
	for _, tc := range cases {
		got := ParseValue(tc.raw)
		if !got.OK {
			t.Fatalf("ParseValue(%q) = NotANumber, want %v", tc.raw, tc.want)
		}
		if math.Abs(got.Value-tc.want) > 1e-9 {
			t.Fatalf("ParseValue(%q) = %v, want %v", tc.raw, got.Value, tc.want)
		}
	}
}

func TestParseValueNotANumber(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"NA",
		"na",
		"S/N",
		"s/n",
		"andamento",
		"Em Andamento",
		"apurando",
		"Apurando (80%)",
		"não mensurado",
		"garbage",
		"12,5,7",
		"--",
	}
	for _, raw := range cases {
		if got := ParseValue(raw); got.OK {
			t.Fatalf("ParseValue(%q) = %v, want NotANumber", raw, got.Value)
		}
	}
}
