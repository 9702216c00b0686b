package domain

import "testing"

func TestClampScore(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{100, 100},
		{55.5, 55.5},
		{-5, 0},
		{120, 100},
	}
	for _, tc := range cases {
		if got := ClampScore(tc.in); got != tc.want {
			t.Fatalf("ClampScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
