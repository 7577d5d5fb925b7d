package util

import "testing"

func TestNormalizeCNPJ(t *testing.T) {
	if got := NormalizeCNPJ("11.222.333/0001-81"); got != "11222333000181" {
		t.Fatalf("unexpected normalization: %s", got)
	}
}

func TestValidateCNPJ(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"11.222.333/0001-81", true},
		{"11222333000181", true},
		{"11222333000180", false},
		{"11111111111111", false},
		{"123", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateCNPJ(tc.in); got != tc.want {
			t.Fatalf("ValidateCNPJ(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
