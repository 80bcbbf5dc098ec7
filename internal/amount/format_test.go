package amount

import "testing"

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "$0"},
		{in: 3500, want: "$3,500"},
		{in: 1234.5, want: "$1,234.5"},
		{in: 1234567.891, want: "$1,234,567.89"},
		{in: -42, want: "-$42"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.in); got != tc.want {
			t.Fatalf("FormatUSD(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatUSDVariants(t *testing.T) {
	if got := FormatUSDCents(12.5); got != "$12.50" {
		t.Fatalf("FormatUSDCents = %q", got)
	}
	if got := FormatUSDWhole(25_000_000_000); got != "$25,000,000,000" {
		t.Fatalf("FormatUSDWhole = %q", got)
	}
	if got := FormatNumber(1234.5); got != "1,234.50" {
		t.Fatalf("FormatNumber = %q", got)
	}
}
