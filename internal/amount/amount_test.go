package amount

import (
	"math/big"
	"testing"
)

func TestToFloat(t *testing.T) {
	cases := []struct {
		name     string
		raw      *big.Int
		decimals uint8
		want     float64
	}{
		{name: "nil", raw: nil, decimals: 18, want: 0},
		{name: "six decimals", raw: big.NewInt(1_234_500_000), decimals: 6, want: 1234.5},
		{name: "eight decimals", raw: big.NewInt(150_000_000), decimals: 8, want: 1.5},
		{name: "eighteen decimals", raw: FromUnits(42, 18), decimals: 18, want: 42},
		{name: "zero decimals", raw: big.NewInt(7), decimals: 0, want: 7},
	}

	for _, tc := range cases {
		if got := ToFloat(tc.raw, tc.decimals); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestFeedPrice(t *testing.T) {
	if got := FeedPrice(big.NewInt(250000000000), 8); got != 2500.0 {
		t.Fatalf("feed price mismatch: %v", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(big.NewInt(1_500_000), 6); got != "1.5" {
		t.Fatalf("format mismatch: %s", got)
	}
	if got := Format(nil, 6); got != "0" {
		t.Fatalf("nil format mismatch: %s", got)
	}
	if got := Format(big.NewInt(-25), 1); got != "-2.5" {
		t.Fatalf("negative format mismatch: %s", got)
	}
}
