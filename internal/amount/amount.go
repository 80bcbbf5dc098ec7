package amount

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToFloat converts a raw integer quantity into whole units using the
// token's on-chain decimals. A nil quantity is zero.
func ToFloat(raw *big.Int, decimals uint8) float64 {
	if raw == nil {
		return 0
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).InexactFloat64()
}

// Format renders a raw integer quantity as an exact decimal string.
func Format(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}

// FeedPrice converts a fixed-point price feed answer into a float.
func FeedPrice(answer *big.Int, decimals uint8) float64 {
	return ToFloat(answer, decimals)
}

// Pow10 returns 10^exp as a big.Int, handy for building raw amounts.
func Pow10(exp uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// FromUnits returns units × 10^decimals as a raw integer.
func FromUnits(units int64, decimals uint8) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), Pow10(decimals))
}
