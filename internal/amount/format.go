package amount

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

func usd(v float64, opts ...number.Option) string {
	if v < 0 {
		return "-$" + usPrinter.Sprint(number.Decimal(-v, opts...))
	}
	return "$" + usPrinter.Sprint(number.Decimal(v, opts...))
}

// FormatUSD renders en-US currency with up to two fraction digits and no
// trailing zeros, e.g. "$1,234.5".
func FormatUSD(v float64) string {
	return usd(v, number.MinFractionDigits(0), number.MaxFractionDigits(2))
}

// FormatUSDCents renders en-US currency with exactly two fraction digits.
func FormatUSDCents(v float64) string {
	return usd(v, number.MinFractionDigits(2), number.MaxFractionDigits(2))
}

// FormatUSDWhole renders en-US currency rounded to whole dollars.
func FormatUSDWhole(v float64) string {
	return usd(v, number.MaxFractionDigits(0))
}

// FormatNumber renders a plain en-US number with exactly two fraction digits.
func FormatNumber(v float64) string {
	return usPrinter.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
