package loan

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders a whole-rupee amount with Indian digit grouping,
// e.g. 90000 -> "₹90,000".
func FormatINR(amount float64) string {
	return "₹" + inrPrinter.Sprintf("%d", int64(math.Round(amount)))
}

// FormatPercent renders a rate with two decimals, e.g. 10.5 -> "10.50%".
func FormatPercent(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(2) + "%"
}

// Round2 rounds half away from zero to two decimals for display. NaN and
// infinities are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
