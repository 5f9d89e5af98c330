package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatAmount formats a lira amount with Turkish separators, e.g. 1500 -> "1.500"
// and 1234.5 -> "1.234,5". At most two fraction digits are kept.
func FormatAmount(amount float64) string {
	p := message.NewPrinter(language.Turkish)
	rounded := math.Round(amount*100) / 100
	if rounded == math.Trunc(rounded) {
		return p.Sprintf("%d", int64(rounded))
	}
	return p.Sprint(number.Decimal(rounded, number.MaxFractionDigits(2)))
}

// FormatTL is FormatAmount with the currency suffix: "1.500 TL".
func FormatTL(amount float64) string {
	return FormatAmount(amount) + " TL"
}
