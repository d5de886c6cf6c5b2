// Package format renders pipeline numbers for display. It performs no
// aggregation; callers pass sums computed by the conservation package.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders whole US dollars with thousands separators, e.g. "$12,000".
func Currency(v float64) string {
	n := round(v)
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// Number renders v rounded to an integer with thousands separators.
func Number(v float64) string {
	return printer.Sprintf("%d", round(v))
}

// Percent renders part/whole as a whole percentage. A zero whole renders "0%".
func Percent(part, whole float64) string {
	if whole == 0 {
		return "0%"
	}
	return printer.Sprintf("%d%%", round(part/whole*100))
}

// Ratio renders an already computed percentage with one decimal, e.g. "42.5%".
func Ratio(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	return printer.Sprintf("%.1f%%", pct)
}

// Thousands renders an axis label such as "$250k".
func Thousands(v float64) string {
	return printer.Sprintf("$%dk", round(v/1000))
}

func round(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}
