package conservation

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Program window for contract dates. Spreadsheet exports routinely produce
// years like 1900 or 9999; anything outside the window is treated as absent.
const (
	MinProgramYear = 2018
	MaxProgramYear = 2026
)

// dateLayouts are tried in order. Four-digit year layouts come before
// two-digit ones so "01/02/2021" never matches "1/2/06".
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"01-02-2006",
	"1.2.2006",
	"2006/01/02",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"1/2/06",
	"01/02/06",
	"2006-01",
	"2006",
}

// ParseCurrency parses a money string such as "$12,000.50" into a float.
// It never fails: empty, symbol-only and malformed input all return 0.
// Negative values are kept, including the accounting form "(1,200)".
func ParseCurrency(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v := ParseFloat(s)
	if negative {
		return -v
	}
	return v
}

// ParseFloat parses the leading number of a field, so "40 ac" reads as 40.
// Empty input, input that does not start with a number, and values out of
// float64 range all return 0.
func ParseFloat(s string) float64 {
	num := leadingNumber(strings.TrimSpace(s))
	if num == "" {
		return 0
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// leadingNumber returns the longest decimal literal at the start of s:
// an optional sign, digits with at most one point, and an exponent only when
// digits follow it. It returns "" when s has no leading digit.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseDate parses a free-text date into a UTC calendar date. It returns nil
// for empty or unparseable input and for years outside the program window.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() < MinProgramYear || t.Year() > MaxProgramYear {
			return nil
		}
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &d
	}
	return nil
}
