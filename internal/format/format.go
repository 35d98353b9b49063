// Package format holds output formatting helpers shared by the report
// builder and the AI prompt templates.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency renders a dollar amount, abbreviating thousands, millions, and
// billions.
func Currency(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", amount/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", amount/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", amount/1e3)
	default:
		return "$" + Comma(amount, 2)
	}
}

// Percent renders a percentage with the given decimal places.
func Percent(value float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// Unit renders a technical value with its unit, choosing precision by unit
// family the way process engineers expect flows and power to read.
func Unit(value float64, unit string) string {
	switch strings.ToLower(unit) {
	case "kg/h", "tons/year", "tons/day":
		return fmt.Sprintf("%s %s", Comma(value, 1), unit)
	case "kw", "mw":
		return fmt.Sprintf("%s %s", Comma(value, 0), unit)
	default:
		return fmt.Sprintf("%.2f %s", value, unit)
	}
}

// Comma formats a number with thousands separators and the given number of
// decimal places.
func Comma(value float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, math.Abs(value))
	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}
	var b strings.Builder
	if value < 0 {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
