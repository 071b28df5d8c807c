// Package currency is the single place price strings are parsed and
// formatted. Quotation totals depend on it, so the grammar is fixed here:
//
//	amount   = [symbol] [space] digits { ("," | " ") digits } ["." digits]
//	symbol   = "₹" | "Rs." | "Rs" | "INR" | "$"
//
// Anything outside the grammar parses to zero. A bad price string must never
// break a whole quotation total.
package currency

import (
	"fmt"
	"strconv"
	"strings"
)

var symbols = []string{"₹", "Rs.", "Rs", "INR", "$"}

// ParseAmount converts a currency-formatted string to a numeric amount.
// Thousands separators (commas or spaces) and a leading currency symbol are
// accepted. Unparsable input returns 0, never an error.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	for _, sym := range symbols {
		if strings.HasPrefix(s, sym) {
			s = strings.TrimSpace(strings.TrimPrefix(s, sym))
			break
		}
	}

	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case r == ',' || r == ' ':
			// grouping separator, skip
		default:
			return 0
		}
	}

	if b.Len() == 0 {
		return 0
	}

	amount, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return amount
}

// FormatAmount renders an amount as a rupee string with comma-grouped
// thousands, e.g. 22500 -> "₹22,500". Fractions are kept to two places and
// dropped when zero. Rounding happens once, in cents, so a fraction that
// rounds up to a full rupee carries into the whole amount.
func FormatAmount(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := "₹" + b.String()
	if frac > 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}
