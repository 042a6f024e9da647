// Package money formats euro amounts in the fixed nl-NL display locale:
// "€ 1.234,56". The application supports no other currency or locale, so
// a hand-rolled formatter beats pulling in a localization stack.
package money

import (
	"fmt"
	"strings"
)

func Format(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	plain := fmt.Sprintf("%.2f", value)
	whole, frac, _ := strings.Cut(plain, ".")

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	return fmt.Sprintf("€ %s%s,%s", sign, b.String(), frac)
}
