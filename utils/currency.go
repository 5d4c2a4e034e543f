package utils

import (
	"fmt"
	"math"
	"strings"
)

var currencySymbols = map[string]string{
	"KZT": "₸",
	"RUB": "₽",
	"USD": "$",
	"EUR": "€",
}

// FormatPrice renders a menu price with space-separated thousands and the
// currency symbol after the amount, e.g. 12500 KZT -> "12 500 ₸".
// Fractions are shown only when present.
func FormatPrice(amount float64, currency string) string {
	negative := amount < 0
	amount = math.Abs(amount)

	cents := int64(math.Round(amount * 100))
	integer := cents / 100
	fraction := cents % 100

	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	result := strings.Join(groups, " ")
	if fraction > 0 {
		result += fmt.Sprintf(",%02d", fraction)
	}
	if negative {
		result = "-" + result
	}

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency)
	}
	if symbol == "" {
		return result
	}
	return result + " " + symbol
}
