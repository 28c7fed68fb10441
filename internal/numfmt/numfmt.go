// Package numfmt converts between raw numbers and the operator-facing
// Brazilian representation (decimal comma, dot grouping).
package numfmt

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "R$"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatNumber renders v with exactly places fraction digits, rounding half
// away from zero: FormatNumber(1234.5, 2) == "1.234,50".
func FormatNumber(v float64, places int) string {
	if places < 0 {
		places = 0
	}
	rounded, _ := decimal.NewFromFloat(v).Round(int32(places)).Float64()
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", places), rounded)
}

// FormatCurrency renders an amount in reais: "R$ 1.234,50".
func FormatCurrency(v float64) string {
	if decimal.NewFromFloat(v).Round(2).IsNegative() {
		return "-" + CurrencySymbol + " " + FormatNumber(-v, 2)
	}
	return CurrencySymbol + " " + FormatNumber(v, 2)
}

// FormatWeight renders kilograms with two or three fraction digits.
func FormatWeight(v float64) string {
	d := decimal.NewFromFloat(v)
	places := 2
	if !d.Round(3).Equal(d.Round(2)) {
		places = 3
	}
	return FormatNumber(v, places) + " kg"
}

// FormatDate renders dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders dd/mm/yyyy hh:mm.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// numberPattern accepts a decimal comma and dot grouping in blocks of three:
// "12,5", "1234,56" and "1.234,56" parse; "12.5" does not.
var numberPattern = regexp.MustCompile(`^-?(\d{1,3}(\.\d{3})+|\d+)(,\d+)?$`)

// ParseNumber parses a Brazilian formatted number ("1.234,56").
// An empty string parses as zero. A dot that is not a thousands separator
// is an error, so "12.5" is never read as 125.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !numberPattern.MatchString(s) {
		return 0, fmt.Errorf("parse number %q: use a decimal comma (12,5)", s)
	}
	normalized := strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}
