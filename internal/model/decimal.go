package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a venue-reported numeric string. Blank and malformed
// values report ok=false.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DecimalOrZero parses leniently: anything unparseable contributes zero.
// Partial data must never block a whole report.
func DecimalOrZero(s string) decimal.Decimal {
	d, _ := ParseDecimal(s)
	return d
}
