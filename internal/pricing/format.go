package pricing

import (
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var nonNumericRe = regexp.MustCompile(`[^\d.]`)

var thousand = decimal.NewFromInt(1000)

// ParseAmount strips everything but digits and dots and parses the rest.
func ParseAmount(s string) (decimal.Decimal, bool) {
	clean := nonNumericRe.ReplaceAllString(s, "")
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// NormalizePrice renders an amount as "$50,000" when it is at least 1000
// and as "$12.50" otherwise. Unparseable input is returned unchanged.
func NormalizePrice(s string) string {
	if s == "" {
		return ""
	}
	d, ok := ParseAmount(s)
	if !ok {
		return s
	}
	if d.GreaterThanOrEqual(thousand) {
		return "$" + humanize.BigComma(d.Round(0).BigInt())
	}
	return "$" + d.StringFixed(2)
}
