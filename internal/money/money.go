// Package money reads currency amounts written in the Brazilian convention
// ("1.234,56": dot for thousands, comma for decimals).
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// candidateRe matches runs of digits, dots and commas starting with a digit.
var candidateRe = regexp.MustCompile(`\d[\d.,]*`)

var toCanonical = strings.NewReplacer(".", "", ",", ".")

// Parse returns the largest amount found in s, or zero when nothing parses.
// Candidates that do not form a number ("1,2,3") are skipped.
func Parse(s string) decimal.Decimal {
	best := decimal.Zero
	found := false
	for _, m := range candidateRe.FindAllString(s, -1) {
		v, ok := parseCandidate(m)
		if !ok {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best
}

func parseCandidate(m string) (decimal.Decimal, bool) {
	m = strings.TrimRight(m, ".,")
	v, err := decimal.NewFromString(toCanonical.Replace(m))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
