// Package geo provides UK postcode helpers and a size-bounded
// location-to-coordinate cache shared across enrichment runs.
package geo

import (
	"strings"
	"unicode"
)

// NormalizePostcode uppercases and reduces internal whitespace to the
// canonical single-space form ("sw1a1aa" -> "SW1A 1AA").
func NormalizePostcode(pc string) string {
	compact := strings.ToUpper(strings.Join(strings.Fields(pc), ""))
	if len(compact) < 5 || len(compact) > 7 {
		return strings.ToUpper(strings.TrimSpace(pc))
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// OutwardCode returns the outward half of a postcode ("SW1A 1AA" -> "SW1A").
func OutwardCode(pc string) string {
	norm := NormalizePostcode(pc)
	outward, _, found := strings.Cut(norm, " ")
	if !found {
		return norm
	}
	return outward
}

// Area returns the leading letters of the postcode ("SW1A 1AA" -> "SW").
func Area(pc string) string {
	outward := OutwardCode(pc)
	for i, r := range outward {
		if unicode.IsDigit(r) {
			return outward[:i]
		}
	}
	return outward
}

// SamePostcode reports whether two postcodes are identical after
// normalization. Empty input never matches.
func SamePostcode(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return NormalizePostcode(a) == NormalizePostcode(b)
}

// SameOutward reports whether two postcodes share an outward code.
func SameOutward(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return OutwardCode(a) == OutwardCode(b)
}

// SameArea reports whether two postcodes share a postcode area.
func SameArea(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return Area(a) == Area(b)
}
