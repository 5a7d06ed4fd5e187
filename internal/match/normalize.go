// Package match resolves a free-text business name (plus optional
// postcode) to its best-scoring official registry record. Directory names
// rarely match registry names verbatim (trading names, suffix variants,
// "The"-prefixes), so matching runs on normalized names with several
// search variations and a blended similarity metric.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes is the fixed vocabulary stripped from the end of a
// normalized name. Multi-word entries are listed before their prefixes so
// "and sons" wins over "sons" alone.
var legalSuffixes = []string{
	"and sons", "and son", "and partners", "and co", "and daughters",
	"limited", "ltd", "plc", "llp", "lp", "cic",
	"group", "holdings", "company", "co", "uk",
}

var diacriticFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize lowercases a business name, folds diacritics, strips
// punctuation, removes trailing legal-entity suffixes, and collapses
// whitespace. "Acme Ltd." and "ACME LIMITED" normalize identically.
func Normalize(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(diacriticFolder, lower); err == nil {
		lower = folded
	}

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '&':
			b.WriteString(" and ")
		case r == '\'': // drop possessive apostrophes entirely: "bob's" -> "bobs"
		default:
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	words = stripSuffixes(words)
	return strings.Join(words, " ")
}

// stripSuffixes removes trailing legal-entity suffix phrases, repeating so
// "acme trading co ltd" reduces to "acme trading". The first word is never
// stripped; a company literally named "Group" stays "group".
func stripSuffixes(words []string) []string {
	for len(words) > 1 {
		stripped := false
		for _, suffix := range legalSuffixes {
			sw := strings.Fields(suffix)
			if len(words)-len(sw) < 1 {
				continue
			}
			if strings.Join(words[len(words)-len(sw):], " ") == suffix {
				words = words[:len(words)-len(sw)]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return words
}

var stopwords = map[string]bool{"the": true, "a": true, "an": true, "of": true, "and": true}

// Variations generates up to three registry search queries from a raw
// business name, compensating for registry-side name drift: the original,
// the normalized form, a "The"-prefix-stripped form, a possessive-stripped
// form, and the first significant word alone, deduplicated in that order.
func Variations(name string) []string {
	normalized := Normalize(name)

	candidates := []string{
		strings.TrimSpace(name),
		normalized,
		strings.TrimPrefix(normalized, "the "),
		Normalize(strings.ReplaceAll(strings.ToLower(name), "'s", "")),
		firstSignificantWord(normalized),
	}

	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(c))
		if len(out) == 3 {
			break
		}
	}
	return out
}

// firstSignificantWord returns the first non-stopword of at least three
// letters, or "" when the name has none.
func firstSignificantWord(normalized string) string {
	for _, w := range strings.Fields(normalized) {
		if !stopwords[w] && len(w) >= 3 {
			return w
		}
	}
	return ""
}
