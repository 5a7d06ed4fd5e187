package match

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Blend weights for the similarity metric. Pure edit distance misranks
// short and overlapping names, so word overlap carries the larger share.
const (
	levenshteinWeight = 0.4
	wordOverlapWeight = 0.6
	containmentFloor  = 0.9
)

// Similarity scores how alike two business names are in [0,1]. Both inputs
// are normalized before comparison. Containment of one normalized name
// inside the other short-circuits to at least 0.9.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}

	score := levenshteinWeight*(1-normalizedLevenshtein(na, nb)) +
		wordOverlapWeight*wordOverlap(na, nb)

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		if score < containmentFloor {
			return containmentFloor
		}
	}
	return score
}

// normalizedLevenshtein returns edit distance scaled by the longer string.
func normalizedLevenshtein(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.Distance(a, b, nil)) / float64(longest)
}

// wordOverlap counts exact word matches plus 0.5 for substring-overlapping
// words, normalized by the larger word-set size.
func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	var overlap float64
	for _, wa := range wordsA {
		if setB[wa] {
			overlap++
			continue
		}
		for wb := range setB {
			if partialWordMatch(wa, wb) {
				overlap += 0.5
				break
			}
		}
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return overlap / float64(larger)
}

// partialWordMatch reports whether one word contains the other. Both must
// be at least three letters so "a" inside "acme" does not count.
func partialWordMatch(a, b string) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
