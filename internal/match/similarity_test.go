package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentity(t *testing.T) {
	// Normalized-identical names score exactly 1.0.
	assert.Equal(t, 1.0, Similarity("Acme Ltd.", "ACME LIMITED"))
	assert.Equal(t, 1.0, Similarity("Brown & Sons", "BROWN AND SONS LTD"))
}

func TestSimilarityContainmentShortCircuit(t *testing.T) {
	// One normalized name inside the other scores at least 0.9.
	s := Similarity("Acme", "Acme Heating and Plumbing Services")
	assert.GreaterOrEqual(t, s, 0.9)
}

func TestSimilarityUnrelatedNamesScoreLow(t *testing.T) {
	s := Similarity("Acme Plumbing", "Zenith Roofing Contractors")
	assert.Less(t, s, 0.3)
}

func TestSimilarityPartialOverlap(t *testing.T) {
	a := Similarity("Acme Plumbing", "Acme Plumbing and Heating")
	b := Similarity("Acme Plumbing", "Apex Drainage")
	assert.Greater(t, a, b)
	assert.Greater(t, a, 0.5)
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Zero(t, Similarity("", "Acme"))
	assert.Zero(t, Similarity("Acme", ""))
}

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{name: "identical single word", a: "acme", b: "acme", expected: 1.0},
		{name: "one of two words", a: "acme plumbing", b: "acme roofing", expected: 0.5},
		{name: "substring word counts half", a: "johnson builders", b: "johnsons scaffolding", expected: 0.25},
		{name: "no overlap", a: "acme", b: "zenith", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, wordOverlap(tt.a, tt.b), 0.001)
		})
	}
}
