package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "strip ltd with period", input: "Acme Ltd.", expected: "acme"},
		{name: "strip limited", input: "ACME LIMITED", expected: "acme"},
		{name: "strip plc", input: "Widget Works PLC", expected: "widget works"},
		{name: "strip and sons", input: "Brown & Sons", expected: "brown"},
		{name: "strip chained suffixes", input: "Acme Trading Co Ltd", expected: "acme trading"},
		{name: "possessive apostrophe dropped", input: "Bob's Plumbing", expected: "bobs plumbing"},
		{name: "punctuation to spaces", input: "A.B.C-Heating,Services", expected: "a b c heating services"},
		{name: "keep sole suffix word", input: "Group", expected: "group"},
		{name: "diacritics folded", input: "Café Rouge Ltd", expected: "cafe rouge"},
		{name: "collapse whitespace", input: "  Acme    Widgets  ", expected: "acme widgets"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestVariations(t *testing.T) {
	vars := Variations("The Acme Widget Company Ltd")
	assert.LessOrEqual(t, len(vars), 3)
	assert.Equal(t, "The Acme Widget Company Ltd", vars[0])
	assert.Contains(t, vars, "the acme widget")
	assert.Contains(t, vars, "acme widget")
}

func TestVariationsDeduplicates(t *testing.T) {
	// Name that normalizes to itself produces fewer variations.
	vars := Variations("acme")
	assert.Equal(t, []string{"acme"}, vars)
}

func TestVariationsPossessive(t *testing.T) {
	vars := Variations("Bob's Autos Ltd")
	assert.Contains(t, vars, "bobs autos")
	assert.Contains(t, vars, "bob autos")
}
