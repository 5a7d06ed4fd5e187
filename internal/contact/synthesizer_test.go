package contact

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// mockMX implements MXResolver for testing.
type mockMX struct {
	exists bool
	hosts  []string
	err    error
	calls  int
}

func (m *mockMX) LookupMX(_ context.Context, _ string) (bool, []string, error) {
	m.calls++
	return m.exists, m.hosts, m.err
}

func person(first, last string) model.Person {
	return model.Person{
		Name:      first + " " + last,
		FirstName: first,
		LastName:  last,
	}
}

func TestGuessConventionReplay(t *testing.T) {
	s := NewSynthesizer(&mockMX{exists: true, hosts: []string{"mx1.acme.com"}})

	jane := person("Jane", "Doe")
	john := person("John", "Smith")

	candidates, err := s.Guess(context.Background(), john, "acme.com",
		[]string{"jane.doe@acme.com"}, []model.Person{jane})
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	top := candidates[0]
	assert.Equal(t, "john.smith@acme.com", top.Address)
	assert.Equal(t, model.ConfidenceHigh, top.Confidence)
	assert.Equal(t, "pattern-match", top.VerificationMethod)
	assert.Equal(t, "John Smith", top.PersonName)
	// A detected convention replaces blanket template generation.
	assert.Len(t, candidates, 1)
}

func TestGuessNoMXYieldsNothing(t *testing.T) {
	s := NewSynthesizer(&mockMX{exists: false})

	candidates, err := s.Guess(context.Background(), person("John", "Smith"), "dead-domain.co.uk",
		[]string{"jane.doe@dead-domain.co.uk"}, []model.Person{person("Jane", "Doe")})
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestGuessMXErrorPropagates(t *testing.T) {
	s := NewSynthesizer(&mockMX{err: eris.New("contact: mx lookup acme.com: timeout")})

	_, err := s.Guess(context.Background(), person("John", "Smith"), "acme.com", nil, nil)
	assert.Error(t, err)
}

func TestGuessGeneratesTemplatesWithoutConvention(t *testing.T) {
	s := NewSynthesizer(&mockMX{exists: true})

	candidates, err := s.Guess(context.Background(), person("John", "Smith"), "acme.com", nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	byAddr := make(map[string]model.EmailCandidate)
	for _, c := range candidates {
		byAddr[c.Address] = c
	}

	assert.Equal(t, model.ConfidenceMedium, byAddr["john.smith@acme.com"].Confidence)
	assert.Equal(t, model.ConfidenceMedium, byAddr["info@acme.com"].Confidence)
	assert.Equal(t, model.EmailRoleGeneric, byAddr["info@acme.com"].Role)
	assert.Equal(t, model.ConfidenceLow, byAddr["smith.john@acme.com"].Confidence)

	// Sorted by confidence descending; ties keep generation order.
	assert.Equal(t, "john.smith@acme.com", candidates[0].Address)
	for i := 1; i < len(candidates); i++ {
		assert.LessOrEqual(t, candidates[i].Confidence, candidates[i-1].Confidence)
	}
}

func TestGuessFirstNameOnlySkipsLastNameTemplates(t *testing.T) {
	s := NewSynthesizer(&mockMX{exists: true})

	candidates, err := s.Guess(context.Background(), model.Person{Name: "Cher", FirstName: "Cher"}, "acme.com", nil, nil)
	require.NoError(t, err)

	for _, c := range candidates {
		assert.NotContains(t, c.Address, ".cher@", "last-name templates should be skipped")
	}
	addrs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		addrs = append(addrs, c.Address)
	}
	assert.Contains(t, addrs, "cher@acme.com")
	assert.Contains(t, addrs, "info@acme.com")
}

func TestGuessEmptyInputs(t *testing.T) {
	mx := &mockMX{exists: true}
	s := NewSynthesizer(mx)

	candidates, err := s.Guess(context.Background(), model.Person{}, "acme.com", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Zero(t, mx.calls, "no MX lookup when the person has no name")

	candidates, err = s.Guess(context.Background(), person("John", "Smith"), "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDetectConvention(t *testing.T) {
	jane := person("Jane", "Doe")
	bob := person("Bob", "Jones")

	tests := []struct {
		name     string
		emails   []string
		people   []model.Person
		expected string
	}{
		{
			name:     "first.last",
			emails:   []string{"jane.doe@acme.com"},
			people:   []model.Person{jane},
			expected: "first.last",
		},
		{
			name:     "flast",
			emails:   []string{"bjones@acme.com"},
			people:   []model.Person{jane, bob},
			expected: "flast",
		},
		{
			name:     "ignores other domains",
			emails:   []string{"jane.doe@other.com"},
			people:   []model.Person{jane},
			expected: "",
		},
		{
			name:     "no people",
			emails:   []string{"jane.doe@acme.com"},
			people:   nil,
			expected: "",
		},
		{
			name:     "unmatched local part",
			emails:   []string{"webmaster@acme.com"},
			people:   []model.Person{jane},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectConvention("acme.com", tt.emails, tt.people)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestTemplateApply(t *testing.T) {
	tests := []struct {
		template string
		expected string
	}{
		{template: "first.last", expected: "john.smith"},
		{template: "firstlast", expected: "johnsmith"},
		{template: "f.last", expected: "j.smith"},
		{template: "flast", expected: "jsmith"},
		{template: "first.l", expected: "john.s"},
		{template: "last.first", expected: "smith.john"},
		{template: "first_last", expected: "john_smith"},
		{template: "first-last", expected: "john-smith"},
		{template: "fl", expected: "js"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tmpl := TemplateByName(tt.template)
			require.NotNil(t, tmpl)
			assert.Equal(t, tt.expected, tmpl.Apply("John", "Smith"))
		})
	}
}
