package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestEmails(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain address",
			input:    "Contact us at info@acme.co.uk for a quote.",
			expected: []string{"info@acme.co.uk"},
		},
		{
			name:     "dedup and lowercase",
			input:    "INFO@acme.com or info@acme.com",
			expected: []string{"info@acme.com"},
		},
		{
			name:     "placeholder filtered",
			input:    "e.g. you@example.com and real@acme.com",
			expected: []string{"real@acme.com"},
		},
		{
			name:     "image artifact filtered",
			input:    "logo@2x.png src hero@640w.jpg but sales@acme.com stays",
			expected: []string{"sales@acme.com"},
		},
		{
			name:     "none",
			input:    "no contacts here",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Emails(tt.input))
		})
	}
}

func TestPhones(t *testing.T) {
	text := "Call 020 7946 0958 or +44 20 7946 0958, mobile 07700 900123."
	phones := Phones(text)
	// The two London forms share a digit key, so only one survives.
	assert.Len(t, phones, 2)
	assert.Equal(t, "020 7946 0958", phones[0])
}

func TestPostcode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "standard", input: "12 High St, London SW1A 1AA", expected: "SW1A 1AA"},
		{name: "no space", input: "Leeds LS11AB", expected: "LS1 1AB"},
		{name: "lowercase", input: "bristol bs1 4dj", expected: "BS1 4DJ"},
		{name: "absent", input: "no postcode here", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Postcode(tt.input))
		})
	}
}

func TestSocialLinks(t *testing.T) {
	text := `<a href="https://www.facebook.com/acmeplumbing">fb</a>
	<a href="https://facebook.com/sharer/sharer.php?u=x">share</a>
	<a href="https://www.linkedin.com/company/acme-plumbing">li</a>`

	links := SocialLinks(text)
	assert.Equal(t, "https://www.facebook.com/acmeplumbing", links[model.PlatformFacebook])
	assert.Equal(t, "https://www.linkedin.com/company/acme-plumbing", links[model.PlatformLinkedIn])
	assert.NotContains(t, links, model.PlatformTwitter)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a \n\t b   c  "))
	assert.Equal(t, "", CleanText("   "))
}
