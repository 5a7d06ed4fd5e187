package model

import "strings"

// Confidence is the qualitative certainty tier for an inferred or observed fact.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the wire form of the confidence tier.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(b []byte) error {
	switch string(b) {
	case "high":
		*c = ConfidenceHigh
	case "medium":
		*c = ConfidenceMedium
	default:
		*c = ConfidenceLow
	}
	return nil
}

// EmailRole distinguishes a person's mailbox from a shared role account.
type EmailRole string

const (
	EmailRolePersonal EmailRole = "personal"
	EmailRoleGeneric  EmailRole = "generic"
)

// EmailCandidate is one observed or synthesized email address.
type EmailCandidate struct {
	Address            string     `json:"address"`
	Role               EmailRole  `json:"role"`
	Source             Source     `json:"source"`
	Confidence         Confidence `json:"confidence"`
	Verified           bool       `json:"verified"`
	VerificationMethod string     `json:"verification_method,omitempty"`
	PersonName         string     `json:"person_name,omitempty"`
}

// NormalizeEmail returns the dedup key for an address: lowercased and trimmed.
func NormalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// genericPrefixes are local parts that indicate a shared mailbox rather
// than a person.
var genericPrefixes = map[string]bool{
	"info": true, "sales": true, "admin": true, "office": true,
	"contact": true, "enquiries": true, "inquiries": true, "hello": true,
	"support": true, "mail": true, "accounts": true, "bookings": true,
	"reception": true, "team": true,
}

// ClassifyEmailRole returns generic for shared-mailbox local parts,
// personal otherwise.
func ClassifyEmailRole(address string) EmailRole {
	local, _, ok := strings.Cut(NormalizeEmail(address), "@")
	if ok && genericPrefixes[local] {
		return EmailRoleGeneric
	}
	return EmailRolePersonal
}
