package model

import "strings"

// Person is an individual associated with a business: a registry officer,
// someone named on the website, or a professional-network hit. A person
// carries their own email guesses independently of the lead-level set.
type Person struct {
	Name       string           `json:"name"`
	FirstName  string           `json:"first_name,omitempty"`
	LastName   string           `json:"last_name,omitempty"`
	Role       string           `json:"role,omitempty"`
	Source     Source           `json:"source"`
	ProfileURL string           `json:"profile_url,omitempty"`
	Emails     []EmailCandidate `json:"emails,omitempty"`
}

// PersonKey returns the case-insensitive full-name dedup key.
func PersonKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SplitName derives first and last name from a free-text full name.
// Registry names often arrive as "SURNAME, Forename"; website names as
// "Forename Surname". Middle names fold into neither.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}

	if surname, forenames, ok := strings.Cut(full, ","); ok {
		first = firstWord(forenames)
		last = strings.TrimSpace(surname)
		return normalizeNameCase(first), normalizeNameCase(last)
	}

	parts := strings.Fields(full)
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return normalizeNameCase(first), normalizeNameCase(last)
}

// decisionRoles mark a person as an officer/director/ownership-level contact.
var decisionRoles = []string{
	"director", "owner", "founder", "partner", "proprietor",
	"ceo", "managing", "chairman", "chief", "secretary", "principal",
}

// IsDecisionMaker reports whether the person's role indicates
// officer/director/ownership-level authority.
func (p Person) IsDecisionMaker() bool {
	role := strings.ToLower(p.Role)
	for _, kw := range decisionRoles {
		if strings.Contains(role, kw) {
			return true
		}
	}
	return false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// normalizeNameCase title-cases an all-caps or all-lower name part, leaving
// mixed-case names (e.g. "McDonald") alone.
func normalizeNameCase(s string) string {
	if s == "" {
		return s
	}
	if s != strings.ToUpper(s) && s != strings.ToLower(s) {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
