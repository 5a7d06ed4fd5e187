package model

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneType classifies a phone number.
type PhoneType string

const (
	PhoneTypeLandline PhoneType = "landline"
	PhoneTypeMobile   PhoneType = "mobile"
	PhoneTypeUnknown  PhoneType = "unknown"
)

// PhoneCandidate is one observed phone number.
type PhoneCandidate struct {
	Number string    `json:"number"`
	Type   PhoneType `json:"type"`
	Source Source    `json:"source"`
}

// phoneRegion is the default parsing region for numbers without a country code.
const phoneRegion = "GB"

// PhoneKey returns the dedup key for a number: its digits only, with a UK
// trunk prefix folded into international form so "+44 20 ..." and
// "020 ..." collide.
func PhoneKey(number string) string {
	if parsed, err := phonenumbers.Parse(number, phoneRegion); err == nil && phonenumbers.IsValidNumber(parsed) {
		return digitsOnly(phonenumbers.Format(parsed, phonenumbers.E164))
	}
	return digitsOnly(number)
}

// NormalizePhone formats a number to E.164 when it parses as a valid GB
// number, otherwise returns the trimmed input unchanged.
func NormalizePhone(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return trimmed
	}
	parsed, err := phonenumbers.Parse(trimmed, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return trimmed
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// ClassifyPhone returns the number type where the library can determine it.
func ClassifyPhone(number string) PhoneType {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(number), phoneRegion)
	if err != nil {
		return PhoneTypeUnknown
	}
	switch phonenumbers.GetNumberType(parsed) {
	case phonenumbers.MOBILE:
		return PhoneTypeMobile
	case phonenumbers.FIXED_LINE, phonenumbers.FIXED_LINE_OR_MOBILE:
		return PhoneTypeLandline
	default:
		return PhoneTypeUnknown
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
