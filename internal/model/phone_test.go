package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneKey(t *testing.T) {
	// National and international forms of the same London number collide.
	assert.Equal(t, PhoneKey("020 7946 0958"), PhoneKey("+44 20 7946 0958"))
	assert.Equal(t, PhoneKey("(020) 7946-0958"), PhoneKey("02079460958"))
}

func TestPhoneKeyInvalidNumberFallsBackToDigits(t *testing.T) {
	assert.Equal(t, "12345", PhoneKey("call 1-23.45"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+442079460958", NormalizePhone("020 7946 0958"))
	// Unparseable input is returned trimmed, not discarded.
	assert.Equal(t, "not a number", NormalizePhone("  not a number "))
	assert.Equal(t, "", NormalizePhone("   "))
}

func TestClassifyPhone(t *testing.T) {
	assert.Equal(t, PhoneTypeMobile, ClassifyPhone("07700 900123"))
	assert.Equal(t, PhoneTypeLandline, ClassifyPhone("020 7946 0958"))
	assert.Equal(t, PhoneTypeUnknown, ClassifyPhone("gibberish"))
}
