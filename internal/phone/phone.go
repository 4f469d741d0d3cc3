// Package phone canonicalizes phone numbers so that every input
// formatting of the same number maps to one stored value.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed when the input carries no country code.
const DefaultRegion = "US"

var ErrInvalid = errors.New("invalid phone number")

// Normalize parses a raw phone number and returns its E.164 form,
// e.g. "(415) 765-4321" and "4157654321" both become "+14157654321".
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalid
	}

	num, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil {
		return "", ErrInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalid
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
