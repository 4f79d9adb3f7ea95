package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Digits strips everything except ASCII digits.
func Digits(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Clean strips everything except digits and keeps a single leading "+" when
// the first significant character of input is a plus sign.
func Clean(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FullInternationalNumber combines a locally entered number with a calling code
// into the canonical "+digits" form. If the local digits already start with the
// calling code digits only a "+" is prepended, so applying it to its own output
// with the same calling code is a no-op.
func FullInternationalNumber(localNumber, callingCode string) string {
	local := Digits(localNumber)
	if local == "" {
		return ""
	}
	code := Digits(callingCode)
	if strings.HasPrefix(local, code) {
		return "+" + local
	}
	return "+" + code + local
}

// InternationalFormat renders a number in the libphonenumber INTERNATIONAL
// format (e.g. "+965 5012 3456"). It reports false when the number does not
// carry a country code or is not a valid number for its region.
func InternationalFormat(number string) (string, bool) {
	cleaned := Clean(number)
	if !strings.HasPrefix(cleaned, "+") {
		return "", false
	}

	parsed, err := phonenumbers.Parse(cleaned, "")
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}

	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL), true
}
