package phone

import (
	"fmt"
	"strings"
)

const (
	minInternationalDigits = 7
	maxInternationalDigits = 15

	minFullDigits = 10
	maxFullDigits = 15

	minLocalDigits = 7
	maxLocalDigits = 12

	kuwaitCallingCode  = "965"
	kuwaitMinFullDigit = 11
)

// Validation messages. Clients show these verbatim beneath the input field.
const (
	MsgRequired           = "Phone number is required"
	MsgMissingCountryCode = "Phone number must include country code (e.g., +1, +44, +91)"
	MsgTooShort           = "Phone number is too short"
	MsgTooLong            = "Phone number is too long"

	msgFullTooShort   = "Phone number is too short (%d digits). International numbers need at least 10 digits."
	msgKuwaitTooShort = "Kuwait mobile numbers need 8 digits after country code (e.g., 50123456). You entered %d digits."
	msgLocalTooShort  = "Local number is too short (%d digits). Most countries need 7-8 digits."
)

// ValidationResult describes whether a number is acceptable and, if not, why.
type ValidationResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

func valid() ValidationResult { return ValidationResult{IsValid: true} }

func invalid(message string) ValidationResult {
	return ValidationResult{IsValid: false, Error: message}
}

// Validate dispatches to ValidateWithCountry when callingCode carries digits
// and to ValidateInternational otherwise.
func Validate(number, callingCode string) ValidationResult {
	if Digits(callingCode) == "" {
		return ValidateInternational(number)
	}
	return ValidateWithCountry(number, callingCode)
}

// ValidateInternational validates a number that must carry its own country
// code: a leading "+" followed by 7 to 15 digits.
func ValidateInternational(number string) ValidationResult {
	if number == "" {
		return invalid(MsgRequired)
	}

	cleaned := Clean(number)
	if !strings.HasPrefix(cleaned, "+") {
		return invalid(MsgMissingCountryCode)
	}

	digits := cleaned[1:]
	if len(digits) < minInternationalDigits {
		return invalid(MsgTooShort)
	}
	if len(digits) > maxInternationalDigits {
		return invalid(MsgTooLong)
	}
	return valid()
}

// ValidateWithCountry validates a number entered next to a selected calling code.
//
// Digit counts always include every digit typed, calling code included. When
// the digits start with the calling code the number is treated as a full
// international number of 10 to 15 digits; Kuwait additionally requires 8
// digits after +965, i.e. at least 11 in total. Otherwise it is a bare local
// number of 7 to 12 digits. Only the empty string is reported as required.
func ValidateWithCountry(number, callingCode string) ValidationResult {
	if number == "" {
		return invalid(MsgRequired)
	}

	code := Digits(callingCode)
	if code == "" {
		return ValidateInternational(number)
	}

	digits := Digits(number)

	if strings.HasPrefix(digits, code) {
		if len(digits) < minFullDigits {
			return invalid(fmt.Sprintf(msgFullTooShort, len(digits)))
		}
		if code == kuwaitCallingCode && len(digits) < kuwaitMinFullDigit {
			return invalid(fmt.Sprintf(msgKuwaitTooShort, len(digits)-len(code)))
		}
		if len(digits) > maxFullDigits {
			return invalid(MsgTooLong)
		}
		return valid()
	}

	if len(digits) < minLocalDigits {
		return invalid(fmt.Sprintf(msgLocalTooShort, len(digits)))
	}
	if len(digits) > maxLocalDigits {
		return invalid(MsgTooLong)
	}
	return valid()
}
