package phone

import "strings"

const whatsAppBaseURL = "https://wa.me/"

// MessagingDeepLink returns a WhatsApp click-to-chat URL for number.
// A number without "+" is only accepted when prefixing it with "+" yields a
// known calling code; the result is never produced for numbers that
// ValidateInternational rejects.
func (t *Table) MessagingDeepLink(number string) (string, bool) {
	cleaned := Clean(number)
	if cleaned == "" {
		return "", false
	}

	if !strings.HasPrefix(cleaned, "+") {
		if _, ok := t.Detect("+" + cleaned); !ok {
			return "", false
		}
		cleaned = "+" + cleaned
	}

	if !ValidateInternational(cleaned).IsValid {
		return "", false
	}

	return whatsAppBaseURL + strings.TrimPrefix(cleaned, "+"), true
}

// FormatForDisplay prefixes a valid international number with the flag of its
// detected country. Anything else is returned unchanged.
func (t *Table) FormatForDisplay(number string) string {
	if !ValidateInternational(number).IsValid {
		return number
	}
	if c, ok := t.Detect(number); ok {
		return c.Flag + " " + number
	}
	return number
}

// MessagingDeepLink uses the built-in table.
func MessagingDeepLink(number string) (string, bool) {
	return defaultTable.MessagingDeepLink(number)
}

// FormatForDisplay uses the built-in table.
func FormatForDisplay(number string) string {
	return defaultTable.FormatForDisplay(number)
}
