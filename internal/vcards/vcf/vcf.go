// Package vcf renders and parses the vCard 3.0 text exported for business cards.
package vcf

import (
	"strings"
)

// MediaType is the content type used for .vcf downloads.
const MediaType = "text/vcard"

// Phone tags understood by the serializer. Any other tag is uppercased verbatim.
const (
	TagOffice   = "office"
	TagMobile   = "mobile"
	TagWhatsApp = "whatsapp"
	TagFax      = "fax"
	TagHome     = "home"
)

const defaultTelType = "VOICE"

// Phone is one phone entry of a contact in stored order.
type Phone struct {
	Number string
	Type   string
}

// Contact is the hydrated card that gets serialized.
// Phone is the legacy single number, only emitted when Phones is empty.
type Contact struct {
	FirstName string
	LastName  string
	Title     string
	Company   string
	Email     string
	Phone     string
	Phones    []Phone
	Website   string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
	Notes     string
}

// Serialize renders c as a vCard 3.0 document. Lines are separated by "\n" and
// the document ends with END:VCARD without a trailing newline. The output only
// depends on c.
func Serialize(c Contact) string {
	var b strings.Builder
	line := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(escape(value))
	}
	optional := func(name, value string) {
		if value != "" {
			line(name, value)
		}
	}

	b.WriteString("BEGIN:VCARD")
	line("VERSION", "3.0")
	line("FN", c.FirstName+" "+c.LastName)
	line("N", c.LastName+";"+c.FirstName+";;;")
	optional("TITLE", c.Title)
	optional("ORG", c.Company)
	optional("EMAIL", c.Email)

	if len(c.Phones) > 0 {
		for _, p := range c.Phones {
			if strings.EqualFold(p.Type, TagWhatsApp) {
				line("TEL;TYPE=CELL", p.Number)
				line("X-WHATSAPP", p.Number)
				continue
			}
			line("TEL;TYPE="+telType(p.Type), p.Number)
		}
	} else if c.Phone != "" {
		line("TEL", c.Phone)
	}

	optional("URL", c.Website)
	if addr := AssembleAddress(c.Address, c.City, c.State, c.ZipCode, c.Country); addr != "" {
		line("ADR", ";;"+addr+";;;")
	}
	optional("NOTE", c.Notes)
	line("END", "VCARD")

	return b.String()
}

// AssembleAddress joins the non-empty address parts with ", ". The postal
// code is joined to what precedes it with a single space.
func AssembleAddress(street, city, state, zipCode, country string) string {
	var b strings.Builder
	appendPart := func(part, sep string) {
		if part == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
	}

	appendPart(street, ", ")
	appendPart(city, ", ")
	appendPart(state, ", ")
	appendPart(zipCode, " ")
	appendPart(country, ", ")
	return b.String()
}

func telType(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return defaultTelType
	}
	return strings.ToUpper(tag)
}

// escape keeps every property on one line.
func escape(value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	return strings.ReplaceAll(value, "\n", `\n`)
}
