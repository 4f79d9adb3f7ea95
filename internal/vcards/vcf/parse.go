package vcf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"
)

const fieldWhatsApp = "X-WHATSAPP"

// ErrNoCard is returned when the input does not contain a vCard.
var ErrNoCard = errors.New("vcf: no vcard found")

// Parse decodes the first vCard of r into a Contact. Cards produced by
// Serialize parse back to the same names, phone numbers and tags.
func Parse(r io.Reader) (Contact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Contact{}, fmt.Errorf("read vcard: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return Contact{}, ErrNoCard
	}

	// the decoder needs every line terminated, Serialize output is not
	card, err := vcard.NewDecoder(strings.NewReader(text + "\n")).Decode()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Contact{}, ErrNoCard
		}
		return Contact{}, fmt.Errorf("decode vcard: %w", err)
	}

	var c Contact
	if name := card.Name(); name != nil {
		c.FirstName = name.GivenName
		c.LastName = name.FamilyName
	}
	if c.FirstName == "" && c.LastName == "" {
		c.FirstName, c.LastName = splitFormattedName(card.Value(vcard.FieldFormattedName))
	}

	c.Title = card.Value(vcard.FieldTitle)
	if org := card.Value(vcard.FieldOrganization); org != "" {
		c.Company = strings.Split(org, ";")[0]
	}
	c.Email = card.Value(vcard.FieldEmail)
	c.Website = card.Value(vcard.FieldURL)
	c.Notes = card.Value(vcard.FieldNote)
	c.Phones = parsePhones(card)

	if addresses := card.Addresses(); len(addresses) > 0 {
		addr := addresses[0]
		c.Address = addr.StreetAddress
		c.City = addr.Locality
		c.State = addr.Region
		c.ZipCode = addr.PostalCode
		c.Country = addr.Country
	}

	return c, nil
}

func parsePhones(card vcard.Card) []Phone {
	whatsApp := make(map[string]bool)
	for _, f := range card[fieldWhatsApp] {
		whatsApp[strings.TrimSpace(f.Value)] = true
	}

	phones := make([]Phone, 0, len(card[vcard.FieldTelephone]))
	paired := make(map[string]bool)
	for _, f := range card[vcard.FieldTelephone] {
		number := strings.TrimSpace(f.Value)
		if number == "" {
			continue
		}
		types := f.Params.Types()
		tag := tagFromTypes(types)
		if hasType(types, "cell") && whatsApp[number] && !paired[number] {
			tag = TagWhatsApp
			paired[number] = true
		}
		phones = append(phones, Phone{Number: number, Type: tag})
	}

	// messaging numbers without a matching cell line
	for _, f := range card[fieldWhatsApp] {
		number := strings.TrimSpace(f.Value)
		if number == "" || paired[number] {
			continue
		}
		paired[number] = true
		phones = append(phones, Phone{Number: number, Type: TagWhatsApp})
	}

	return phones
}

func tagFromTypes(types []string) string {
	for _, t := range types {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "cell", TagMobile:
			return TagMobile
		case TagFax:
			return TagFax
		case TagHome:
			return TagHome
		case TagWhatsApp:
			return TagWhatsApp
		}
	}
	return TagOffice
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

func splitFormattedName(fn string) (string, string) {
	fn = strings.TrimSpace(fn)
	first, last, found := strings.Cut(fn, " ")
	if !found {
		return fn, ""
	}
	return first, strings.TrimSpace(last)
}
