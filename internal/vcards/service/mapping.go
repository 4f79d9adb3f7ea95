package service

import (
	"cardshare_backend/internal/vcards/repository"
	"cardshare_backend/internal/vcards/transport"
	"cardshare_backend/internal/vcards/vcf"
)

func (s *Service) toResponse(v repository.VCard) transport.VCardResponse {
	phones := make([]transport.PhoneNumberResponse, 0, len(v.PhoneNumbers))
	for _, p := range v.PhoneNumbers {
		resp := transport.PhoneNumberResponse{
			ID:      p.ID,
			Number:  p.Number,
			Country: p.Country,
			Type:    p.Type,
			Order:   p.Position,
			Display: s.countries.FormatForDisplay(p.Number),
		}
		if link, ok := s.countries.MessagingDeepLink(p.Number); ok {
			resp.WhatsAppURL = &link
		}
		phones = append(phones, resp)
	}

	f := v.Fields
	return transport.VCardResponse{
		ID:              v.ID,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		ArabicFirstName: f.ArabicFirstName,
		ArabicLastName:  f.ArabicLastName,
		Title:           f.Title,
		Company:         f.Company,
		Email:           f.Email,
		Phone:           f.Phone,
		Website:         f.Website,
		Address:         f.Address,
		City:            f.City,
		State:           f.State,
		Country:         f.Country,
		ZipCode:         f.ZipCode,
		Notes:           f.Notes,
		LogoURL:         f.LogoURL,
		LogoFileKey:     v.LogoFileKey,
		Instagram:       f.Instagram,
		Facebook:        f.Facebook,
		Twitter:         f.Twitter,
		LinkedIn:        f.LinkedIn,
		YouTube:         f.YouTube,
		TikTok:          f.TikTok,
		Snapchat:        f.Snapchat,
		Telegram:        f.Telegram,
		WhatsApp:        f.WhatsApp,
		QRCodeURL:       v.QRCodeURL,
		PhoneNumbers:    phones,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// toContact hydrates the serializer input from a stored vCard.
func toContact(v repository.VCard) vcf.Contact {
	c := vcf.Contact{
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Title:     deref(v.Title),
		Company:   deref(v.Company),
		Email:     deref(v.Email),
		Phone:     deref(v.Phone),
		Website:   deref(v.Website),
		Address:   deref(v.Address),
		City:      deref(v.City),
		State:     deref(v.State),
		ZipCode:   deref(v.ZipCode),
		Country:   deref(v.Country),
		Notes:     deref(v.Notes),
	}
	for _, p := range v.PhoneNumbers {
		c.Phones = append(c.Phones, vcf.Phone{Number: p.Number, Type: p.Type})
	}
	return c
}

// fromContact turns a parsed card into a save request. Numbers carrying a
// recognised calling code get their country filled in.
func (s *Service) fromContact(c vcf.Contact) transport.VCardRequest {
	req := transport.VCardRequest{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Title:     ptr(c.Title),
		Company:   ptr(c.Company),
		Email:     ptr(c.Email),
		Phone:     ptr(c.Phone),
		Website:   ptr(c.Website),
		Address:   ptr(c.Address),
		City:      ptr(c.City),
		State:     ptr(c.State),
		ZipCode:   ptr(c.ZipCode),
		Country:   ptr(c.Country),
		Notes:     ptr(c.Notes),
	}
	for _, p := range c.Phones {
		entry := transport.PhoneNumberRequest{Number: p.Number, Type: p.Type}
		if country, ok := s.countries.Detect(p.Number); ok {
			entry.Country = country.Name
		}
		req.PhoneNumbers = append(req.PhoneNumbers, entry)
	}
	return req
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
