package service

import (
	"strings"

	"cardshare_backend/internal/phones/transport"
	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/phone"
)

// Service answers phone number questions against a country table.
type Service struct {
	countries *phone.Table
}

// New creates a phone service. A nil table selects the built-in one.
func New(countries *phone.Table) *Service {
	if countries == nil {
		countries = phone.Default()
	}
	return &Service{countries: countries}
}

// Countries returns the table in display order.
func (s *Service) Countries() transport.CountriesResponse {
	return transport.CountriesResponse{Countries: s.countries.Countries()}
}

// Validate checks number as entered next to an optional country and
// returns its canonical form with display helpers.
func (s *Service) Validate(req transport.ValidateRequest) (transport.ValidateResponse, error) {
	callingCode := ""
	canonical := phone.Clean(req.Number)
	if name := strings.TrimSpace(req.Country); name != "" {
		c, ok := s.countries.Lookup(name)
		if !ok {
			return transport.ValidateResponse{}, apperr.Validation("unknown country").WithDetails(name)
		}
		callingCode = c.CallingCode
		canonical = phone.FullInternationalNumber(req.Number, c.CallingCode)
	}

	result := phone.Validate(req.Number, callingCode)
	resp := transport.ValidateResponse{
		IsValid:   result.IsValid,
		Error:     result.Error,
		Canonical: canonical,
		Display:   s.countries.FormatForDisplay(canonical),
	}
	if link, ok := s.countries.MessagingDeepLink(canonical); ok {
		resp.WhatsAppURL = link
	}
	if formatted, ok := phone.InternationalFormat(canonical); ok {
		resp.International = formatted
	}
	if c, ok := s.countries.Detect(canonical); ok {
		resp.Country = &c
	}
	return resp, nil
}
