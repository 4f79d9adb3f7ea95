package transport

import "cardshare_backend/platform/phone"

type ValidateRequest struct {
	Number  string `json:"number" validate:"max=64"`
	Country string `json:"country" validate:"max=64"`
}

type ValidateResponse struct {
	IsValid       bool           `json:"isValid"`
	Error         string         `json:"error,omitempty"`
	Canonical     string         `json:"canonical,omitempty"`
	Display       string         `json:"display"`
	WhatsAppURL   string         `json:"whatsappUrl,omitempty"`
	International string         `json:"international,omitempty"`
	Country       *phone.Country `json:"country,omitempty"`
}

type CountriesResponse struct {
	Countries []phone.Country `json:"countries"`
}
