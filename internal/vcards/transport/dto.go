package transport

import (
	"time"

	"github.com/google/uuid"
)

// VCards

type PhoneNumberRequest struct {
	Number  string `json:"number" validate:"required,max=32"`
	Country string `json:"country" validate:"max=64"`
	Type    string `json:"type" validate:"phonetag"`
}

type VCardRequest struct {
	FirstName       string               `json:"firstName" validate:"required,max=100"`
	LastName        string               `json:"lastName" validate:"required,max=100"`
	ArabicFirstName *string              `json:"arabicFirstName,omitempty" validate:"omitempty,max=100"`
	ArabicLastName  *string              `json:"arabicLastName,omitempty" validate:"omitempty,max=100"`
	Title           *string              `json:"title,omitempty" validate:"omitempty,max=200"`
	Company         *string              `json:"company,omitempty" validate:"omitempty,max=200"`
	Email           *string              `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone           *string              `json:"phone,omitempty" validate:"omitempty,max=32"`
	Website         *string              `json:"website,omitempty" validate:"omitempty,max=2048"`
	Address         *string              `json:"address,omitempty" validate:"omitempty,max=500"`
	City            *string              `json:"city,omitempty" validate:"omitempty,max=100"`
	State           *string              `json:"state,omitempty" validate:"omitempty,max=100"`
	Country         *string              `json:"country,omitempty" validate:"omitempty,max=100"`
	ZipCode         *string              `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Notes           *string              `json:"notes,omitempty" validate:"omitempty,max=2000"`
	LogoURL         *string              `json:"logoUrl,omitempty" validate:"omitempty,max=2048"`
	Instagram       *string              `json:"instagram,omitempty" validate:"omitempty,max=2048"`
	Facebook        *string              `json:"facebook,omitempty" validate:"omitempty,max=2048"`
	Twitter         *string              `json:"twitter,omitempty" validate:"omitempty,max=2048"`
	LinkedIn        *string              `json:"linkedin,omitempty" validate:"omitempty,max=2048"`
	YouTube         *string              `json:"youtube,omitempty" validate:"omitempty,max=2048"`
	TikTok          *string              `json:"tiktok,omitempty" validate:"omitempty,max=2048"`
	Snapchat        *string              `json:"snapchat,omitempty" validate:"omitempty,max=2048"`
	Telegram        *string              `json:"telegram,omitempty" validate:"omitempty,max=2048"`
	WhatsApp        *string              `json:"whatsapp,omitempty" validate:"omitempty,max=2048"`
	PhoneNumbers    []PhoneNumberRequest `json:"phoneNumbers" validate:"max=20,dive"`
}

type PhoneNumberResponse struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	Country     *string   `json:"country"`
	Type        string    `json:"type"`
	Order       int       `json:"order"`
	Display     string    `json:"display"`
	WhatsAppURL *string   `json:"whatsappUrl"`
}

type VCardResponse struct {
	ID              uuid.UUID             `json:"id"`
	FirstName       string                `json:"firstName"`
	LastName        string                `json:"lastName"`
	ArabicFirstName *string               `json:"arabicFirstName"`
	ArabicLastName  *string               `json:"arabicLastName"`
	Title           *string               `json:"title"`
	Company         *string               `json:"company"`
	Email           *string               `json:"email"`
	Phone           *string               `json:"phone"`
	Website         *string               `json:"website"`
	Address         *string               `json:"address"`
	City            *string               `json:"city"`
	State           *string               `json:"state"`
	Country         *string               `json:"country"`
	ZipCode         *string               `json:"zipCode"`
	Notes           *string               `json:"notes"`
	LogoURL         *string               `json:"logoUrl"`
	LogoFileKey     *string               `json:"logoFileKey"`
	Instagram       *string               `json:"instagram"`
	Facebook        *string               `json:"facebook"`
	Twitter         *string               `json:"twitter"`
	LinkedIn        *string               `json:"linkedin"`
	YouTube         *string               `json:"youtube"`
	TikTok          *string               `json:"tiktok"`
	Snapchat        *string               `json:"snapchat"`
	Telegram        *string               `json:"telegram"`
	WhatsApp        *string               `json:"whatsapp"`
	QRCodeURL       *string               `json:"qrCodeUrl"`
	PhoneNumbers    []PhoneNumberResponse `json:"phoneNumbers"`
	CreatedAt       string                `json:"createdAt"`
	UpdatedAt       string                `json:"updatedAt"`
}

// PhoneWarning reports a stored phone entry that failed validation.
type PhoneWarning struct {
	Index  int    `json:"index"`
	Number string `json:"number"`
	Error  string `json:"error"`
}

// SaveVCardResponse is returned by create, update and import.
type SaveVCardResponse struct {
	VCardResponse
	Warnings []PhoneWarning `json:"warnings,omitempty"`
}

// QR codes

type QRCodeResponse struct {
	QRCodeURL   string `json:"qrCodeUrl"`
	VCardURL    string `json:"vcardUrl"`
	VCardString string `json:"vcardString"`
}

// Logos

type PresignLogoRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=255"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

type PresignLogoResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SetLogoRequest struct {
	FileKey string `json:"fileKey" validate:"required,max=512"`
}

type LogoDownloadResponse struct {
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
