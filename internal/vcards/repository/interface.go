package repository

import (
	"context"

	"github.com/google/uuid"
)

// VCard is a stored business card.
type VCard struct {
	ID uuid.UUID `db:"id"`
	Fields
	LogoFileKey  *string `db:"logo_file_key"`
	QRCodeURL    *string `db:"qr_code_url"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
	PhoneNumbers []PhoneNumber
}

// Fields are the user-editable columns of a vCard.
type Fields struct {
	FirstName       string  `db:"first_name"`
	LastName        string  `db:"last_name"`
	ArabicFirstName *string `db:"arabic_first_name"`
	ArabicLastName  *string `db:"arabic_last_name"`
	Title           *string `db:"title"`
	Company         *string `db:"company"`
	Email           *string `db:"email"`
	Phone           *string `db:"phone"`
	Website         *string `db:"website"`
	Address         *string `db:"address"`
	City            *string `db:"city"`
	State           *string `db:"state"`
	Country         *string `db:"country"`
	ZipCode         *string `db:"zip_code"`
	Notes           *string `db:"notes"`
	LogoURL         *string `db:"logo_url"`
	Instagram       *string `db:"instagram"`
	Facebook        *string `db:"facebook"`
	Twitter         *string `db:"twitter"`
	LinkedIn        *string `db:"linkedin"`
	YouTube         *string `db:"youtube"`
	TikTok          *string `db:"tiktok"`
	Snapchat        *string `db:"snapchat"`
	Telegram        *string `db:"telegram"`
	WhatsApp        *string `db:"whatsapp"`
}

// PhoneNumber is one entry of a vCard's phone list.
type PhoneNumber struct {
	ID       uuid.UUID `db:"id"`
	VCardID  uuid.UUID `db:"vcard_id"`
	Number   string    `db:"number"`
	Country  *string   `db:"country"`
	Type     string    `db:"type"`
	Position int       `db:"position"`
}

// PhoneParams is a phone entry to store. Position is its index.
type PhoneParams struct {
	Number  string
	Country *string
	Type    string
}

// SaveParams contains everything written on create and update.
type SaveParams struct {
	Fields
	PhoneNumbers []PhoneParams
}

// Repository defines vCard persistence.
type Repository interface {
	List(ctx context.Context) ([]VCard, error)
	Get(ctx context.Context, id uuid.UUID) (VCard, error)
	Create(ctx context.Context, params SaveParams) (VCard, error)
	// Update replaces the fields and the whole phone list atomically.
	Update(ctx context.Context, id uuid.UUID, params SaveParams) (VCard, error)
	Delete(ctx context.Context, id uuid.UUID) (VCard, error)
	SetQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error
	SetLogoFileKey(ctx context.Context, id uuid.UUID, fileKey *string) error
}
