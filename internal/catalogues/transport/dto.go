package transport

import (
	"time"

	"github.com/google/uuid"
)

// Catalogues

type CatalogueRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
}

type CatalogueResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	QRCodeURL   *string           `json:"qrCodeUrl"`
	Products    []ProductResponse `json:"products"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// Products

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	FileURL     *string `json:"fileUrl,omitempty" validate:"omitempty,max=2048"`
	Image       *string `json:"image,omitempty" validate:"omitempty,max=2048"`
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	CatalogueID uuid.UUID `json:"catalogueId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	FileURL     *string   `json:"fileUrl"`
	Image       *string   `json:"image"`
	Order       int       `json:"order"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

type ReorderProductsRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" validate:"required"`
}

// QR codes

type CatalogueQRCodeResponse struct {
	QRCodeURL string            `json:"qrCodeUrl"`
	Catalogue CatalogueResponse `json:"catalogue"`
}

type ProductQRCodeResponse struct {
	QRCodeURL  string             `json:"qrCodeUrl"`
	ProductURL string             `json:"productUrl"`
	Product    ProductQRProduct   `json:"product"`
	Catalogue  ProductQRCatalogue `json:"catalogue"`
}

type ProductQRProduct struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
}

type ProductQRCatalogue struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// Files

type PresignFileRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=255"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

type PresignFileResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
