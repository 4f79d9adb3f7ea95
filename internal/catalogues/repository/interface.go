package repository

import (
	"context"

	"github.com/google/uuid"
)

// Catalogue is a titled, ordered collection of products.
type Catalogue struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	QRCodeURL   *string   `db:"qr_code_url"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
	Products    []Product
}

// Product is an entry of a catalogue. FileURL and Image hold either an
// absolute URL or an object storage key.
type Product struct {
	ID          uuid.UUID `db:"id"`
	CatalogueID uuid.UUID `db:"catalogue_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	FileURL     *string   `db:"file_url"`
	Image       *string   `db:"image"`
	Position    int       `db:"position"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// CatalogueParams contains data for creating or updating a catalogue.
type CatalogueParams struct {
	Title       string
	Description string
}

// ProductParams contains data for creating or updating a product.
type ProductParams struct {
	Name        string
	Description *string
	FileURL     *string
	Image       *string
}

// Repository defines catalogue persistence.
type Repository interface {
	ListCatalogues(ctx context.Context) ([]Catalogue, error)
	GetCatalogue(ctx context.Context, id uuid.UUID) (Catalogue, error)
	CreateCatalogue(ctx context.Context, params CatalogueParams) (Catalogue, error)
	UpdateCatalogue(ctx context.Context, id uuid.UUID, params CatalogueParams) (Catalogue, error)
	// DeleteCatalogue removes the catalogue with its products and returns the
	// products that were removed.
	DeleteCatalogue(ctx context.Context, id uuid.UUID) ([]Product, error)
	SetCatalogueQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error

	GetProduct(ctx context.Context, catalogueID, productID uuid.UUID) (Product, error)
	// CreateProduct appends a product, giving it the next position.
	CreateProduct(ctx context.Context, catalogueID uuid.UUID, params ProductParams) (Product, error)
	UpdateProduct(ctx context.Context, catalogueID, productID uuid.UUID, params ProductParams) (Product, error)
	DeleteProduct(ctx context.Context, catalogueID, productID uuid.UUID) (Product, error)
	// ReorderProducts sets each product's position to its index in
	// productIDs, atomically.
	ReorderProducts(ctx context.Context, catalogueID uuid.UUID, productIDs []uuid.UUID) error
}
