package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/db"
)

const (
	catalogueNotFoundMessage = "catalogue not found"
	productNotFoundMessage   = "product not found"
)

const catalogueColumns = `id, title, description, qr_code_url, created_at, updated_at`

const productColumns = `id, catalogue_id, name, description, file_url, image, position, created_at, updated_at`

// Repo implements the catalogue repository.
type Repo struct {
	pool db.Querier
}

// New creates a new catalogue repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanCatalogue(row pgx.Row) (Catalogue, error) {
	var c Catalogue
	var createdAt, updatedAt time.Time
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.QRCodeURL, &createdAt, &updatedAt); err != nil {
		return Catalogue{}, err
	}
	c.CreatedAt = createdAt.Format(time.RFC3339)
	c.UpdatedAt = updatedAt.Format(time.RFC3339)
	c.Products = []Product{}
	return c, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&p.ID, &p.CatalogueID, &p.Name, &p.Description, &p.FileURL, &p.Image, &p.Position, &createdAt, &updatedAt,
	); err != nil {
		return Product{}, err
	}
	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

// ListCatalogues lists catalogues newest first, each with its products in order.
func (r *Repo) ListCatalogues(ctx context.Context) ([]Catalogue, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+catalogueColumns+` FROM catalogues ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list catalogues: %w", err)
	}
	defer rows.Close()

	items := make([]Catalogue, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		c, err := scanCatalogue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalogue: %w", err)
		}
		items = append(items, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalogues: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	products, err := r.listProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if ps, ok := products[items[i].ID]; ok {
			items[i].Products = ps
		}
	}
	return items, nil
}

func (r *Repo) listProducts(ctx context.Context, catalogueIDs []uuid.UUID) (map[uuid.UUID][]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM catalogue_products
		WHERE catalogue_id = ANY($1)
		ORDER BY catalogue_id, position, created_at`, catalogueIDs)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	byCatalogue := make(map[uuid.UUID][]Product, len(catalogueIDs))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		byCatalogue[p.CatalogueID] = append(byCatalogue[p.CatalogueID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return byCatalogue, nil
}

// GetCatalogue retrieves a catalogue with its products.
func (r *Repo) GetCatalogue(ctx context.Context, id uuid.UUID) (Catalogue, error) {
	c, err := scanCatalogue(r.pool.QueryRow(ctx, `SELECT `+catalogueColumns+` FROM catalogues WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Catalogue{}, apperr.NotFound(catalogueNotFoundMessage)
		}
		return Catalogue{}, fmt.Errorf("get catalogue: %w", err)
	}

	products, err := r.listProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return Catalogue{}, err
	}
	if ps, ok := products[id]; ok {
		c.Products = ps
	}
	return c, nil
}

// CreateCatalogue creates a catalogue.
func (r *Repo) CreateCatalogue(ctx context.Context, params CatalogueParams) (Catalogue, error) {
	c, err := scanCatalogue(r.pool.QueryRow(ctx, `
		INSERT INTO catalogues (title, description)
		VALUES ($1, $2)
		RETURNING `+catalogueColumns, params.Title, params.Description))
	if err != nil {
		return Catalogue{}, fmt.Errorf("create catalogue: %w", err)
	}
	return c, nil
}

// UpdateCatalogue replaces a catalogue's title and description.
func (r *Repo) UpdateCatalogue(ctx context.Context, id uuid.UUID, params CatalogueParams) (Catalogue, error) {
	c, err := scanCatalogue(r.pool.QueryRow(ctx, `
		UPDATE catalogues
		SET title = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+catalogueColumns, id, params.Title, params.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Catalogue{}, apperr.NotFound(catalogueNotFoundMessage)
		}
		return Catalogue{}, fmt.Errorf("update catalogue: %w", err)
	}

	products, err := r.listProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return Catalogue{}, err
	}
	if ps, ok := products[id]; ok {
		c.Products = ps
	}
	return c, nil
}

// DeleteCatalogue deletes a catalogue; its products go with it.
func (r *Repo) DeleteCatalogue(ctx context.Context, id uuid.UUID) ([]Product, error) {
	var removed []Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+productColumns+`
			FROM catalogue_products
			WHERE catalogue_id = $1
			ORDER BY position`, id)
		if err != nil {
			return fmt.Errorf("list catalogue products: %w", err)
		}
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("scan product: %w", err)
			}
			removed = append(removed, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate products: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM catalogues WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete catalogue: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound(catalogueNotFoundMessage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// SetCatalogueQRCode stores the rendered QR code of a catalogue.
func (r *Repo) SetCatalogueQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error {
	result, err := r.pool.Exec(ctx, `UPDATE catalogues SET qr_code_url = $2, updated_at = now() WHERE id = $1`, id, qrCodeURL)
	if err != nil {
		return fmt.Errorf("set catalogue qr code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(catalogueNotFoundMessage)
	}
	return nil
}

// GetProduct retrieves a product that belongs to the catalogue.
func (r *Repo) GetProduct(ctx context.Context, catalogueID, productID uuid.UUID) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM catalogue_products
		WHERE id = $1 AND catalogue_id = $2`, productID, catalogueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a product after the catalogue's current products.
// No row comes back when the catalogue does not exist.
func (r *Repo) CreateProduct(ctx context.Context, catalogueID uuid.UUID, params ProductParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		INSERT INTO catalogue_products (catalogue_id, name, description, file_url, image, position)
		SELECT c.id, $2, $3, $4, $5,
			(SELECT COUNT(*) FROM catalogue_products p WHERE p.catalogue_id = c.id)
		FROM catalogues c
		WHERE c.id = $1
		RETURNING `+productColumns,
		catalogueID, params.Name, params.Description, params.FileURL, params.Image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(catalogueNotFoundMessage)
		}
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces a product's fields.
func (r *Repo) UpdateProduct(ctx context.Context, catalogueID, productID uuid.UUID, params ProductParams) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		UPDATE catalogue_products
		SET name = $3, description = $4, file_url = $5, image = $6, updated_at = now()
		WHERE id = $1 AND catalogue_id = $2
		RETURNING `+productColumns,
		productID, catalogueID, params.Name, params.Description, params.FileURL, params.Image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// DeleteProduct deletes a product and returns it.
func (r *Repo) DeleteProduct(ctx context.Context, catalogueID, productID uuid.UUID) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `
		DELETE FROM catalogue_products
		WHERE id = $1 AND catalogue_id = $2
		RETURNING `+productColumns, productID, catalogueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}

// ReorderProducts assigns positions by index in one transaction. Any id
// that is not a product of the catalogue aborts the whole reorder.
func (r *Repo) ReorderProducts(ctx context.Context, catalogueID uuid.UUID, productIDs []uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i, productID := range productIDs {
			result, err := tx.Exec(ctx, `
				UPDATE catalogue_products
				SET position = $3, updated_at = now()
				WHERE id = $1 AND catalogue_id = $2`, productID, catalogueID, i)
			if err != nil {
				return fmt.Errorf("reorder products: %w", err)
			}
			if result.RowsAffected() == 0 {
				return apperr.NotFound(productNotFoundMessage).WithDetails(productID)
			}
		}
		return nil
	})
}
