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

const vcardNotFoundMessage = "vcard not found"

const vcardColumns = `id, first_name, last_name, arabic_first_name, arabic_last_name, title, company,
	email, phone, website, address, city, state, country, zip_code, notes, logo_url,
	instagram, facebook, twitter, linkedin, youtube, tiktok, snapchat, telegram, whatsapp,
	logo_file_key, qr_code_url, created_at, updated_at`

const phoneColumns = `id, vcard_id, number, country, type, position`

// Repo implements the vCard repository.
type Repo struct {
	pool db.Querier
}

// New creates a new vCard repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func (f Fields) args() []any {
	return []any{
		f.FirstName, f.LastName, f.ArabicFirstName, f.ArabicLastName, f.Title, f.Company,
		f.Email, f.Phone, f.Website, f.Address, f.City, f.State, f.Country, f.ZipCode, f.Notes, f.LogoURL,
		f.Instagram, f.Facebook, f.Twitter, f.LinkedIn, f.YouTube, f.TikTok, f.Snapchat, f.Telegram, f.WhatsApp,
	}
}

func scanVCard(row pgx.Row) (VCard, error) {
	var v VCard
	var createdAt, updatedAt time.Time
	f := &v.Fields
	if err := row.Scan(
		&v.ID, &f.FirstName, &f.LastName, &f.ArabicFirstName, &f.ArabicLastName, &f.Title, &f.Company,
		&f.Email, &f.Phone, &f.Website, &f.Address, &f.City, &f.State, &f.Country, &f.ZipCode, &f.Notes, &f.LogoURL,
		&f.Instagram, &f.Facebook, &f.Twitter, &f.LinkedIn, &f.YouTube, &f.TikTok, &f.Snapchat, &f.Telegram, &f.WhatsApp,
		&v.LogoFileKey, &v.QRCodeURL, &createdAt, &updatedAt,
	); err != nil {
		return VCard{}, err
	}
	v.CreatedAt = createdAt.Format(time.RFC3339)
	v.UpdatedAt = updatedAt.Format(time.RFC3339)
	v.PhoneNumbers = []PhoneNumber{}
	return v, nil
}

// List lists vCards newest first with their phone numbers.
func (r *Repo) List(ctx context.Context) ([]VCard, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vcardColumns+` FROM vcards ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list vcards: %w", err)
	}
	defer rows.Close()

	items := make([]VCard, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		v, err := scanVCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vcard: %w", err)
		}
		items = append(items, v)
		ids = append(ids, v.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vcards: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	phones, err := r.listPhones(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if ps, ok := phones[items[i].ID]; ok {
			items[i].PhoneNumbers = ps
		}
	}
	return items, nil
}

func (r *Repo) listPhones(ctx context.Context, vcardIDs []uuid.UUID) (map[uuid.UUID][]PhoneNumber, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+phoneColumns+`
		FROM vcard_phone_numbers
		WHERE vcard_id = ANY($1)
		ORDER BY vcard_id, position`, vcardIDs)
	if err != nil {
		return nil, fmt.Errorf("list phone numbers: %w", err)
	}
	defer rows.Close()

	byVCard := make(map[uuid.UUID][]PhoneNumber, len(vcardIDs))
	for rows.Next() {
		var p PhoneNumber
		if err := rows.Scan(&p.ID, &p.VCardID, &p.Number, &p.Country, &p.Type, &p.Position); err != nil {
			return nil, fmt.Errorf("scan phone number: %w", err)
		}
		byVCard[p.VCardID] = append(byVCard[p.VCardID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phone numbers: %w", err)
	}
	return byVCard, nil
}

// Get retrieves a vCard with its phone numbers.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (VCard, error) {
	v, err := scanVCard(r.pool.QueryRow(ctx, `SELECT `+vcardColumns+` FROM vcards WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VCard{}, apperr.NotFound(vcardNotFoundMessage)
		}
		return VCard{}, fmt.Errorf("get vcard: %w", err)
	}

	phones, err := r.listPhones(ctx, []uuid.UUID{id})
	if err != nil {
		return VCard{}, err
	}
	if ps, ok := phones[id]; ok {
		v.PhoneNumbers = ps
	}
	return v, nil
}

// Create inserts a vCard and its phone numbers in one transaction.
func (r *Repo) Create(ctx context.Context, params SaveParams) (VCard, error) {
	var v VCard
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		v, err = scanVCard(tx.QueryRow(ctx, `
			INSERT INTO vcards (
				first_name, last_name, arabic_first_name, arabic_last_name, title, company,
				email, phone, website, address, city, state, country, zip_code, notes, logo_url,
				instagram, facebook, twitter, linkedin, youtube, tiktok, snapchat, telegram, whatsapp
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, $24, $25)
			RETURNING `+vcardColumns, params.Fields.args()...))
		if err != nil {
			return fmt.Errorf("create vcard: %w", err)
		}

		v.PhoneNumbers, err = insertPhones(ctx, tx, v.ID, params.PhoneNumbers)
		return err
	})
	if err != nil {
		return VCard{}, err
	}
	return v, nil
}

// Update replaces a vCard's fields and phone numbers in one transaction.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params SaveParams) (VCard, error) {
	var v VCard
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		args := append([]any{id}, params.Fields.args()...)
		var err error
		v, err = scanVCard(tx.QueryRow(ctx, `
			UPDATE vcards SET
				first_name = $2, last_name = $3, arabic_first_name = $4, arabic_last_name = $5,
				title = $6, company = $7, email = $8, phone = $9, website = $10, address = $11,
				city = $12, state = $13, country = $14, zip_code = $15, notes = $16, logo_url = $17,
				instagram = $18, facebook = $19, twitter = $20, linkedin = $21, youtube = $22,
				tiktok = $23, snapchat = $24, telegram = $25, whatsapp = $26,
				updated_at = now()
			WHERE id = $1
			RETURNING `+vcardColumns, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(vcardNotFoundMessage)
			}
			return fmt.Errorf("update vcard: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM vcard_phone_numbers WHERE vcard_id = $1`, id); err != nil {
			return fmt.Errorf("clear phone numbers: %w", err)
		}
		v.PhoneNumbers, err = insertPhones(ctx, tx, id, params.PhoneNumbers)
		return err
	})
	if err != nil {
		return VCard{}, err
	}
	return v, nil
}

func insertPhones(ctx context.Context, tx pgx.Tx, vcardID uuid.UUID, phones []PhoneParams) ([]PhoneNumber, error) {
	out := make([]PhoneNumber, 0, len(phones))
	for i, p := range phones {
		stored := PhoneNumber{VCardID: vcardID, Number: p.Number, Country: p.Country, Type: p.Type, Position: i}
		if err := tx.QueryRow(ctx, `
			INSERT INTO vcard_phone_numbers (vcard_id, number, country, type, position)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`, vcardID, p.Number, p.Country, p.Type, i).Scan(&stored.ID); err != nil {
			return nil, fmt.Errorf("insert phone number: %w", err)
		}
		out = append(out, stored)
	}
	return out, nil
}

// Delete deletes a vCard and returns it. Phone numbers cascade.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (VCard, error) {
	v, err := scanVCard(r.pool.QueryRow(ctx, `DELETE FROM vcards WHERE id = $1 RETURNING `+vcardColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VCard{}, apperr.NotFound(vcardNotFoundMessage)
		}
		return VCard{}, fmt.Errorf("delete vcard: %w", err)
	}
	return v, nil
}

// SetQRCode stores the rendered QR code of a vCard.
func (r *Repo) SetQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error {
	result, err := r.pool.Exec(ctx, `UPDATE vcards SET qr_code_url = $2, updated_at = now() WHERE id = $1`, id, qrCodeURL)
	if err != nil {
		return fmt.Errorf("set vcard qr code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vcardNotFoundMessage)
	}
	return nil
}

// SetLogoFileKey stores or clears the uploaded logo of a vCard.
func (r *Repo) SetLogoFileKey(ctx context.Context, id uuid.UUID, fileKey *string) error {
	result, err := r.pool.Exec(ctx, `UPDATE vcards SET logo_file_key = $2, updated_at = now() WHERE id = $1`, id, fileKey)
	if err != nil {
		return fmt.Errorf("set vcard logo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(vcardNotFoundMessage)
	}
	return nil
}
