package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardshare_backend/platform/apperr"
)

var (
	vcardCols = []string{
		"id", "first_name", "last_name", "arabic_first_name", "arabic_last_name", "title", "company",
		"email", "phone", "website", "address", "city", "state", "country", "zip_code", "notes", "logo_url",
		"instagram", "facebook", "twitter", "linkedin", "youtube", "tiktok", "snapchat", "telegram", "whatsapp",
		"logo_file_key", "qr_code_url", "created_at", "updated_at",
	}
	phoneCols = []string{"id", "vcard_id", "number", "country", "type", "position"}
	now       = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func strPtr(s string) *string { return &s }

// vcardRow returns a row with every optional column NULL except company.
func vcardRow(id uuid.UUID, first, last string, logoKey, qr *string) []any {
	row := []any{id, first, last}
	for i := 0; i < 23; i++ {
		row = append(row, (*string)(nil))
	}
	row[6] = strPtr("Acme")
	return append(row, logoKey, qr, now, now)
}

func TestGetVCard(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM vcards WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(vcardCols).AddRow(vcardRow(id, "Jane", "Doe", nil, strPtr("data:image/png;base64,x"))...))
	mock.ExpectQuery(`FROM vcard_phone_numbers`).
		WithArgs([]uuid.UUID{id}).
		WillReturnRows(pgxmock.NewRows(phoneCols).
			AddRow(p1, id, "+96550123456", strPtr("Kuwait"), "mobile", 0).
			AddRow(p2, id, "+442079460958", (*string)(nil), "office", 1))

	v, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", v.FirstName)
	require.NotNil(t, v.Company)
	assert.Equal(t, "Acme", *v.Company)
	assert.Nil(t, v.Title)
	require.NotNil(t, v.QRCodeURL)
	assert.Equal(t, "2026-03-01T10:00:00Z", v.UpdatedAt)
	require.Len(t, v.PhoneNumbers, 2)
	assert.Equal(t, "mobile", v.PhoneNumbers[0].Type)
	assert.Equal(t, 1, v.PhoneNumbers[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVCardNotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM vcards`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttachesPhones(t *testing.T) {
	repo, mock := newMock(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM vcards ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(vcardCols).
			AddRow(vcardRow(a, "Jane", "Doe", nil, nil)...).
			AddRow(vcardRow(b, "Sam", "Lee", nil, nil)...))
	mock.ExpectQuery(`FROM vcard_phone_numbers`).
		WithArgs([]uuid.UUID{a, b}).
		WillReturnRows(pgxmock.NewRows(phoneCols).AddRow(uuid.New(), b, "+14155550100", (*string)(nil), "fax", 0))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Empty(t, items[0].PhoneNumbers)
	assert.NotNil(t, items[0].PhoneNumbers)
	require.Len(t, items[1].PhoneNumbers, 1)
	assert.Equal(t, "fax", items[1].PhoneNumbers[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// fieldArgs lists the values bound for Fields, in column order. Only the
// names and company are set.
func fieldArgs(first, last string, company *string) []any {
	args := []any{first, last}
	for i := 0; i < 23; i++ {
		if i == 3 {
			args = append(args, company)
			continue
		}
		args = append(args, (*string)(nil))
	}
	return args
}

func TestCreateInsertsPhonesInOrder(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO vcards`).
		WithArgs(fieldArgs("Jane", "Doe", strPtr("Acme"))...).
		WillReturnRows(pgxmock.NewRows(vcardCols).AddRow(vcardRow(id, "Jane", "Doe", nil, nil)...))
	mock.ExpectQuery(`INSERT INTO vcard_phone_numbers`).
		WithArgs(id, "+96550123456", strPtr("Kuwait"), "mobile", 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(p1))
	mock.ExpectQuery(`INSERT INTO vcard_phone_numbers`).
		WithArgs(id, "+442079460958", (*string)(nil), "office", 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(p2))
	mock.ExpectCommit()

	v, err := repo.Create(context.Background(), SaveParams{
		Fields: Fields{FirstName: "Jane", LastName: "Doe", Company: strPtr("Acme")},
		PhoneNumbers: []PhoneParams{
			{Number: "+96550123456", Country: strPtr("Kuwait"), Type: "mobile"},
			{Number: "+442079460958", Type: "office"},
		},
	})
	require.NoError(t, err)
	require.Len(t, v.PhoneNumbers, 2)
	assert.Equal(t, p1, v.PhoneNumbers[0].ID)
	assert.Equal(t, p2, v.PhoneNumbers[1].ID)
	assert.Equal(t, 1, v.PhoneNumbers[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReplacesPhones(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE vcards SET`).
		WithArgs(append([]any{id}, fieldArgs("Jane", "Roe", nil)...)...).
		WillReturnRows(pgxmock.NewRows(vcardCols).AddRow(vcardRow(id, "Jane", "Roe", nil, nil)...))
	mock.ExpectExec(`DELETE FROM vcard_phone_numbers WHERE vcard_id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectQuery(`INSERT INTO vcard_phone_numbers`).
		WithArgs(id, "+14155550100", (*string)(nil), "fax", 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	v, err := repo.Update(context.Background(), id, SaveParams{
		Fields:       Fields{FirstName: "Jane", LastName: "Roe"},
		PhoneNumbers: []PhoneParams{{Number: "+14155550100", Type: "fax"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Roe", v.LastName)
	require.Len(t, v.PhoneNumbers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFoundRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE vcards SET`).
		WithArgs(append([]any{id}, fieldArgs("A", "B", nil)...)...).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), id, SaveParams{Fields: Fields{FirstName: "A", LastName: "B"}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReturnsLogoKey(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`DELETE FROM vcards WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(vcardCols).AddRow(vcardRow(id, "Jane", "Doe", strPtr("vcards/x/logo.png"), nil)...))

	v, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, v.LogoFileKey)
	assert.Equal(t, "vcards/x/logo.png", *v.LogoFileKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetQRCodeNotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE vcards SET qr_code_url`).
		WithArgs(id, "data:image/png;base64,x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetQRCode(context.Background(), id, "data:image/png;base64,x")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLogoFileKeyClears(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE vcards SET logo_file_key`).
		WithArgs(id, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetLogoFileKey(context.Background(), id, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
