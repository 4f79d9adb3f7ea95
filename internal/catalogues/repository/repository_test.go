package repository

import (
	"context"
	"errors"
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
	catalogueCols = []string{"id", "title", "description", "qr_code_url", "created_at", "updated_at"}
	productCols   = []string{"id", "catalogue_id", "name", "description", "file_url", "image", "position", "created_at", "updated_at"}
)

func newMock(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func strPtr(s string) *string { return &s }

func TestGetCatalogue(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM catalogues WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(catalogueCols).AddRow(id, "Spring", "New arrivals", (*string)(nil), now, now))
	mock.ExpectQuery(`FROM catalogue_products`).
		WithArgs([]uuid.UUID{id}).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(p1, id, "Chair", strPtr("Oak"), (*string)(nil), strPtr("catalogues/x/chair.png"), 0, now, now).
			AddRow(p2, id, "Table", (*string)(nil), (*string)(nil), (*string)(nil), 1, now, now))

	c, err := repo.GetCatalogue(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Spring", c.Title)
	assert.Equal(t, "2026-03-01T10:00:00Z", c.CreatedAt)
	require.Len(t, c.Products, 2)
	assert.Equal(t, p1, c.Products[0].ID)
	assert.Equal(t, 1, c.Products[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCatalogueNotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM catalogues`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetCatalogue(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCatalogueWrapsDatabaseErrors(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	boom := errors.New("connection reset")

	mock.ExpectQuery(`FROM catalogues`).WithArgs(id).WillReturnError(boom)

	_, err := repo.GetCatalogue(context.Background(), id)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, apperr.KindUnknown, apperr.GetKind(err))
}

func TestCreateProductForMissingCatalogue(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO catalogue_products`).
		WithArgs(id, "Chair", (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.CreateProduct(context.Background(), id, ProductParams{Name: "Chair"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderProducts(t *testing.T) {
	repo, mock := newMock(t)
	catalogueID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE catalogue_products`).WithArgs(b, catalogueID, 0).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE catalogue_products`).WithArgs(a, catalogueID, 1).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReorderProducts(context.Background(), catalogueID, []uuid.UUID{b, a}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderProductsUnknownIDRollsBack(t *testing.T) {
	repo, mock := newMock(t)
	catalogueID := uuid.New()
	a, stranger := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE catalogue_products`).WithArgs(a, catalogueID, 0).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE catalogue_products`).WithArgs(stranger, catalogueID, 1).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.ReorderProducts(context.Background(), catalogueID, []uuid.UUID{a, stranger})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCatalogueReturnsRemovedProducts(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM catalogue_products`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(uuid.New(), id, "Chair", (*string)(nil), strPtr("catalogues/x/manual.pdf"), (*string)(nil), 0, now, now))
	mock.ExpectExec(`DELETE FROM catalogues`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	removed, err := repo.DeleteCatalogue(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "catalogues/x/manual.pdf", *removed[0].FileURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCatalogueNotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM catalogue_products`).WithArgs(id).WillReturnRows(pgxmock.NewRows(productCols))
	mock.ExpectExec(`DELETE FROM catalogues`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	_, err := repo.DeleteCatalogue(context.Background(), id)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCatalogueQRCode(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE catalogues SET qr_code_url`).WithArgs(id, "data:image/png;base64,AA==").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetCatalogueQRCode(context.Background(), id, "data:image/png;base64,AA=="))
	assert.NoError(t, mock.ExpectationsWereMet())
}
