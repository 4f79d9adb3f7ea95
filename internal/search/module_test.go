package search

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/internal/search/transport"
	"cardshare_backend/platform/validator"
)

var resultCols = []string{"id", "type", "title", "subtitle", "link_id", "score", "created_at", "total"}

func newTestServer(t *testing.T) (*gin.Engine, pgxmock.PgxPoolIface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	engine := gin.New()
	NewModule(mock, "https://cards.example/", validator.New()).
		RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine, mock
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSearchBuildsLinks(t *testing.T) {
	engine, mock := newTestServer(t)
	vcardID, catalogueID, productID := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WITH search_query`).
		WithArgs("acme 5012", "%acme 5012%", "5012", 10).
		WillReturnRows(pgxmock.NewRows(resultCols).
			AddRow(vcardID, "vcard", "Jane Doe", "Acme", vcardID.String(), float32(0.6), now, int64(3)).
			AddRow(catalogueID, "catalogue", "Acme spring", "New arrivals", catalogueID.String(), float32(0.4), now, int64(3)).
			AddRow(productID, "product", "Acme chair", "Acme spring", catalogueID.String()+"?product="+productID.String(), float32(0.2), now, int64(3)))

	rec := get(engine, "/api/v1/search?q=acme+5012")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body transport.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 3)
	assert.Equal(t, "https://cards.example/vcard/"+vcardID.String(), body.Items[0].Link)
	assert.Equal(t, "https://cards.example/catalogue/"+catalogueID.String(), body.Items[1].Link)
	assert.Equal(t, "https://cards.example/catalogue/"+catalogueID.String()+"?product="+productID.String(), body.Items[2].Link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEscapesPatternAndIgnoresShortDigits(t *testing.T) {
	engine, mock := newTestServer(t)

	mock.ExpectQuery(`WITH search_query`).
		WithArgs("5%_x", `%5\%\_x%`, "", 5).
		WillReturnRows(pgxmock.NewRows(resultCols))

	rec := get(engine, "/api/v1/search?q=5%25_x&limit=5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"items":[],"total":0}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchValidationAndFailure(t *testing.T) {
	engine, mock := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(engine, "/api/v1/search?q=a").Code)
	assert.Equal(t, http.StatusBadRequest, get(engine, "/api/v1/search?q=abc&limit=500").Code)

	mock.ExpectQuery(`WITH search_query`).
		WithArgs("jane", "%jane%", "", 10).
		WillReturnError(errors.New("boom"))
	rec := get(engine, "/api/v1/search?q=jane")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
	assert.NoError(t, mock.ExpectationsWereMet())
}
