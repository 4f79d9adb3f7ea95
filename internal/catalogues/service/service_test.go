package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/catalogues/repository"
	"cardshare_backend/internal/catalogues/transport"
	"cardshare_backend/internal/events"
	"cardshare_backend/internal/qrcodes"
	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/logger"
)

type fakeRepo struct {
	catalogues map[uuid.UUID]repository.Catalogue
	products   map[uuid.UUID]repository.Product
	qrCodes    map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		catalogues: map[uuid.UUID]repository.Catalogue{},
		products:   map[uuid.UUID]repository.Product{},
		qrCodes:    map[uuid.UUID]string{},
	}
}

func (r *fakeRepo) productsOf(id uuid.UUID) []repository.Product {
	var out []repository.Product
	for _, p := range r.products {
		if p.CatalogueID == id {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (r *fakeRepo) ListCatalogues(context.Context) ([]repository.Catalogue, error) {
	var out []repository.Catalogue
	for id, c := range r.catalogues {
		c.Products = r.productsOf(id)
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) GetCatalogue(_ context.Context, id uuid.UUID) (repository.Catalogue, error) {
	c, ok := r.catalogues[id]
	if !ok {
		return repository.Catalogue{}, apperr.NotFound("catalogue not found")
	}
	c.Products = r.productsOf(id)
	return c, nil
}

func (r *fakeRepo) CreateCatalogue(_ context.Context, params repository.CatalogueParams) (repository.Catalogue, error) {
	c := repository.Catalogue{ID: uuid.New(), Title: params.Title, Description: params.Description}
	r.catalogues[c.ID] = c
	return c, nil
}

func (r *fakeRepo) UpdateCatalogue(_ context.Context, id uuid.UUID, params repository.CatalogueParams) (repository.Catalogue, error) {
	c, ok := r.catalogues[id]
	if !ok {
		return repository.Catalogue{}, apperr.NotFound("catalogue not found")
	}
	c.Title, c.Description = params.Title, params.Description
	r.catalogues[id] = c
	return c, nil
}

func (r *fakeRepo) DeleteCatalogue(_ context.Context, id uuid.UUID) ([]repository.Product, error) {
	if _, ok := r.catalogues[id]; !ok {
		return nil, apperr.NotFound("catalogue not found")
	}
	removed := r.productsOf(id)
	for _, p := range removed {
		delete(r.products, p.ID)
	}
	delete(r.catalogues, id)
	return removed, nil
}

func (r *fakeRepo) SetCatalogueQRCode(_ context.Context, id uuid.UUID, url string) error {
	r.qrCodes[id] = url
	return nil
}

func (r *fakeRepo) GetProduct(_ context.Context, catalogueID, productID uuid.UUID) (repository.Product, error) {
	p, ok := r.products[productID]
	if !ok || p.CatalogueID != catalogueID {
		return repository.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (r *fakeRepo) CreateProduct(_ context.Context, catalogueID uuid.UUID, params repository.ProductParams) (repository.Product, error) {
	if _, ok := r.catalogues[catalogueID]; !ok {
		return repository.Product{}, apperr.NotFound("catalogue not found")
	}
	p := repository.Product{
		ID: uuid.New(), CatalogueID: catalogueID, Name: params.Name, Description: params.Description,
		FileURL: params.FileURL, Image: params.Image, Position: len(r.productsOf(catalogueID)),
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeRepo) UpdateProduct(ctx context.Context, catalogueID, productID uuid.UUID, params repository.ProductParams) (repository.Product, error) {
	p, err := r.GetProduct(ctx, catalogueID, productID)
	if err != nil {
		return repository.Product{}, err
	}
	p.Name, p.Description, p.FileURL, p.Image = params.Name, params.Description, params.FileURL, params.Image
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeRepo) DeleteProduct(ctx context.Context, catalogueID, productID uuid.UUID) (repository.Product, error) {
	p, err := r.GetProduct(ctx, catalogueID, productID)
	if err != nil {
		return repository.Product{}, err
	}
	delete(r.products, productID)
	return p, nil
}

func (r *fakeRepo) ReorderProducts(ctx context.Context, catalogueID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if _, err := r.GetProduct(ctx, catalogueID, id); err != nil {
			return err
		}
	}
	for i, id := range ids {
		p := r.products[id]
		p.Position = i
		r.products[id] = p
	}
	return nil
}

type fakeQR struct{ requests []qrcodes.Request }

func (f *fakeQR) Generate(_ context.Context, req qrcodes.Request) (string, error) {
	f.requests = append(f.requests, req)
	return "data:image/png;base64," + req.Content, nil
}

type fakeStorage struct {
	deleted []string
	upload  storage.UploadRequest
}

func (f *fakeStorage) GenerateUploadURL(_ context.Context, req storage.UploadRequest) (*storage.PresignedURL, error) {
	f.upload = req
	return &storage.PresignedURL{URL: "https://minio.local/put", FileKey: req.Folder + "/" + req.FileName, ExpiresAt: time.Now()}, nil
}
func (f *fakeStorage) GenerateDownloadURL(context.Context, string, string) (*storage.PresignedURL, error) {
	return nil, nil
}
func (f *fakeStorage) DownloadFile(context.Context, string, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (f *fakeStorage) ReadObject(context.Context, string, string, int64) ([]byte, error) {
	return nil, nil
}
func (f *fakeStorage) DeleteObject(_ context.Context, _ string, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (f *fakeStorage) GetMaxFileSize() int64                            { return 1 << 20 }

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	qr      *fakeQR
	storage *fakeStorage
	bus     *events.InMemoryBus
}

func newFixture(withStorage bool) fixture {
	f := fixture{repo: newFakeRepo(), qr: &fakeQR{}, bus: events.NewInMemoryBus(nil)}
	var store storage.StorageService
	if withStorage {
		f.storage = &fakeStorage{}
		store = f.storage
	}
	f.svc = New(f.repo, store, "catalogue-product-files", f.qr, "https://cards.example/", f.bus, logger.New("test"))
	return f
}

func TestCreateSanitizesAndRequiresFields(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, transport.CatalogueRequest{Title: "  <b>Spring</b>\n Line ", Description: "Fresh <i>items</i>"})
	require.NoError(t, err)
	assert.Equal(t, "Spring Line", c.Title)
	assert.Equal(t, "Fresh items", c.Description)
	assert.NotNil(t, c.Products)

	_, err = f.svc.Create(ctx, transport.CatalogueRequest{Title: "<p></p>", Description: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestProductsAppendInOrderAndReorder(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})
	require.NoError(t, err)

	a, err := f.svc.CreateProduct(ctx, c.ID, transport.ProductRequest{Name: "A"})
	require.NoError(t, err)
	b, err := f.svc.CreateProduct(ctx, c.ID, transport.ProductRequest{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)

	require.NoError(t, f.svc.ReorderProducts(ctx, c.ID, transport.ReorderProductsRequest{ProductIDs: []uuid.UUID{b.ID, a.ID}}))
	got, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "B", got.Products[0].Name)

	err = f.svc.ReorderProducts(ctx, c.ID, transport.ReorderProductsRequest{ProductIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.CreateProduct(ctx, uuid.New(), transport.ProductRequest{Name: "X"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateQRCodePersistsDataURL(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	c, err := f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})
	require.NoError(t, err)

	res, err := f.svc.GenerateQRCode(ctx, c.ID)
	require.NoError(t, err)

	want := "https://cards.example/catalogue/" + c.ID.String()
	require.Len(t, f.qr.requests, 1)
	assert.Equal(t, qrcodes.Request{Content: want, Size: QRCodeSize}, f.qr.requests[0])
	assert.Equal(t, res.QRCodeURL, f.repo.qrCodes[c.ID])
	require.NotNil(t, res.Catalogue.QRCodeURL)
	assert.Equal(t, res.QRCodeURL, *res.Catalogue.QRCodeURL)

	_, err = f.svc.GenerateQRCode(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateProductQRCode(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	c, _ := f.svc.Create(ctx, transport.CatalogueRequest{Title: "Spring", Description: "D"})
	p, _ := f.svc.CreateProduct(ctx, c.ID, transport.ProductRequest{Name: "Chair"})

	res, err := f.svc.GenerateProductQRCode(ctx, c.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cards.example/catalogue/"+c.ID.String()+"?product="+p.ID.String(), res.ProductURL)
	assert.Equal(t, "Chair", res.Product.Name)
	assert.Equal(t, "Spring", res.Catalogue.Title)
	assert.Empty(t, f.repo.qrCodes)

	other, _ := f.svc.Create(ctx, transport.CatalogueRequest{Title: "Other", Description: "D"})
	_, err = f.svc.GenerateProductQRCode(ctx, other.ID, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPresignProductFile(t *testing.T) {
	ctx := context.Background()

	f := newFixture(false)
	c, _ := f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})
	_, err := f.svc.PresignProductFile(ctx, c.ID, transport.PresignFileRequest{FileName: "a.pdf", ContentType: "application/pdf", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))

	f = newFixture(true)
	c, _ = f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})
	res, err := f.svc.PresignProductFile(ctx, c.ID, transport.PresignFileRequest{FileName: "a.pdf", ContentType: "application/pdf", SizeBytes: 10})
	require.NoError(t, err)
	assert.Equal(t, "catalogues/"+c.ID.String()+"/a.pdf", res.FileKey)
	assert.Equal(t, storage.KindProductFile, f.storage.upload.Kind)
	assert.Equal(t, "catalogue-product-files", f.storage.upload.Bucket)
}

func TestProductFilesAreRemoved(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	c, _ := f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})

	image := "catalogues/" + c.ID.String() + "/chair.png"
	external := "https://cdn.example/manual.pdf"
	p, err := f.svc.CreateProduct(ctx, c.ID, transport.ProductRequest{Name: "Chair", Image: &image, FileURL: &external})
	require.NoError(t, err)

	newImage := "catalogues/" + c.ID.String() + "/chair2.png"
	_, err = f.svc.UpdateProduct(ctx, c.ID, p.ID, transport.ProductRequest{Name: "Chair", Image: &newImage, FileURL: &external})
	require.NoError(t, err)
	assert.Equal(t, []string{image}, f.storage.deleted)

	require.NoError(t, f.svc.DeleteProduct(ctx, c.ID, p.ID))
	assert.Equal(t, []string{image, newImage}, f.storage.deleted)
}

func TestDeletePublishesOwnedFileKeys(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	c, _ := f.svc.Create(ctx, transport.CatalogueRequest{Title: "T", Description: "D"})
	key := "catalogues/" + c.ID.String() + "/brochure.pdf"
	_, _ = f.svc.CreateProduct(ctx, c.ID, transport.ProductRequest{Name: "A", FileURL: &key})

	var got events.CatalogueDeleted
	f.bus.Subscribe(events.CatalogueDeleted{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = e.(events.CatalogueDeleted)
		return nil
	}))

	require.NoError(t, f.svc.Delete(ctx, c.ID))
	f.bus.Wait()
	assert.Equal(t, c.ID, got.CatalogueID)
	assert.Equal(t, []string{key}, got.FileKeys)

	assert.True(t, apperr.Is(f.svc.Delete(ctx, c.ID), apperr.KindNotFound))
}
