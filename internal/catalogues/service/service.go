package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/catalogues/repository"
	"cardshare_backend/internal/catalogues/transport"
	"cardshare_backend/internal/events"
	"cardshare_backend/internal/qrcodes"
	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/sanitize"
)

// QRCodeSize is the edge length of catalogue and product QR codes.
const QRCodeSize = 300

// fileFolder is the storage prefix of uploaded product files. Product
// fields starting with it are storage keys owned by this module.
const fileFolder = "catalogues/"

// QRGenerator renders QR code data URLs.
type QRGenerator interface {
	Generate(ctx context.Context, req qrcodes.Request) (string, error)
}

// Service provides business logic for catalogues.
type Service struct {
	repo    repository.Repository
	storage storage.StorageService
	bucket  string
	qr      QRGenerator
	baseURL string
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new catalogue service. storageSvc may be nil when object
// storage is not configured.
func New(repo repository.Repository, storageSvc storage.StorageService, bucket string, qr QRGenerator, baseURL string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storageSvc,
		bucket:  bucket,
		qr:      qr,
		baseURL: strings.TrimRight(baseURL, "/"),
		bus:     bus,
		log:     log,
	}
}

// List returns every catalogue with its products.
func (s *Service) List(ctx context.Context) ([]transport.CatalogueResponse, error) {
	items, err := s.repo.ListCatalogues(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CatalogueResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCatalogueResponse(c))
	}
	return out, nil
}

// Get returns one catalogue.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.CatalogueResponse, error) {
	c, err := s.repo.GetCatalogue(ctx, id)
	if err != nil {
		return transport.CatalogueResponse{}, err
	}
	return toCatalogueResponse(c), nil
}

// Create creates a catalogue.
func (s *Service) Create(ctx context.Context, req transport.CatalogueRequest) (transport.CatalogueResponse, error) {
	params, err := catalogueParams(req)
	if err != nil {
		return transport.CatalogueResponse{}, err
	}
	c, err := s.repo.CreateCatalogue(ctx, params)
	if err != nil {
		return transport.CatalogueResponse{}, err
	}

	s.log.Info("catalogue created", "id", c.ID, "title", c.Title)
	return toCatalogueResponse(c), nil
}

// Update replaces a catalogue's title and description.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.CatalogueRequest) (transport.CatalogueResponse, error) {
	params, err := catalogueParams(req)
	if err != nil {
		return transport.CatalogueResponse{}, err
	}
	c, err := s.repo.UpdateCatalogue(ctx, id, params)
	if err != nil {
		return transport.CatalogueResponse{}, err
	}

	s.log.Info("catalogue updated", "id", c.ID)
	return toCatalogueResponse(c), nil
}

// Delete removes a catalogue and its products. Uploaded files are removed
// asynchronously through CatalogueDeleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.DeleteCatalogue(ctx, id)
	if err != nil {
		return err
	}

	var keys []string
	for _, p := range removed {
		keys = append(keys, ownedFileKeys(p)...)
	}
	s.bus.Publish(ctx, events.CatalogueDeleted{
		BaseEvent:   events.NewBaseEvent(),
		CatalogueID: id,
		FileKeys:    keys,
	})

	s.log.Info("catalogue deleted", "id", id, "products", len(removed))
	return nil
}

// CreateProduct appends a product to a catalogue.
func (s *Service) CreateProduct(ctx context.Context, catalogueID uuid.UUID, req transport.ProductRequest) (transport.ProductResponse, error) {
	params, err := productParams(req)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	p, err := s.repo.CreateProduct(ctx, catalogueID, params)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product created", "id", p.ID, "catalogueId", catalogueID, "order", p.Position)
	return toProductResponse(p), nil
}

// UpdateProduct replaces a product's fields. Files no longer referenced
// are removed from storage.
func (s *Service) UpdateProduct(ctx context.Context, catalogueID, productID uuid.UUID, req transport.ProductRequest) (transport.ProductResponse, error) {
	params, err := productParams(req)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	before, err := s.repo.GetProduct(ctx, catalogueID, productID)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	p, err := s.repo.UpdateProduct(ctx, catalogueID, productID, params)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	kept := make(map[string]bool)
	for _, k := range ownedFileKeys(p) {
		kept[k] = true
	}
	var stale []string
	for _, k := range ownedFileKeys(before) {
		if !kept[k] {
			stale = append(stale, k)
		}
	}
	s.RemoveFiles(ctx, stale)

	s.log.Info("product updated", "id", p.ID, "catalogueId", catalogueID)
	return toProductResponse(p), nil
}

// DeleteProduct removes a product and its uploaded files.
func (s *Service) DeleteProduct(ctx context.Context, catalogueID, productID uuid.UUID) error {
	p, err := s.repo.DeleteProduct(ctx, catalogueID, productID)
	if err != nil {
		return err
	}
	s.RemoveFiles(ctx, ownedFileKeys(p))

	s.log.Info("product deleted", "id", productID, "catalogueId", catalogueID)
	return nil
}

// ReorderProducts sets product positions to their index in productIDs.
func (s *Service) ReorderProducts(ctx context.Context, catalogueID uuid.UUID, req transport.ReorderProductsRequest) error {
	if err := s.repo.ReorderProducts(ctx, catalogueID, req.ProductIDs); err != nil {
		return err
	}

	s.log.Info("products reordered", "catalogueId", catalogueID, "count", len(req.ProductIDs))
	return nil
}

// GenerateQRCode renders the catalogue's public link and stores it.
func (s *Service) GenerateQRCode(ctx context.Context, id uuid.UUID) (transport.CatalogueQRCodeResponse, error) {
	c, err := s.repo.GetCatalogue(ctx, id)
	if err != nil {
		return transport.CatalogueQRCodeResponse{}, err
	}

	dataURL, err := s.qr.Generate(ctx, qrcodes.Request{Content: s.CatalogueURL(id), Size: QRCodeSize})
	if err != nil {
		return transport.CatalogueQRCodeResponse{}, err
	}
	if err := s.repo.SetCatalogueQRCode(ctx, id, dataURL); err != nil {
		return transport.CatalogueQRCodeResponse{}, err
	}
	c.QRCodeURL = &dataURL

	s.log.Info("catalogue qr code generated", "id", id)
	return transport.CatalogueQRCodeResponse{QRCodeURL: dataURL, Catalogue: toCatalogueResponse(c)}, nil
}

// GenerateProductQRCode renders the link to one product. It is not stored.
func (s *Service) GenerateProductQRCode(ctx context.Context, catalogueID, productID uuid.UUID) (transport.ProductQRCodeResponse, error) {
	p, err := s.repo.GetProduct(ctx, catalogueID, productID)
	if err != nil {
		return transport.ProductQRCodeResponse{}, err
	}
	c, err := s.repo.GetCatalogue(ctx, catalogueID)
	if err != nil {
		return transport.ProductQRCodeResponse{}, err
	}

	productURL := s.ProductURL(catalogueID, productID)
	dataURL, err := s.qr.Generate(ctx, qrcodes.Request{Content: productURL, Size: QRCodeSize})
	if err != nil {
		return transport.ProductQRCodeResponse{}, err
	}

	return transport.ProductQRCodeResponse{
		QRCodeURL:  dataURL,
		ProductURL: productURL,
		Product: transport.ProductQRProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
		},
		Catalogue: transport.ProductQRCatalogue{ID: c.ID, Title: c.Title},
	}, nil
}

// PresignProductFile returns an upload URL for a product image or document.
func (s *Service) PresignProductFile(ctx context.Context, catalogueID uuid.UUID, req transport.PresignFileRequest) (transport.PresignFileResponse, error) {
	if s.storage == nil {
		return transport.PresignFileResponse{}, storage.NotConfigured()
	}
	if _, err := s.repo.GetCatalogue(ctx, catalogueID); err != nil {
		return transport.PresignFileResponse{}, err
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, storage.UploadRequest{
		Bucket:      s.bucket,
		Folder:      fileFolder + catalogueID.String(),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Kind:        storage.KindProductFile,
	})
	if err != nil {
		return transport.PresignFileResponse{}, err
	}
	return transport.PresignFileResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// RemoveFiles deletes storage objects, logging failures.
func (s *Service) RemoveFiles(ctx context.Context, keys []string) {
	if s.storage == nil {
		return
	}
	for _, key := range keys {
		if err := s.storage.DeleteObject(ctx, s.bucket, key); err != nil {
			s.log.WithContext(ctx).Warn("failed to remove product file", "key", key, "error", err)
		}
	}
}

// CatalogueURL is the public page of a catalogue.
func (s *Service) CatalogueURL(id uuid.UUID) string {
	return s.baseURL + "/catalogue/" + id.String()
}

// ProductURL is the public page of a catalogue opened at one product.
func (s *Service) ProductURL(catalogueID, productID uuid.UUID) string {
	return s.CatalogueURL(catalogueID) + "?product=" + url.QueryEscape(productID.String())
}

func catalogueParams(req transport.CatalogueRequest) (repository.CatalogueParams, error) {
	params := repository.CatalogueParams{
		Title:       sanitize.Line(req.Title),
		Description: sanitize.Text(req.Description),
	}
	if params.Title == "" || params.Description == "" {
		return repository.CatalogueParams{}, apperr.Validation("title and description are required")
	}
	return params, nil
}

func productParams(req transport.ProductRequest) (repository.ProductParams, error) {
	params := repository.ProductParams{
		Name:        sanitize.Line(req.Name),
		Description: emptyToNil(sanitize.TextPtr(req.Description)),
		FileURL:     emptyToNil(trimPtr(req.FileURL)),
		Image:       emptyToNil(trimPtr(req.Image)),
	}
	if params.Name == "" {
		return repository.ProductParams{}, apperr.Validation("name is required")
	}
	return params, nil
}

func ownedFileKeys(p repository.Product) []string {
	var keys []string
	for _, v := range []*string{p.FileURL, p.Image} {
		if v != nil && strings.HasPrefix(*v, fileFolder) {
			keys = append(keys, *v)
		}
	}
	return keys
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
