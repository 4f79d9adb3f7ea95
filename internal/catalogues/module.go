// Package catalogues provides the catalogue bounded context module.
package catalogues

import (
	"context"

	"cardshare_backend/internal/adapters/storage"
	"cardshare_backend/internal/catalogues/handler"
	"cardshare_backend/internal/catalogues/repository"
	"cardshare_backend/internal/catalogues/service"
	"cardshare_backend/internal/events"
	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/platform/db"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/validator"
)

// Module is the catalogue bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalogue module. storageSvc may be
// nil when object storage is not configured.
func NewModule(pool db.Querier, storageSvc storage.StorageService, bucket string, qr service.QRGenerator, baseURL string, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, storageSvc, bucket, qr, baseURL, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalogues"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalogue routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/catalogues")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
	g.POST("/:id/qrcode", m.handler.GenerateQRCode)

	g.POST("/:id/products", m.handler.CreateProduct)
	g.PUT("/:id/products/reorder", m.handler.ReorderProducts)
	g.POST("/:id/products/files/presign", m.handler.PresignProductFile)
	g.PUT("/:id/products/:productId", m.handler.UpdateProduct)
	g.DELETE("/:id/products/:productId", m.handler.DeleteProduct)
	g.POST("/:id/products/:productId/qrcode", m.handler.GenerateProductQRCode)
}

// RegisterHandlers subscribes to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CatalogueDeleted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CatalogueDeleted:
		m.service.RemoveFiles(ctx, e.FileKeys)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
