// Package vcards provides the vCard bounded context module.
package vcards

import (
	"context"

	"github.com/google/uuid"

	"cardshare_backend/internal/events"
	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/internal/vcards/handler"
	"cardshare_backend/internal/vcards/repository"
	"cardshare_backend/internal/vcards/service"
	"cardshare_backend/platform/db"
	"cardshare_backend/platform/logger"
	"cardshare_backend/platform/validator"
)

// QRCodeRefresher schedules a background re-render of a stored QR code.
type QRCodeRefresher interface {
	EnqueueVCardQRCodeRefresh(ctx context.Context, vcardID uuid.UUID) error
}

// Module is the vCard bounded context module implementing http.Module.
type Module struct {
	handler   *handler.Handler
	service   *service.Service
	refresher QRCodeRefresher
	log       *logger.Logger
}

// NewModule creates and initializes the vCard module. refresher may be nil,
// in which case stored QR codes are only re-rendered on request.
func NewModule(pool db.Querier, qr service.QRGenerator, opts service.Options, refresher QRCodeRefresher, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, qr, opts, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler:   h,
		service:   svc,
		refresher: refresher,
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "vcards"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts vCard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/vcards")
	g.GET("", m.handler.List)
	g.POST("", m.handler.Create)
	g.POST("/import", m.handler.Import)
	g.GET("/:id", m.handler.Get)
	g.PUT("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Delete)
	g.GET("/:id/vcf", m.handler.Download)
	g.POST("/:id/qrcode", m.handler.GenerateQRCode)

	g.POST("/:id/logo/presign", m.handler.PresignLogo)
	g.GET("/:id/logo", m.handler.GetLogo)
	g.PUT("/:id/logo", m.handler.SetLogo)
	g.DELETE("/:id/logo", m.handler.RemoveLogo)
}

// RegisterHandlers subscribes to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.VCardSaved{}.EventName(), m)
	bus.Subscribe(events.VCardDeleted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.VCardSaved:
		if !e.HasQRCode || m.refresher == nil {
			return nil
		}
		if err := m.refresher.EnqueueVCardQRCodeRefresh(ctx, e.VCardID); err != nil {
			m.log.WithContext(ctx).Warn("failed to schedule qr code refresh", "vcardId", e.VCardID, "error", err)
			return err
		}
		return nil
	case events.VCardDeleted:
		m.service.RemoveLogoObject(ctx, e.LogoFileKey)
		return nil
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
