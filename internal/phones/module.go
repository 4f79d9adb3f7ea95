// Package phones exposes the phone number helpers over HTTP.
package phones

import (
	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/internal/phones/handler"
	"cardshare_backend/internal/phones/service"
	"cardshare_backend/platform/phone"
	"cardshare_backend/platform/validator"
)

// Module is the phone module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the phone module. A nil table selects the built-in one.
func NewModule(countries *phone.Table, val *validator.Validator) *Module {
	return &Module{handler: handler.New(service.New(countries), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "phones"
}

// RegisterRoutes mounts phone routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/phone")
	g.GET("/countries", m.handler.Countries)
	g.POST("/validate", m.handler.Validate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
