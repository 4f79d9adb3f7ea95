// Package search provides cross-module search over vCards and catalogues.
package search

import (
	apphttp "cardshare_backend/internal/http"
	"cardshare_backend/internal/search/handler"
	"cardshare_backend/internal/search/repository"
	"cardshare_backend/internal/search/service"
	"cardshare_backend/platform/db"
	"cardshare_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool db.Querier, baseURL string, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, baseURL)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
