package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardshare_backend/internal/phones/service"
	"cardshare_backend/internal/phones/transport"
	"cardshare_backend/platform/httpkit"
	"cardshare_backend/platform/validator"
)

// Handler handles HTTP requests for phone helpers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new phone handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Countries lists the supported calling codes.
// GET /api/v1/phone/countries
func (h *Handler) Countries(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	httpkit.OK(c, h.svc.Countries())
}

// Validate checks a number as the user types it.
// POST /api/v1/phone/validate
func (h *Handler) Validate(c *gin.Context) {
	var req transport.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Validate(req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
