package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardshare_backend/internal/vcards/service"
	"cardshare_backend/internal/vcards/transport"
	"cardshare_backend/internal/vcards/vcf"
	"cardshare_backend/platform/httpkit"
	"cardshare_backend/platform/validator"
)

// Handler handles HTTP requests for vCards.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid vcard id"
	msgMissingFile      = "missing vcard file"
)

// New creates a new vCard handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all vCards.
// GET /api/v1/vcards
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a vCard by ID.
// GET /api/v1/vcards/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create creates a vCard.
// POST /api/v1/vcards
func (h *Handler) Create(c *gin.Context) {
	var req transport.VCardRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update replaces a vCard and its phone numbers.
// PUT /api/v1/vcards/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}
	var req transport.VCardRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete deletes a vCard.
// DELETE /api/v1/vcards/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "vcard deleted"})
}

// GenerateQRCode renders and stores the vCard's QR code.
// POST /api/v1/vcards/:id/qrcode
func (h *Handler) GenerateQRCode(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateQRCode(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Download serves the vCard as a .vcf attachment.
// GET /api/v1/vcards/:id/vcf
func (h *Handler) Download(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	name, body, err := h.svc.Export(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, vcf.MediaType+"; charset=utf-8", []byte(body))
}

// Import creates a vCard from a .vcf upload, either as the multipart field
// "file" or as the raw request body.
// POST /api/v1/vcards/import
func (h *Handler) Import(c *gin.Context) {
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
			return
		}
		f, err := fh.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
			return
		}
		defer f.Close()
		body = f
	}

	result, err := h.svc.Import(c.Request.Context(), body)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// PresignLogo returns an upload URL for a logo.
// POST /api/v1/vcards/:id/logo/presign
func (h *Handler) PresignLogo(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}
	var req transport.PresignLogoRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.PresignLogo(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetLogo attaches an uploaded logo.
// PUT /api/v1/vcards/:id/logo
func (h *Handler) SetLogo(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}
	var req transport.SetLogoRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.SetLogo(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetLogo returns a download URL for the uploaded logo.
// GET /api/v1/vcards/:id/logo
func (h *Handler) GetLogo(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	result, err := h.svc.LogoDownloadURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveLogo detaches and deletes the uploaded logo.
// DELETE /api/v1/vcards/:id/logo
func (h *Handler) RemoveLogo(c *gin.Context) {
	id, ok := vcardID(c)
	if !ok {
		return
	}

	result, err := h.svc.RemoveLogo(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func vcardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
