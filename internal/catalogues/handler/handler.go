package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardshare_backend/internal/catalogues/service"
	"cardshare_backend/internal/catalogues/transport"
	"cardshare_backend/platform/httpkit"
	"cardshare_backend/platform/validator"
)

// Handler handles HTTP requests for catalogues.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalogue id"
	msgInvalidProductID = "invalid product id"
)

// New creates a new catalogue handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all catalogues.
// GET /api/v1/catalogues
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves a catalogue by ID.
// GET /api/v1/catalogues/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create creates a catalogue.
// POST /api/v1/catalogues
func (h *Handler) Create(c *gin.Context) {
	var req transport.CatalogueRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update updates a catalogue.
// PUT /api/v1/catalogues/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}
	var req transport.CatalogueRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete deletes a catalogue with its products.
// DELETE /api/v1/catalogues/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "catalogue deleted"})
}

// CreateProduct appends a product.
// POST /api/v1/catalogues/:id/products
func (h *Handler) CreateProduct(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}
	var req transport.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.CreateProduct(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateProduct updates a product.
// PUT /api/v1/catalogues/:id/products/:productId
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, productID, ok := productIDs(c)
	if !ok {
		return
	}
	var req transport.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.UpdateProduct(c.Request.Context(), id, productID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteProduct deletes a product.
// DELETE /api/v1/catalogues/:id/products/:productId
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, productID, ok := productIDs(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteProduct(c.Request.Context(), id, productID)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "product deleted"})
}

// ReorderProducts sets the product order.
// PUT /api/v1/catalogues/:id/products/reorder
func (h *Handler) ReorderProducts(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}
	var req transport.ReorderProductsRequest
	if !h.bind(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.ReorderProducts(c.Request.Context(), id, req)) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "product order updated"})
}

// GenerateQRCode renders and stores the catalogue QR code.
// POST /api/v1/catalogues/:id/qrcode
func (h *Handler) GenerateQRCode(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateQRCode(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GenerateProductQRCode renders a QR code for one product.
// POST /api/v1/catalogues/:id/products/:productId/qrcode
func (h *Handler) GenerateProductQRCode(c *gin.Context) {
	id, productID, ok := productIDs(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateProductQRCode(c.Request.Context(), id, productID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PresignProductFile returns an upload URL for a product file.
// POST /api/v1/catalogues/:id/products/files/presign
func (h *Handler) PresignProductFile(c *gin.Context) {
	id, ok := catalogueID(c)
	if !ok {
		return
	}
	var req transport.PresignFileRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.svc.PresignProductFile(c.Request.Context(), id, req)
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

func catalogueID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func productIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, ok := catalogueID(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidProductID, nil)
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return id, productID, true
}
