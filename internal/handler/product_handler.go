package handler

import (
	"net/http"

	"chatmart/internal/model"
	"chatmart/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}

	product, err := h.service.Create(r.Context(), &in)
	if err != nil {
		writeServiceError(w, err, "failed to create product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	var in model.ProductInput
	if !decodeJSON(w, r, &in, h.logger) {
		return
	}

	if _, err := h.service.Update(r.Context(), id, &in); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete handles DELETE /products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type importResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
}

// Import handles POST /products/import requests.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.CatalogImportRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	n, err := h.service.Import(r.Context(), req.Path)
	if err != nil {
		writeServiceError(w, err, "failed to import catalog", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{Success: true, Imported: n})
}
