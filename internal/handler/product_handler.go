package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"product-catalog/internal/model"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
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

// GetByID handles GET /product/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeMessage(w, http.StatusNotFound, "Part is not available", nil, h.logger)
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error fetching part", err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}

// GetAll handles GET /product requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "", err, h.logger)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: products}, h.logger)
}

// Create handles POST /products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Please provide all the fields", nil, h.logger)
		return
	}

	if _, err := h.service.Create(r.Context(), &req); err != nil {
		if model.ErrorCode(err) == model.ErrCodeValidation {
			writeFailure(w, http.StatusBadRequest, "Please provide all the fields", nil, h.logger)
			return
		}
		writeFailure(w, http.StatusInternalServerError, "Server Error", nil, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: "New Product added"}, h.logger)
}

// MatchNames handles POST /product-list requests.
func (h *ProductHandler) MatchNames(w http.ResponseWriter, r *http.Request) {
	var req model.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Please pass an array of names", nil, h.logger)
		return
	}

	links, err := h.service.MatchByNames(r.Context(), req.Names)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			writeMessage(w, http.StatusBadRequest, "Please pass an array of names", nil, h.logger)
			return
		}
		writeFailure(w, http.StatusInternalServerError, "Error fetching product links", err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Data: links}, h.logger)
}

// Delete handles DELETE /product/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), productID); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeFailure(w, http.StatusNotFound, "Product not found", nil, h.logger)
			return
		}
		writeFailure(w, http.StatusInternalServerError, "Error deleting product", err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{Success: true, Message: "Deleted successfully"}, h.logger)
}

// DecrementStock handles PUT /product/{id} requests.
func (h *ProductHandler) DecrementStock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.service.DecrementStock(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			writeFailure(w, http.StatusNotFound, "Product with id not found", nil, h.logger)
		case errors.Is(err, model.ErrInsufficientStock):
			writeFailure(w, http.StatusBadRequest, "Insufficient stock", nil, h.logger)
		default:
			writeFailure(w, http.StatusInternalServerError, "Error updating product", err, h.logger)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.Envelope{
		Success: true,
		Message: "Product updated",
		Product: product,
	}, h.logger)
}
