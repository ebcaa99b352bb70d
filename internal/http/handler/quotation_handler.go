package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		logger:           logger,
	}
}

// GetByID handles GET /api/v1/quotations/{id}
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// List handles GET /api/v1/quotations
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := r.URL.Query().Get("query")
	status := r.URL.Query().Get("status")

	quotations, total, err := h.quotationService.List(r.Context(), page, pageSize, search, status)
	if err != nil {
		h.respondServiceError(w, err, "Failed to list quotations")
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:     quotations,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Update handles PUT /api/v1/quotations/{id}
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	var req domain.UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customID, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update quotation")
		return
	}

	respondJSON(w, http.StatusOK, domain.UpdateQuotationResponse{
		Message:  "Quotation updated successfully",
		CustomID: customID,
	})
}

// MarkExported handles PUT /api/v1/quotations/{id}/export
func (h *QuotationHandler) MarkExported(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.MarkExported(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "Failed to mark quotation exported")
		return
	}

	respondJSON(w, http.StatusOK, domain.ExportQuotationResponse{
		Message: "Quotation marked as exported",
		Quotation: domain.ExportedQuotation{
			ID:       id,
			Exported: true,
		},
	})
}

// Delete handles DELETE /api/v1/quotations/{id}
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "Failed to delete quotation")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{
		Message: "Quotation deleted successfully",
	})
}

func (h *QuotationHandler) respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrQuotationNotFound):
		respondWithError(w, http.StatusNotFound, "Quotation not found")
	case errors.Is(err, database.ErrTimedOut):
		respondWithError(w, http.StatusServiceUnavailable, "Database operation timed out")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, logMsg)
	}
}
