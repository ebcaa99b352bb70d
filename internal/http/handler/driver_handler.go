package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/service"
	"go.uber.org/zap"
)

type DriverHandler struct {
	driverService *service.DriverService
	logger        *zap.Logger
}

func NewDriverHandler(driverService *service.DriverService, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		logger:        logger,
	}
}

// Create handles POST /api/v1/drivers
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	driver, err := h.driverService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDriverEmailTaken):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidName),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrInvalidPhone),
			errors.Is(err, service.ErrInvalidDriverRole):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrTimedOut):
			respondWithError(w, http.StatusServiceUnavailable, "Database operation timed out")
		default:
			h.logger.Error("Failed to create driver", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to create driver")
		}
		return
	}

	respondJSON(w, http.StatusCreated, driver)
}

// List handles GET /api/v1/drivers
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := r.URL.Query().Get("query")

	drivers, total, err := h.driverService.List(r.Context(), page, pageSize, search)
	if err != nil {
		if errors.Is(err, database.ErrTimedOut) {
			respondWithError(w, http.StatusServiceUnavailable, "Database operation timed out")
			return
		}
		h.logger.Error("Failed to list drivers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list drivers")
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:     drivers,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
