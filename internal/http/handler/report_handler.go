package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/report"
	"github.com/quotedesk/quotation-api/internal/service"
	"github.com/quotedesk/quotation-api/internal/storage"
	"go.uber.org/zap"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ReportHandler renders quotations to downloadable artifacts and optionally
// archives a copy
type ReportHandler struct {
	quotationService *service.QuotationService
	excel            *report.ExcelRenderer
	pdf              *report.PDFRenderer
	store            storage.Storage
	storageCfg       *config.StorageConfig
	logger           *zap.Logger
}

func NewReportHandler(
	quotationService *service.QuotationService,
	excel *report.ExcelRenderer,
	pdf *report.PDFRenderer,
	store storage.Storage,
	storageCfg *config.StorageConfig,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		quotationService: quotationService,
		excel:            excel,
		pdf:              pdf,
		store:            store,
		storageCfg:       storageCfg,
		logger:           logger,
	}
}

// Excel handles GET /api/v1/quotations/{id}/excel
func (h *ReportHandler) Excel(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "xlsx", contentTypeXLSX, func(q *domain.QuotationDetailDTO) ([]byte, error) {
		return h.excel.Render(q)
	})
}

// PDF handles GET /api/v1/quotations/{id}/pdf
func (h *ReportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pdf", contentTypePDF, func(q *domain.QuotationDetailDTO) ([]byte, error) {
		return h.pdf.Render(q)
	})
}

func (h *ReportHandler) render(w http.ResponseWriter, r *http.Request, extension, contentType string, renderFn func(*domain.QuotationDetailDTO) ([]byte, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.LoadForRender(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotationNotFound):
			respondWithError(w, http.StatusNotFound, "Quotation not found")
		case errors.Is(err, database.ErrTimedOut):
			respondWithError(w, http.StatusServiceUnavailable, "Database operation timed out")
		default:
			h.logger.Error("Failed to load quotation for report", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to load quotation")
		}
		return
	}

	data, err := renderFn(quotation)
	if err != nil {
		h.logger.Error("Failed to render report",
			zap.String("quotation_id", id.String()),
			zap.String("format", extension),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	if h.storageCfg.ArchiveExports && h.store != nil {
		key := storage.ExportKey(quotation.CustomID, extension)
		if _, err := h.store.Save(r.Context(), key, contentType, bytes.NewReader(data)); err != nil {
			// The download still succeeds; archiving is best effort
			h.logger.Warn("failed to archive report artifact",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	filename := quotation.CustomID + "." + extension
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
