package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/http/handler"
	"github.com/quotedesk/quotation-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	gateway          *database.Gateway
	rateLimiter      *middleware.RateLimiter
	quotationHandler *handler.QuotationHandler
	reportHandler    *handler.ReportHandler
	driverHandler    *handler.DriverHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	gateway *database.Gateway,
	rateLimiter *middleware.RateLimiter,
	quotationHandler *handler.QuotationHandler,
	reportHandler *handler.ReportHandler,
	driverHandler *handler.DriverHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		gateway:          gateway,
		rateLimiter:      rateLimiter,
		quotationHandler: quotationHandler,
		reportHandler:    reportHandler,
		driverHandler:    driverHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Basic liveness check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check with pool statistics
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := database.HealthCheck(r.Context(), rt.db, rt.gateway); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		stats, err := database.Stats(rt.db)
		if err != nil {
			rt.logger.Error("Failed to read pool statistics", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db, rt.gateway); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", rt.quotationHandler.List)
			r.Get("/{id}", rt.quotationHandler.GetByID)
			r.Put("/{id}", rt.quotationHandler.Update)
			r.Delete("/{id}", rt.quotationHandler.Delete)
			r.Put("/{id}/export", rt.quotationHandler.MarkExported)

			// Report downloads
			r.Get("/{id}/excel", rt.reportHandler.Excel)
			r.Get("/{id}/pdf", rt.reportHandler.PDF)
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", rt.driverHandler.List)
			r.Post("/", rt.driverHandler.Create)
		})
	})

	return r
}
