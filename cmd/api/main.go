package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/http/handler"
	"github.com/quotedesk/quotation-api/internal/http/middleware"
	"github.com/quotedesk/quotation-api/internal/http/router"
	"github.com/quotedesk/quotation-api/internal/identity"
	"github.com/quotedesk/quotation-api/internal/logger"
	"github.com/quotedesk/quotation-api/internal/mailer"
	"github.com/quotedesk/quotation-api/internal/report"
	"github.com/quotedesk/quotation-api/internal/repository"
	"github.com/quotedesk/quotation-api/internal/service"
	"github.com/quotedesk/quotation-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Persistence gateway: retried reads, at-most-once writes
	gateway := database.NewGateway(&cfg.Retry, log)

	// Initialize artifact storage
	artifactStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	quotationRepo := repository.NewQuotationRepository(db, gateway)
	salesRepRepo := repository.NewSalesRepRepository(db, gateway)
	driverRepo := repository.NewDriverRepository(db, gateway)

	// External dependencies
	identityClient := identity.NewClient(&cfg.Identity)
	credentialMailer := mailer.NewMailer(&cfg.Email, log)

	// Initialize services
	quotationService := service.NewQuotationService(quotationRepo, salesRepRepo, log)
	driverService := service.NewDriverService(driverRepo, identityClient, credentialMailer, &cfg.Email, log)

	// Report renderers
	excelRenderer := report.NewExcelRenderer(log)
	pdfRenderer := report.NewPDFRenderer()

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	reportHandler := handler.NewReportHandler(quotationService, excelRenderer, pdfRenderer, artifactStorage, &cfg.Storage, log)
	driverHandler := handler.NewDriverHandler(driverService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		gateway,
		rateLimiter,
		quotationHandler,
		reportHandler,
		driverHandler,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
