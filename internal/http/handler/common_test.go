package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/identity"
	"github.com/quotedesk/quotation-api/internal/report"
	"github.com/quotedesk/quotation-api/internal/repository"
	"github.com/quotedesk/quotation-api/internal/service"
	"github.com/quotedesk/quotation-api/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeIdentityProvider struct {
	calls  int
	params identity.CreateUserParams
	err    error
}

func (f *fakeIdentityProvider) CreateUser(ctx context.Context, params identity.CreateUserParams) (string, error) {
	f.calls++
	f.params = params
	if f.err != nil {
		return "", f.err
	}
	return "user_2x9zK", nil
}

type fakeMailer struct {
	calls int
}

func (f *fakeMailer) SendCredentials(ctx context.Context, name, toEmail, password string) error {
	f.calls++
	return nil
}

type testEnv struct {
	db       *gorm.DB
	router   *chi.Mux
	provider *fakeIdentityProvider
	store    storage.Storage
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	gw := database.NewGateway(&config.RetryConfig{
		MaxAttempts:      3,
		InitialBackoffMs: 1,
		DataTimeoutSec:   10,
		HealthTimeoutSec: 5,
	}, zap.NewNop())

	log := zap.NewNop()

	quotationService := service.NewQuotationService(
		repository.NewQuotationRepository(db, gw),
		repository.NewSalesRepRepository(db, gw),
		log,
	)

	provider := &fakeIdentityProvider{}
	driverService := service.NewDriverService(
		repository.NewDriverRepository(db, gw),
		provider,
		&fakeMailer{},
		&config.EmailConfig{SendCredentials: false},
		log,
	)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	quotationHandler := NewQuotationHandler(quotationService, log)
	driverHandler := NewDriverHandler(driverService, log)
	reportHandler := NewReportHandler(
		quotationService,
		report.NewExcelRenderer(log),
		report.NewPDFRenderer(),
		store,
		&config.StorageConfig{Mode: "local", ArchiveExports: true},
		log,
	)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", quotationHandler.List)
			r.Get("/{id}", quotationHandler.GetByID)
			r.Put("/{id}", quotationHandler.Update)
			r.Delete("/{id}", quotationHandler.Delete)
			r.Put("/{id}/export", quotationHandler.MarkExported)
			r.Get("/{id}/excel", reportHandler.Excel)
			r.Get("/{id}/pdf", reportHandler.PDF)
		})
		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", driverHandler.List)
			r.Post("/", driverHandler.Create)
		})
	})

	return &testEnv{db: db, router: r, provider: provider, store: store}
}

func seedQuotation(t *testing.T, db *gorm.DB, customID string) *domain.Quotation {
	t.Helper()

	client := &domain.Client{CompanyName: "Nordic Pipe AS", Email: "post@nordicpipe.no"}
	require.NoError(t, db.Create(client).Error)

	supervisor := &domain.Supervisor{Name: "Kari Berg"}
	require.NoError(t, db.Create(supervisor).Error)

	rep := &domain.SalesRep{Name: "Ola Vik", Email: "ola@quotedesk.test"}
	require.NoError(t, db.Create(rep).Error)

	quotation := &domain.Quotation{
		CustomID:     customID,
		ClientID:     &client.ID,
		SupervisorID: &supervisor.ID,
		SalesRepID:   &rep.ID,
		Status:       domain.StatusNotDelivered,
		DeliveryDate: "2026-09-15",
		DeliveryType: "site",
		Products: []domain.QuotationProduct{
			{Section: "pipes", ProductType: "steel", Quantity: 2, Price: 100, VAT: 30, Subtotal: 230, Position: 0},
			{Section: "fittings", ProductType: "brass", Quantity: 4, Price: 25, VAT: 15, Subtotal: 115, Position: 1},
		},
		TotalPrice:    300,
		TotalVAT:      45,
		TotalSubtotal: 345,
	}
	require.NoError(t, db.Create(quotation).Error)
	return quotation
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
