package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/config"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *database.Gateway) {
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

	return db, gw
}

func setupQuotationService(t *testing.T) (*QuotationService, *gorm.DB) {
	t.Helper()
	db, gw := setupTestDB(t)
	svc := NewQuotationService(
		repository.NewQuotationRepository(db, gw),
		repository.NewSalesRepRepository(db, gw),
		zap.NewNop(),
	)
	return svc, db
}

func seedQuotation(t *testing.T, db *gorm.DB, customID string) *domain.Quotation {
	t.Helper()

	client := &domain.Client{CompanyName: "Nordic Pipe AS", Email: "post@nordicpipe.no", Phone: "+47 22 11 00 99"}
	require.NoError(t, db.Create(client).Error)

	supervisor := &domain.Supervisor{Name: "Kari Berg"}
	require.NoError(t, db.Create(supervisor).Error)

	rep := &domain.SalesRep{Name: "Ola Vik", Email: "ola@quotedesk.test", Phone: "+47 900 11 222"}
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

func TestQuotationServiceGetByID(t *testing.T) {
	svc, db := setupQuotationService(t)
	ctx := context.Background()

	t.Run("assembles the full aggregate", func(t *testing.T) {
		seeded := seedQuotation(t, db, "ORD-1042")

		dto, err := svc.GetByID(ctx, seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, "ORD-1042", dto.CustomID)
		assert.Equal(t, "Nordic Pipe AS", dto.ClientName)
		assert.Equal(t, "Kari Berg", dto.SupervisorName)
		require.NotNil(t, dto.SalesRep)
		assert.Equal(t, "Ola Vik", dto.SalesRep.Name)
		require.Len(t, dto.Products, 2)
		assert.Equal(t, "pipes", dto.Products[0].Section)
		assert.Equal(t, "fittings", dto.Products[1].Section)
		assert.Equal(t, domain.ApprovalPending, dto.StorekeeperAccept)
		assert.False(t, dto.Exported)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrQuotationNotFound)
	})

	t.Run("missing sales rep renders as null", func(t *testing.T) {
		danglingRep := uuid.New()
		quotation := &domain.Quotation{CustomID: "ORD-2000", SalesRepID: &danglingRep, Status: domain.StatusNotDelivered}
		require.NoError(t, db.Create(quotation).Error)

		dto, err := svc.GetByID(ctx, quotation.ID)
		require.NoError(t, err)
		assert.Nil(t, dto.SalesRep)
	})
}

func TestQuotationServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("first revision appends Rev1", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		customID, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{})
		require.NoError(t, err)
		assert.Equal(t, "ORD-1042 Rev1", customID)
	})

	t.Run("existing revision increments", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042 Rev3")

		customID, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{})
		require.NoError(t, err)
		assert.Equal(t, "ORD-1042 Rev4", customID)
	})

	t.Run("replaces line items and recomputes totals", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{
			Products: []domain.QuotationProductInput{
				{Section: "valves", Type: "ball", Quantity: 10, Price: 50},
			},
		})
		require.NoError(t, err)

		var updated domain.Quotation
		require.NoError(t, db.Preload("Products").First(&updated, "id = ?", seeded.ID).Error)

		require.Len(t, updated.Products, 1)
		assert.Equal(t, "valves", updated.Products[0].Section)
		assert.InDelta(t, 75.0, updated.Products[0].VAT, 1e-9)
		assert.InDelta(t, 575.0, updated.Products[0].Subtotal, 1e-9)
		assert.InDelta(t, 500.0, updated.TotalPrice, 1e-9)
		assert.InDelta(t, 75.0, updated.TotalVAT, 1e-9)
		assert.InDelta(t, 575.0, updated.TotalSubtotal, 1e-9)
	})

	t.Run("omitted products leave line items and totals alone", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{Notes: "call before delivery"})
		require.NoError(t, err)

		var updated domain.Quotation
		require.NoError(t, db.Preload("Products").First(&updated, "id = ?", seeded.ID).Error)
		assert.Len(t, updated.Products, 2)
		assert.InDelta(t, 300.0, updated.TotalPrice, 1e-9)
		assert.Equal(t, "call before delivery", updated.Notes)
	})

	t.Run("resets the approval cycle", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")
		require.NoError(t, db.Model(seeded).Updates(map[string]interface{}{
			"storekeeper_accept": domain.ApprovalAccepted,
			"supervisor_accept":  domain.ApprovalAccepted,
			"manager_accept":     domain.ApprovalRejected,
		}).Error)

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{})
		require.NoError(t, err)

		var updated domain.Quotation
		require.NoError(t, db.First(&updated, "id = ?", seeded.ID).Error)
		assert.Equal(t, domain.ApprovalPending, updated.StorekeeperAccept)
		assert.Equal(t, domain.ApprovalPending, updated.SupervisorAccept)
		assert.Equal(t, domain.ApprovalPending, updated.ManagerAccept)
	})

	t.Run("delivered status stamps the actual delivery date once", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{Status: domain.StatusDelivered})
		require.NoError(t, err)

		var first domain.Quotation
		require.NoError(t, db.First(&first, "id = ?", seeded.ID).Error)
		require.NotNil(t, first.ActualDeliveryDate)
		stamped := *first.ActualDeliveryDate
		assert.WithinDuration(t, time.Now().UTC(), stamped, 5*time.Second)

		// A later delivered revision must not move the timestamp
		_, err = svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{Status: domain.StatusDelivered})
		require.NoError(t, err)

		var second domain.Quotation
		require.NoError(t, db.First(&second, "id = ?", seeded.ID).Error)
		require.NotNil(t, second.ActualDeliveryDate)
		assert.Equal(t, stamped.Unix(), second.ActualDeliveryDate.Unix())
	})

	t.Run("omitted status resets to the default", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")
		require.NoError(t, db.Model(seeded).Update("status", domain.StatusDelivered).Error)

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{})
		require.NoError(t, err)

		var updated domain.Quotation
		require.NoError(t, db.First(&updated, "id = ?", seeded.ID).Error)
		assert.Equal(t, domain.StatusNotDelivered, updated.Status)
		// The stamp keys on the submitted status, not the stored one
		assert.Nil(t, updated.ActualDeliveryDate)
	})

	t.Run("failed revision leaves the header untouched", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		// Force the line-item replacement to fail mid-transaction
		require.NoError(t, db.Migrator().DropTable(&domain.QuotationProduct{}))

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{
			Status: domain.StatusDelivered,
			Products: []domain.QuotationProductInput{
				{Section: "valves", Type: "ball", Quantity: 10, Price: 50},
			},
		})
		require.Error(t, err)

		var stored domain.Quotation
		require.NoError(t, db.First(&stored, "id = ?", seeded.ID).Error)
		assert.Equal(t, "ORD-1042", stored.CustomID)
		assert.InDelta(t, 300.0, stored.TotalPrice, 1e-9)
		assert.InDelta(t, 45.0, stored.TotalVAT, 1e-9)
		assert.InDelta(t, 345.0, stored.TotalSubtotal, 1e-9)
		assert.Nil(t, stored.ActualDeliveryDate)
	})

	t.Run("non delivered status leaves the delivery date empty", func(t *testing.T) {
		svc, db := setupQuotationService(t)
		seeded := seedQuotation(t, db, "ORD-1042")

		_, err := svc.Update(ctx, seeded.ID, &domain.UpdateQuotationRequest{Status: "in transit"})
		require.NoError(t, err)

		var updated domain.Quotation
		require.NoError(t, db.First(&updated, "id = ?", seeded.ID).Error)
		assert.Nil(t, updated.ActualDeliveryDate)
		assert.Equal(t, "in transit", updated.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setupQuotationService(t)
		_, err := svc.Update(ctx, uuid.New(), &domain.UpdateQuotationRequest{})
		assert.ErrorIs(t, err, ErrQuotationNotFound)
	})
}

func TestQuotationServiceMarkExported(t *testing.T) {
	svc, db := setupQuotationService(t)
	ctx := context.Background()

	t.Run("sets the flag and is idempotent", func(t *testing.T) {
		seeded := seedQuotation(t, db, "ORD-1042")

		require.NoError(t, svc.MarkExported(ctx, seeded.ID))

		var first domain.Quotation
		require.NoError(t, db.First(&first, "id = ?", seeded.ID).Error)
		assert.True(t, first.Exported)

		// Repeat call succeeds without complaint
		require.NoError(t, svc.MarkExported(ctx, seeded.ID))
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.MarkExported(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrQuotationNotFound)
	})
}

func TestQuotationServiceDelete(t *testing.T) {
	svc, db := setupQuotationService(t)
	ctx := context.Background()

	t.Run("removes header, line items and tracking points together", func(t *testing.T) {
		seeded := seedQuotation(t, db, "ORD-1042")
		require.NoError(t, db.Create(&domain.OrderLocation{
			QuotationID: seeded.ID,
			Latitude:    59.9139,
			Longitude:   10.7522,
			RecordedAt:  time.Now().UTC(),
		}).Error)

		require.NoError(t, svc.Delete(ctx, seeded.ID))

		var headerCount, productCount, locationCount int64
		require.NoError(t, db.Model(&domain.Quotation{}).Where("id = ?", seeded.ID).Count(&headerCount).Error)
		require.NoError(t, db.Model(&domain.QuotationProduct{}).Where("quotation_id = ?", seeded.ID).Count(&productCount).Error)
		require.NoError(t, db.Model(&domain.OrderLocation{}).Where("quotation_id = ?", seeded.ID).Count(&locationCount).Error)
		assert.Zero(t, headerCount)
		assert.Zero(t, productCount)
		assert.Zero(t, locationCount)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrQuotationNotFound)
	})
}

func TestQuotationServiceList(t *testing.T) {
	svc, db := setupQuotationService(t)
	ctx := context.Background()

	seedQuotation(t, db, "ORD-1001")
	seedQuotation(t, db, "ORD-1002")
	seedQuotation(t, db, "PRJ-9000")

	t.Run("paginates", func(t *testing.T) {
		page, total, err := svc.List(ctx, 1, 2, "", "")
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, page, 2)
	})

	t.Run("filters on custom id", func(t *testing.T) {
		page, total, err := svc.List(ctx, 1, 10, "ord-10", "")
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, q := range page {
			assert.Contains(t, q.CustomID, "ORD-10")
		}
	})

	t.Run("filters on status", func(t *testing.T) {
		require.NoError(t, db.Model(&domain.Quotation{}).
			Where("custom_id = ?", "PRJ-9000").
			Update("status", domain.StatusDelivered).Error)

		page, total, err := svc.List(ctx, 1, 10, "", domain.StatusDelivered)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, page, 1)
		assert.Equal(t, "PRJ-9000", page[0].CustomID)
	})
}
