package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"gorm.io/gorm"
)

// QuotationRepository persists quotation headers and their owned line items.
// Every access goes through the gateway: reads under the retry policy,
// writes at most once.
type QuotationRepository struct {
	db *gorm.DB
	gw *database.Gateway
}

func NewQuotationRepository(db *gorm.DB, gw *database.Gateway) *QuotationRepository {
	return &QuotationRepository{db: db, gw: gw}
}

// GetByID loads the quotation header with its client, supervisor, ordered
// line items and tracking locations
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.gw.Read(ctx, "quotation.get_by_id", func(ctx context.Context) error {
		return r.db.WithContext(ctx).
			Preload("Client").
			Preload("Supervisor").
			Preload("Products", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Preload("Locations", func(db *gorm.DB) *gorm.DB {
				return db.Order("recorded_at ASC")
			}).
			Where("id = ?", id).
			First(&quotation).Error
	})
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// GetHeaderByID loads only the quotation row, without associations
func (r *QuotationRepository) GetHeaderByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.gw.Read(ctx, "quotation.get_header", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&quotation).Error
	})
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, search, status string) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	err := r.gw.Read(ctx, "quotation.list", func(ctx context.Context) error {
		query := r.db.WithContext(ctx).Model(&domain.Quotation{}).Preload("Client")

		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(custom_id) LIKE ?", pattern)
		}
		if status != "" {
			query = query.Where("status = ?", status)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		offset := (page - 1) * pageSize
		return query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error
	})

	return quotations, total, err
}

// WithTransaction runs fn inside a single database transaction through the
// gateway's write policy
func (r *QuotationRepository) WithTransaction(ctx context.Context, name string, fn func(tx *gorm.DB) error) error {
	return r.gw.Write(ctx, name, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(fn)
	})
}

// UpdateHeaderTx saves the full header row inside an open transaction
func (r *QuotationRepository) UpdateHeaderTx(tx *gorm.DB, quotation *domain.Quotation) error {
	return tx.Save(quotation).Error
}

// ReplaceProductsTx deletes every line item of the quotation and inserts the
// supplied set inside an open transaction
func (r *QuotationRepository) ReplaceProductsTx(tx *gorm.DB, quotationID uuid.UUID, products []domain.QuotationProduct) error {
	if err := tx.Where("quotation_id = ?", quotationID).Delete(&domain.QuotationProduct{}).Error; err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	return tx.Create(&products).Error
}

// DeleteTx removes the line items, tracking points and then the header inside
// an open transaction, so a partial failure leaves nothing orphaned
func (r *QuotationRepository) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("quotation_id = ?", id).Delete(&domain.QuotationProduct{}).Error; err != nil {
		return err
	}
	if err := tx.Where("quotation_id = ?", id).Delete(&domain.OrderLocation{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&domain.Quotation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkExported flags the quotation as exported. Already-exported rows are
// left untouched and the call still succeeds.
func (r *QuotationRepository) MarkExported(ctx context.Context, id uuid.UUID) error {
	return r.gw.Write(ctx, "quotation.mark_exported", func(ctx context.Context) error {
		result := r.db.WithContext(ctx).Model(&domain.Quotation{}).
			Where("id = ?", id).
			Update("exported", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := r.db.WithContext(ctx).Model(&domain.Quotation{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// StampActualDeliveryTx sets actual_delivery_date only if it has not been set
// before, preserving the first delivery timestamp
func (r *QuotationRepository) StampActualDeliveryTx(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	return tx.Model(&domain.Quotation{}).
		Where("id = ?", id).
		Update("actual_delivery_date", gorm.Expr("COALESCE(actual_delivery_date, ?)", at)).Error
}
