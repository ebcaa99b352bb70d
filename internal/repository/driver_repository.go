package repository

import (
	"context"
	"strings"

	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"gorm.io/gorm"
)

type DriverRepository struct {
	db *gorm.DB
	gw *database.Gateway
}

func NewDriverRepository(db *gorm.DB, gw *database.Gateway) *DriverRepository {
	return &DriverRepository{db: db, gw: gw}
}

func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	return r.gw.Write(ctx, "driver.create", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Create(driver).Error
	})
}

// ExistsByEmail reports whether a driver with the given email is already
// registered. The comparison is case-insensitive.
func (r *DriverRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.gw.Read(ctx, "driver.exists_by_email", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Model(&domain.Driver{}).
			Where("LOWER(email) = ?", strings.ToLower(email)).
			Count(&count).Error
	})
	return count > 0, err
}

// List returns a page of drivers, optionally filtered by a case-insensitive
// match on name or email
func (r *DriverRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Driver, int64, error) {
	var drivers []domain.Driver
	var total int64

	err := r.gw.Read(ctx, "driver.list", func(ctx context.Context) error {
		query := r.db.WithContext(ctx).Model(&domain.Driver{})

		if search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		offset := (page - 1) * pageSize
		return query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&drivers).Error
	})

	return drivers, total, err
}
