package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/database"
	"github.com/quotedesk/quotation-api/internal/domain"
	"gorm.io/gorm"
)

type SalesRepRepository struct {
	db *gorm.DB
	gw *database.Gateway
}

func NewSalesRepRepository(db *gorm.DB, gw *database.Gateway) *SalesRepRepository {
	return &SalesRepRepository{db: db, gw: gw}
}

func (r *SalesRepRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SalesRep, error) {
	var rep domain.SalesRep
	err := r.gw.Read(ctx, "salesrep.get_by_id", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
