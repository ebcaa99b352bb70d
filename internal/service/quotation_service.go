package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/quotedesk/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	salesRepRepo  *repository.SalesRepRepository
	logger        *zap.Logger
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	salesRepRepo *repository.SalesRepRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		salesRepRepo:  salesRepRepo,
		logger:        logger,
	}
}

// GetByID assembles the full quotation view: header, client, supervisor,
// ordered line items and the owning sales rep. A missing header stops the
// assembly before any related reads happen.
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDetailDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to load quotation: %w", err)
	}

	var salesRep *domain.SalesRep
	if quotation.SalesRepID != nil {
		salesRep, err = s.salesRepRepo.GetByID(ctx, *quotation.SalesRepID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load sales rep: %w", err)
			}
			// A dangling reference renders as null rather than failing the read
			salesRep = nil
		}
	}

	return toDetailDTO(quotation, salesRep), nil
}

// Update writes a new revision of the quotation in a single transaction:
// the custom id advances one revision, totals are recomputed from the
// submitted line items, the approval flags reset to pending, and a delivered
// status stamps the actual delivery date once.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (string, error) {
	quotation, err := s.quotationRepo.GetHeaderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrQuotationNotFound
		}
		return "", fmt.Errorf("failed to load quotation: %w", err)
	}

	newCustomID := domain.NextCustomID(quotation.CustomID)
	quotation.CustomID = newCustomID

	if req.ClientID != nil {
		quotation.ClientID = req.ClientID
	}
	if req.SupervisorID != nil {
		quotation.SupervisorID = req.SupervisorID
	}
	if req.DeliveryDate != "" {
		quotation.DeliveryDate = req.DeliveryDate
	}
	if req.DeliveryType != "" {
		quotation.DeliveryType = req.DeliveryType
	}
	quotation.Notes = req.Notes
	quotation.StorekeeperNotes = req.StorekeeperNotes

	// An omitted status falls back to the default rather than keeping the
	// stored value
	status := req.Status
	if status == "" {
		status = domain.StatusNotDelivered
	}
	quotation.Status = status

	// Every revision restarts the approval cycle
	quotation.StorekeeperAccept = domain.ApprovalPending
	quotation.SupervisorAccept = domain.ApprovalPending
	quotation.ManagerAccept = domain.ApprovalPending

	var products []domain.QuotationProduct
	if req.Products != nil {
		var totals domain.Totals
		products, totals = domain.BuildProducts(quotation.ID, req.Products)
		quotation.TotalPrice = totals.Price
		quotation.TotalVAT = totals.VAT
		quotation.TotalSubtotal = totals.Subtotal
	}

	err = s.quotationRepo.WithTransaction(ctx, "quotation.update", func(tx *gorm.DB) error {
		if err := s.quotationRepo.UpdateHeaderTx(tx, quotation); err != nil {
			return err
		}
		if req.Products != nil {
			if err := s.quotationRepo.ReplaceProductsTx(tx, quotation.ID, products); err != nil {
				return err
			}
		}
		if status == domain.StatusDelivered {
			if err := s.quotationRepo.StampActualDeliveryTx(tx, quotation.ID, time.Now().UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to update quotation: %w", err)
	}

	s.logger.Info("quotation revised",
		zap.String("quotation_id", id.String()),
		zap.String("custom_id", newCustomID),
	)
	return newCustomID, nil
}

// MarkExported flags the quotation as handed over to the ERP export.
// Calling it again for an already-exported quotation succeeds without
// changing anything.
func (s *QuotationService) MarkExported(ctx context.Context, id uuid.UUID) error {
	err := s.quotationRepo.MarkExported(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotationNotFound
		}
		return fmt.Errorf("failed to mark quotation exported: %w", err)
	}

	s.logger.Info("quotation marked exported", zap.String("quotation_id", id.String()))
	return nil
}

// Delete removes the quotation and its line items in one transaction
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.quotationRepo.WithTransaction(ctx, "quotation.delete", func(tx *gorm.DB) error {
		return s.quotationRepo.DeleteTx(tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuotationNotFound
		}
		return fmt.Errorf("failed to delete quotation: %w", err)
	}

	s.logger.Info("quotation deleted", zap.String("quotation_id", id.String()))
	return nil
}

// List returns a page of quotation summaries, optionally filtered by a
// custom id search
func (s *QuotationService) List(ctx context.Context, page, pageSize int, search, status string) ([]domain.QuotationSummaryDTO, int64, error) {
	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, search, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}

	summaries := make([]domain.QuotationSummaryDTO, len(quotations))
	for i, q := range quotations {
		clientName := ""
		if q.Client != nil {
			clientName = q.Client.CompanyName
		}
		summaries[i] = domain.QuotationSummaryDTO{
			ID:           q.ID,
			CustomID:     q.CustomID,
			Status:       q.Status,
			ClientName:   clientName,
			TotalPrice:   q.TotalPrice,
			Exported:     q.Exported,
			DeliveryDate: q.DeliveryDate,
			CreatedAt:    q.CreatedAt,
		}
	}
	return summaries, total, nil
}

// LoadForRender returns the aggregate used by the report renderers
func (s *QuotationService) LoadForRender(ctx context.Context, id uuid.UUID) (*domain.QuotationDetailDTO, error) {
	return s.GetByID(ctx, id)
}

func toDetailDTO(q *domain.Quotation, salesRep *domain.SalesRep) *domain.QuotationDetailDTO {
	dto := &domain.QuotationDetailDTO{
		ID:                 q.ID,
		CustomID:           q.CustomID,
		Status:             q.Status,
		DeliveryDate:       q.DeliveryDate,
		DeliveryType:       q.DeliveryType,
		Notes:              q.Notes,
		StorekeeperNotes:   q.StorekeeperNotes,
		StorekeeperAccept:  q.StorekeeperAccept,
		SupervisorAccept:   q.SupervisorAccept,
		ManagerAccept:      q.ManagerAccept,
		Exported:           q.Exported,
		TotalPrice:         q.TotalPrice,
		TotalVAT:           q.TotalVAT,
		TotalSubtotal:      q.TotalSubtotal,
		ActualDeliveryDate: q.ActualDeliveryDate,
		ClientID:           q.ClientID,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
		Products:           make([]domain.QuotationProductDTO, len(q.Products)),
		Locations:          make([]domain.OrderLocationDTO, len(q.Locations)),
	}

	if q.Client != nil {
		dto.ClientName = q.Client.CompanyName
		dto.ClientEmail = q.Client.Email
		dto.ClientPhone = q.Client.Phone
	}
	if q.Supervisor != nil {
		dto.SupervisorName = q.Supervisor.Name
	}
	if salesRep != nil {
		dto.SalesRep = &domain.SalesRepDTO{
			ID:    salesRep.ID,
			Name:  salesRep.Name,
			Email: salesRep.Email,
			Phone: salesRep.Phone,
		}
	}

	for i, p := range q.Products {
		dto.Products[i] = domain.QuotationProductDTO{
			ID:          p.ID,
			Section:     p.Section,
			Type:        p.ProductType,
			Description: p.Description,
			Quantity:    p.Quantity,
			Price:       p.Price,
			VAT:         p.VAT,
			Subtotal:    p.Subtotal,
		}
	}
	for i, l := range q.Locations {
		dto.Locations[i] = domain.OrderLocationDTO{
			ID:         l.ID,
			Latitude:   l.Latitude,
			Longitude:  l.Longitude,
			RecordedAt: l.RecordedAt,
		}
	}
	return dto
}
