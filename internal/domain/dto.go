package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// LooseNumber decodes a JSON number that upstream clients sometimes send as a
// string. Anything that fails to parse decodes to zero rather than failing the
// whole request body.
type LooseNumber float64

func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = LooseNumber(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = LooseNumber(f)
	return nil
}

func (n LooseNumber) Float64() float64 {
	return float64(n)
}

// QuotationProductInput is one submitted line item; vat and subtotal are
// always recomputed server-side
type QuotationProductInput struct {
	Section     string      `json:"section"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Quantity    LooseNumber `json:"quantity"`
	Price       LooseNumber `json:"price"`
}

// UpdateQuotationRequest is the revision-write payload. A nil Products slice
// means the caller did not touch line items; an empty one clears them.
type UpdateQuotationRequest struct {
	ClientID         *uuid.UUID              `json:"client_id"`
	SupervisorID     *uuid.UUID              `json:"supervisor_id"`
	DeliveryDate     string                  `json:"delivery_date"`
	DeliveryType     string                  `json:"delivery_type"`
	Notes            string                  `json:"notes"`
	StorekeeperNotes string                  `json:"storekeeper_notes"`
	Status           string                  `json:"status"`
	Products         []QuotationProductInput `json:"products"`
}

type QuotationProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Section     string    `json:"section"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	VAT         float64   `json:"vat"`
	Subtotal    float64   `json:"subtotal"`
}

type SalesRepDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

type OrderLocationDTO struct {
	ID         uuid.UUID `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// QuotationDetailDTO is the full aggregate view of one quotation
type QuotationDetailDTO struct {
	ID                 uuid.UUID             `json:"id"`
	CustomID           string                `json:"custom_id"`
	Status             string                `json:"status"`
	DeliveryDate       string                `json:"delivery_date"`
	DeliveryType       string                `json:"delivery_type"`
	Notes              string                `json:"notes"`
	StorekeeperNotes   string                `json:"storekeeper_notes"`
	StorekeeperAccept  ApprovalStatus        `json:"storekeeper_accept"`
	SupervisorAccept   ApprovalStatus        `json:"supervisor_accept"`
	ManagerAccept      ApprovalStatus        `json:"manager_accept"`
	Exported           bool                  `json:"exported"`
	TotalPrice         float64               `json:"total_price"`
	TotalVAT           float64               `json:"total_vat"`
	TotalSubtotal      float64               `json:"total_subtotal"`
	ActualDeliveryDate *time.Time            `json:"actual_delivery_date"`
	ClientID           *uuid.UUID            `json:"client_id"`
	ClientName         string                `json:"client_name"`
	ClientEmail        string                `json:"client_email"`
	ClientPhone        string                `json:"client_phone"`
	SupervisorName     string                `json:"supervisor_name"`
	SalesRep           *SalesRepDTO          `json:"sales_rep"`
	Products           []QuotationProductDTO `json:"products"`
	Locations          []OrderLocationDTO    `json:"locations"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type QuotationSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	CustomID     string    `json:"custom_id"`
	Status       string    `json:"status"`
	ClientName   string    `json:"client_name"`
	TotalPrice   float64   `json:"total_price"`
	Exported     bool      `json:"exported"`
	DeliveryDate string    `json:"delivery_date"`
	CreatedAt    time.Time `json:"created_at"`
}

type UpdateQuotationResponse struct {
	Message  string `json:"message"`
	CustomID string `json:"custom_id"`
}

type ExportedQuotation struct {
	ID       uuid.UUID `json:"id"`
	Exported bool      `json:"exported"`
}

type ExportQuotationResponse struct {
	Message   string            `json:"message"`
	Quotation ExportedQuotation `json:"quotation"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CreateDriverRequest provisions a staff account. When ClerkID carries an
// existing identity-provider reference it is stored as-is and no new account
// is registered.
type CreateDriverRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=driver admin dispatcher"`
	ClerkID string `json:"clerk_id"`
}

type DriverDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	ClerkID   string     `json:"clerk_id"`
	Role      DriverRole `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// PaginatedResponse wraps list endpoints
type PaginatedResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func NewDriverDTO(d *Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		ClerkID:   d.ClerkID,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
	}
}
