package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an id when none was set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ApprovalStatus tracks a single downstream sign-off on a quotation
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalAccepted ApprovalStatus = "accepted"
	ApprovalRejected ApprovalStatus = "rejected"
)

// StatusNotDelivered is the quotation status applied when the caller supplies none.
// StatusDelivered stamps the actual delivery date on a revision write.
const (
	StatusNotDelivered = "not Delivered"
	StatusDelivered    = "delivered"
)

// VATRate is the flat VAT applied to every quotation line
const VATRate = 0.15

// Quotation is the header record of a priced order
type Quotation struct {
	BaseModel
	CustomID           string             `gorm:"type:varchar(100);not null;index"`
	ClientID           *uuid.UUID         `gorm:"type:uuid;index"`
	Client             *Client            `gorm:"foreignKey:ClientID"`
	SalesRepID         *uuid.UUID         `gorm:"type:uuid;index"`
	SupervisorID       *uuid.UUID         `gorm:"type:uuid;index"`
	Supervisor         *Supervisor        `gorm:"foreignKey:SupervisorID"`
	DeliveryDate       string             `gorm:"type:varchar(50)"`
	DeliveryType       string             `gorm:"type:varchar(100)"`
	Notes              string             `gorm:"type:text"`
	StorekeeperNotes   string             `gorm:"type:text"`
	Status             string             `gorm:"type:varchar(50);not null;default:'not Delivered'"`
	StorekeeperAccept  ApprovalStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	SupervisorAccept   ApprovalStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	ManagerAccept      ApprovalStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Exported           bool               `gorm:"not null;default:false"`
	TotalPrice         float64            `gorm:"type:decimal(15,2);not null;default:0"`
	TotalVAT           float64            `gorm:"column:total_vat;type:decimal(15,2);not null;default:0"`
	TotalSubtotal      float64            `gorm:"type:decimal(15,2);not null;default:0"`
	ActualDeliveryDate *time.Time
	Products           []QuotationProduct `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	Locations          []OrderLocation    `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

func (Quotation) TableName() string {
	return "quotations"
}

// QuotationProduct is a single line item, owned exclusively by its quotation.
// The full set is replaced on every revision write.
type QuotationProduct struct {
	BaseModel
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Section     string    `gorm:"type:varchar(100)"`
	ProductType string    `gorm:"column:type;type:varchar(100)"`
	Description string    `gorm:"type:text"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null;default:0"`
	Price       float64   `gorm:"type:decimal(15,2);not null;default:0"`
	VAT         float64   `gorm:"column:vat;type:decimal(15,2);not null;default:0"`
	Subtotal    float64   `gorm:"type:decimal(15,2);not null;default:0"`
	// Position preserves the order line items were submitted in
	Position int `gorm:"not null;default:0"`
}

func (QuotationProduct) TableName() string {
	return "quotation_products"
}

// Client is the company a quotation is issued to; read-only here
type Client struct {
	BaseModel
	CompanyName   string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200)"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:varchar(500)"`
}

func (Client) TableName() string {
	return "clients"
}

// SalesRep is the representative who owns the client relationship; read-only here
type SalesRep struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(50)"`
}

func (SalesRep) TableName() string {
	return "salesreps"
}

// Supervisor signs off on quotations for their region; read-only here
type Supervisor struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(50)"`
}

func (Supervisor) TableName() string {
	return "supervisors"
}

// DriverRole is the set of provisionable staff roles
type DriverRole string

const (
	RoleDriver     DriverRole = "driver"
	RoleAdmin      DriverRole = "admin"
	RoleDispatcher DriverRole = "dispatcher"
)

// ValidDriverRole reports whether role is one of the provisionable roles
func ValidDriverRole(role DriverRole) bool {
	switch role {
	case RoleDriver, RoleAdmin, RoleDispatcher:
		return true
	}
	return false
}

// Driver is a locally persisted staff account backed by the external identity provider
type Driver struct {
	BaseModel
	Name    string     `gorm:"type:varchar(200);not null"`
	Email   string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone   string     `gorm:"type:varchar(50);not null"`
	ClerkID string     `gorm:"column:clerk_id;type:varchar(100)"`
	Role    DriverRole `gorm:"type:varchar(20);not null"`
}

func (Driver) TableName() string {
	return "drivers"
}

// OrderLocation is a delivery-tracking point recorded against a quotation
type OrderLocation struct {
	BaseModel
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Latitude    float64   `gorm:"type:decimal(10,7);not null"`
	Longitude   float64   `gorm:"type:decimal(10,7);not null"`
	RecordedAt  time.Time `gorm:"not null"`
}

func (OrderLocation) TableName() string {
	return "order_locations"
}
