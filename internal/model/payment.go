package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment entity types
const (
	EntityTypeInvoice       = "invoice"
	EntityTypeSupplierOrder = "supplierOrder"
)

// Payment is an append-only ledger entry against an invoice or supplier order
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityType    string          `gorm:"type:varchar(20);not null;index:idx_payment_entity" json:"entityType"`
	EntityID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_payment_entity" json:"entityId"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"not null;index" json:"paymentDate"`
	PaymentMethod string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	Reference     string          `gorm:"type:varchar(100)" json:"reference"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PriceRevaluation is an immutable record of a product price change
type PriceRevaluation struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	OldPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"oldPrice"`
	NewPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"newPrice"`
	RevaluationDate time.Time       `gorm:"not null;index" json:"revaluationDate"`
	Reason          string          `gorm:"type:text;not null" json:"reason"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"userId"`
}
