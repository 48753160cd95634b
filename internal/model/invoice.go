package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice payment statuses. Status is always derived from the payment ledger.
const (
	InvoiceStatusUnpaid  = "unpaid"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
)

// Invoice is a GST tax invoice issued to a customer
type Invoice struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber     string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoiceNumber"`
	CustomerName      string          `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerAddress   string          `gorm:"type:text" json:"customerAddress"`
	CustomerGSTIN     string          `gorm:"column:customer_gstin;type:varchar(15)" json:"customerGstin"`
	CustomerStateCode string          `gorm:"type:varchar(2)" json:"customerStateCode"`
	InvoiceDate       time.Time       `gorm:"not null;index" json:"invoiceDate"`
	DueDate           *time.Time      `gorm:"index" json:"dueDate"`
	LocationID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"locationId"`
	Location          *Location       `gorm:"foreignKey:LocationID" json:"-"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	CGSTAmount        decimal.Decimal `gorm:"column:cgst_amount;type:decimal(18,4);not null;default:0" json:"cgstAmount"`
	SGSTAmount        decimal.Decimal `gorm:"column:sgst_amount;type:decimal(18,4);not null;default:0" json:"sgstAmount"`
	IGSTAmount        decimal.Decimal `gorm:"column:igst_amount;type:decimal(18,4);not null;default:0" json:"igstAmount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"totalAmount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paidAmount"`
	Status            string          `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"status"`
	Notes             string          `gorm:"type:text" json:"notes"`
	Items             []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// InvoiceItem is a line on an Invoice. Rates are snapshotted at issue time
// so later product rate changes never alter historical invoices.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unitPrice"`
	HSNCode     string          `gorm:"column:hsn_code;type:varchar(20)" json:"hsnCode"`
	GSTRate     decimal.Decimal `gorm:"column:gst_rate;type:decimal(6,2);not null" json:"gstRate"`
	CGSTRate    decimal.Decimal `gorm:"column:cgst_rate;type:decimal(6,2);not null;default:0" json:"cgstRate"`
	SGSTRate    decimal.Decimal `gorm:"column:sgst_rate;type:decimal(6,2);not null;default:0" json:"sgstRate"`
	IGSTRate    decimal.Decimal `gorm:"column:igst_rate;type:decimal(6,2);not null;default:0" json:"igstRate"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`      // pre-tax
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"totalAmount"` // including tax
}
