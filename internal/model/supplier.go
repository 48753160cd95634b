package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier represents a vendor we purchase stock from
type Supplier struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactName string    `gorm:"type:varchar(255)" json:"contactName"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Address     string    `gorm:"type:text" json:"address"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	GSTNumber   string    `gorm:"column:gst_number;type:varchar(15)" json:"gstNumber"` // GSTIN
	PANNumber   string    `gorm:"column:pan_number;type:varchar(10)" json:"panNumber"`
	StateCode   string    `gorm:"type:varchar(2)" json:"stateCode"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SupplierProduct records which supplier provides which product
type SupplierProduct struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplierId"`
	ProductID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"productId"`
	LeadTime   *int                `json:"leadTime"` // days
	UnitCost   decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"unitCost"`
}

// SupplierOrder workflow statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Payment statuses for supplier orders
const (
	OrderPaymentPending = "pending"
	OrderPaymentPartial = "partial"
	OrderPaymentPaid    = "paid"
)

// SupplierOrder is a purchase order placed with a supplier
type SupplierOrder struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SupplierID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplierId"`
	Supplier         *Supplier       `gorm:"foreignKey:SupplierID" json:"-"`
	LocationID       *uuid.UUID      `gorm:"type:uuid;index" json:"locationId"` // fulfilling location
	OrderDate        time.Time       `gorm:"not null;index" json:"orderDate"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ExpectedDelivery *time.Time      `json:"expectedDelivery"`
	Notes            string          `gorm:"type:text" json:"notes"`
	PaymentStatus    string          `gorm:"type:varchar(20);not null;default:'pending'" json:"paymentStatus"`
	PaymentDueDate   *time.Time      `json:"paymentDueDate"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"totalAmount"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paidAmount"` // recomputed from payments
	Items            []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderItem is a line of a SupplierOrder
type OrderItem struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"productId"`
	Quantity  int                 `gorm:"type:int;not null" json:"quantity"`
	UnitPrice decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"unitPrice"`
	HSNCode   string              `gorm:"column:hsn_code;type:varchar(20)" json:"hsnCode"`
	GSTRate   decimal.NullDecimal `gorm:"column:gst_rate;type:decimal(6,2)" json:"gstRate"`
}
