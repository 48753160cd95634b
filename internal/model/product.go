package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus is the tier a stock quantity falls into relative to a reorder point
type StockStatus string

const (
	StockLow    StockStatus = "Low Stock"
	StockMedium StockStatus = "Medium Stock"
	StockIn     StockStatus = "In Stock"
)

// Product represents a sellable item in the catalogue
type Product struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string              `gorm:"type:varchar(255);not null" json:"name"`
	SKU             string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Barcode         *string             `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	Category        string              `gorm:"type:varchar(100);not null;index" json:"category"`
	Description     string              `gorm:"type:text" json:"description"`
	UnitPrice       decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"unitPrice"`
	ReorderPoint    int                 `gorm:"type:int;not null;default:0" json:"reorderPoint"`
	ImageURL        string              `gorm:"type:text" json:"imageUrl"`
	HSNCode         string              `gorm:"column:hsn_code;type:varchar(20)" json:"hsnCode"`
	GSTRate         decimal.NullDecimal `gorm:"column:gst_rate;type:decimal(6,2)" json:"gstRate"` // percent, e.g. 18
	OriginalCost    decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"originalCost"`
	LastPriceUpdate *time.Time          `json:"lastPriceUpdate"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Inventory holds the stock of one product at one location
type Inventory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_location" json:"productId"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_location;index" json:"locationId"`
	Quantity    int       `gorm:"type:int;not null;default:0" json:"quantity"`
	LastUpdated time.Time `gorm:"not null" json:"lastUpdated"`
}

// TableName keeps the singular table name used by reporting queries
func (Inventory) TableName() string {
	return "inventory"
}
