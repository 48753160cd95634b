package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a single point-of-sale record used for trend analysis
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"locationId"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unitPrice"`
	InvoiceID  *uuid.UUID      `gorm:"type:uuid;index" json:"invoiceId"`
}

// Forecast periods
const (
	Period30Days = "30days"
	Period60Days = "60days"
	Period90Days = "90days"
)

// Prediction sources
const (
	PredictionSourceAI       = "ai"
	PredictionSourceFallback = "fallback"
)

// Prediction stores a demand forecast for a product at a location
type Prediction struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"locationId"`
	PredictedDemand int             `gorm:"type:int;not null" json:"predictedDemand"`
	Confidence      decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"confidence"`
	Period          string          `gorm:"type:varchar(10);not null" json:"period"`
	Source          string          `gorm:"type:varchar(10);not null;default:'ai'" json:"source"`
	GeneratedAt     time.Time       `gorm:"not null" json:"generatedAt"`
}
