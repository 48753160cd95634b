package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationType enum constants
const (
	LocationTypeWarehouse = "warehouse"
	LocationTypeStore     = "store"
)

// Location is a warehouse or store holding inventory
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`
	StateCode string    `gorm:"type:varchar(2)" json:"stateCode"` // GST state code, decides IGST vs CGST+SGST
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
