package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct       = "CREATE_PRODUCT"
	ActionUpdateProduct       = "UPDATE_PRODUCT"
	ActionDeleteProduct       = "DELETE_PRODUCT"
	ActionRevaluePrice        = "REVALUE_PRICE"
	ActionScanInventory       = "SCAN_INVENTORY"
	ActionAdjustInventory     = "ADJUST_INVENTORY"
	ActionCreateSupplierOrder = "CREATE_SUPPLIER_ORDER"
	ActionUpdateSupplierOrder = "UPDATE_SUPPLIER_ORDER"
	ActionCreateInvoice       = "CREATE_INVOICE"
	ActionRecordPayment       = "RECORD_PAYMENT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"userId"` // nil for system actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entityId"`
	EntityName string     `gorm:"type:varchar(255)" json:"entityName,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
}
