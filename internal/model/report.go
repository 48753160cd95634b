package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTBreakdown is the split of a taxable amount into GST heads
type GSTBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	IGST     decimal.Decimal `json:"igst"`
	Total    decimal.Decimal `json:"total"`
}

// SupplyTotals aggregates one side (outward or inward) of a GST period
type SupplyTotals struct {
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
	Total         decimal.Decimal `json:"total"`
}

// NetTax is outward minus inward per head. Values may be negative.
type NetTax struct {
	CGST  decimal.Decimal `json:"cgst"`
	SGST  decimal.Decimal `json:"sgst"`
	IGST  decimal.Decimal `json:"igst"`
	Total decimal.Decimal `json:"total"`
}

// GSTSummary is the monthly GST position
type GSTSummary struct {
	Month           string       `json:"month"`
	Year            int          `json:"year"`
	OutwardSupplies SupplyTotals `json:"outwardSupplies"`
	InwardSupplies  SupplyTotals `json:"inwardSupplies"`
	NetTax          NetTax       `json:"netTax"`
}

// UpcomingPayment is one outstanding invoice or supplier order with a due date
type UpcomingPayment struct {
	ID              uuid.UUID       `json:"id"`
	EntityType      string          `json:"entityType"`
	EntityName      string          `json:"entityName"`
	EntityReference string          `json:"entityReference"`
	Amount          decimal.Decimal `json:"amount"` // outstanding balance
	DueDate         time.Time       `json:"dueDate"`
	DaysRemaining   int             `json:"daysRemaining"`
	Status          string          `json:"status"`
}

// PaymentSummary aggregates the payment ledger
type PaymentSummary struct {
	Upcoming     []UpcomingPayment `json:"upcoming"`
	ToPay        decimal.Decimal   `json:"toPay"`
	ToReceive    decimal.Decimal   `json:"toReceive"`
	OverdueCount int               `json:"overdueCount"`
}

// DashboardStats is the headline inventory overview
type DashboardStats struct {
	TotalValue      decimal.Decimal `json:"totalValue"`
	LowStockCount   int             `json:"lowStockCount"`
	PendingOrders   int             `json:"pendingOrders"`
	ActiveSuppliers int             `json:"activeSuppliers"`
}

// SalesTrendPoint is the sales volume for a single day
type SalesTrendPoint struct {
	Date     string          `json:"date"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// SupplierActivity feeds the dashboard supplier widget
type SupplierActivity struct {
	Pending []PendingSupplierResponse `json:"pending"`
	Updates []SupplierUpdate          `json:"updates"`
}

type PendingSupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RequestedAgo string    `json:"requestedAgo"`
}

type SupplierUpdate struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Action      string    `json:"action"`
	OrderNumber string    `json:"orderNumber"`
	Timestamp   time.Time `json:"timestamp"`
}
