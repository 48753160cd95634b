package service

import (
	"stockbook/internal/model"
)

// ClassifyStock tiers a quantity against its reorder point.
// (0, 0) is Low Stock.
func ClassifyStock(quantity, reorderPoint int) model.StockStatus {
	switch {
	case float64(quantity) <= float64(reorderPoint)*0.5:
		return model.StockLow
	case quantity <= reorderPoint:
		return model.StockMedium
	default:
		return model.StockIn
	}
}
