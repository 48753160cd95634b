package service

import (
	"context"
	"fmt"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/shopspring/decimal"
)

type StatisticsService interface {
	GetDashboardStats(ctx context.Context, locationID string) (*model.DashboardStats, error)
}

type statisticsService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	orderRepo     repository.SupplierOrderRepository
	supplierRepo  repository.SupplierRepository
}

func NewStatisticsService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.SupplierOrderRepository,
	supplierRepo repository.SupplierRepository,
) StatisticsService {
	return &statisticsService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
	}
}

// GetDashboardStats values the stock at an optional location and counts the
// rows at or below their reorder point. Pending orders and active suppliers
// are global.
func (s *statisticsService) GetDashboardStats(ctx context.Context, locationID string) (*model.DashboardStats, error) {
	locID, err := optionalID(locationID, "location")
	if err != nil {
		return nil, err
	}

	rows, err := s.inventoryRepo.List(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	products, err := productIndex(ctx, s.productRepo)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{TotalValue: decimal.Zero}
	for _, row := range rows {
		product, ok := products[row.ProductID]
		if !ok {
			continue
		}
		stats.TotalValue = stats.TotalValue.Add(product.UnitPrice.Mul(decimal.NewFromInt(int64(row.Quantity))))
		if ClassifyStock(row.Quantity, product.ReorderPoint) != model.StockIn {
			stats.LowStockCount++
		}
	}
	stats.TotalValue = stats.TotalValue.Round(2)

	pending, err := s.orderRepo.List(ctx, repository.OrderFilter{
		Statuses: []string{model.OrderStatusPending, model.OrderStatusConfirmed},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier orders: %w", err)
	}
	stats.PendingOrders = len(pending)

	active, err := s.supplierRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	stats.ActiveSuppliers = int(active)

	return stats, nil
}
