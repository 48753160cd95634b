package service_test

import (
	"testing"

	"stockbook/internal/model"
	"stockbook/internal/service"
)

func TestGetDashboardStats(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A", "27")
	b := f.location(t, "B", "27")
	low := f.product(t, "LOW", "10", 10, "")
	medium := f.product(t, "MED", "2.5", 10, "")
	in := f.product(t, "IN", "100", 10, "")
	f.stock(t, low, a, 3)
	f.stock(t, medium, a, 8)
	f.stock(t, in, b, 20)

	f.supplier(t, "Active", "27")
	inactive := f.supplier(t, "Dormant", "27")
	inactive.Active = false
	if err := f.repos.Suppliers.Update(f.ctx, inactive); err != nil {
		t.Fatalf("deactivate supplier: %v", err)
	}
	f.order(t, "10", nil) // pending, adds a third active supplier
	confirmed := f.order(t, "10", nil)
	confirmed.Status = model.OrderStatusConfirmed
	delivered := f.order(t, "10", nil)
	delivered.Status = model.OrderStatusDelivered
	for _, o := range []*model.SupplierOrder{confirmed, delivered} {
		if err := f.repos.SupplierOrders.Update(f.ctx, o); err != nil {
			t.Fatalf("update order: %v", err)
		}
	}

	svc := service.NewStatisticsService(f.repos.Inventory, f.repos.Products, f.repos.SupplierOrders, f.repos.Suppliers)

	all, err := svc.GetDashboardStats(f.ctx, "")
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if !all.TotalValue.Equal(dec("2050")) || all.LowStockCount != 2 {
		t.Errorf("all locations = %+v", all)
	}
	if all.PendingOrders != 2 || all.ActiveSuppliers != 4 {
		t.Errorf("pending %d active %d, want 2 and 4", all.PendingOrders, all.ActiveSuppliers)
	}

	atA, err := svc.GetDashboardStats(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("GetDashboardStats(A): %v", err)
	}
	if !atA.TotalValue.Equal(dec("50")) || atA.LowStockCount != 2 {
		t.Errorf("location A = %+v", atA)
	}
}
