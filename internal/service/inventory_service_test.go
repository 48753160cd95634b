package service_test

import (
	"errors"
	"testing"

	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/internal/service"
)

func (f *fixture) inventoryService() service.InventoryService {
	r := f.repos
	return service.NewInventoryService(r.Inventory, r.Products, r.Locations, r.Audit, r.Tx, f.hub)
}

func intPtr(n int) *int { return &n }

func TestScan(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Store 1", "27")
	p := f.product(t, "SKU-1", "10", 10, "")
	svc := f.inventoryService()
	scan := func(barcode string, change int) (*service.ScanResult, error) {
		return svc.Scan(f.ctx, "", service.ScanRequest{Barcode: barcode, LocationID: loc.ID.String(), QuantityChange: intPtr(change)})
	}

	if _, err := scan("BC-SKU-1", -1); !errors.Is(err, service.ErrValidation) {
		t.Errorf("negative first scan err = %v, want validation", err)
	}

	res, err := scan("BC-SKU-1", 5)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if !res.Created || res.Inventory.Quantity != 5 || res.Message != "New inventory created" {
		t.Errorf("first scan = %+v", res)
	}

	res, err = scan("BC-SKU-1", -3)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if res.Created || res.Inventory.Quantity != 2 || res.Message != "Inventory updated" {
		t.Errorf("second scan = %+v", res)
	}

	if _, err := scan("BC-SKU-1", -3); !errors.Is(err, service.ErrValidation) {
		t.Errorf("scan below zero err = %v, want validation", err)
	}
	row, err := f.repos.Inventory.FindByProductLocation(f.ctx, p.ID, loc.ID)
	if err != nil || row.Quantity != 2 {
		t.Errorf("rejected scan changed stock: %+v, %v", row, err)
	}

	if _, err := scan("UNKNOWN", 1); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown barcode err = %v, want not found", err)
	}

	logs, _, _ := f.repos.Audit.List(f.ctx, repository.AuditFilter{Page: 1, Limit: 10})
	if len(logs) != 2 || logs[0].Action != model.ActionScanInventory {
		t.Errorf("audit trail = %+v, want two scans", logs)
	}
	if f.hub.count(service.EventInventoryUpdated) != 2 {
		t.Errorf("inventory events = %d, want 2", f.hub.count(service.EventInventoryUpdated))
	}
}

func TestListInventory_DerivesStatus(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A", "27")
	b := f.location(t, "B", "27")
	low := f.product(t, "LOW", "10", 10, "")
	medium := f.product(t, "MED", "10", 10, "")
	in := f.product(t, "IN", "10", 10, "")
	f.stock(t, low, a, 5)
	f.stock(t, medium, a, 8)
	f.stock(t, in, b, 50)

	views, err := f.inventoryService().ListInventory(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("ListInventory: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d rows for location A, want 2", len(views))
	}
	want := map[string]model.StockStatus{"LOW": model.StockLow, "MED": model.StockMedium}
	for _, v := range views {
		if v.Status != want[v.Product.SKU] {
			t.Errorf("%s status = %q, want %q", v.Product.SKU, v.Status, want[v.Product.SKU])
		}
	}

	all, err := f.inventoryService().ListInventory(f.ctx, "")
	if err != nil || len(all) != 3 {
		t.Errorf("ListInventory all = %d, %v", len(all), err)
	}
}

func TestCreateAndUpdateInventory(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "A", "27")
	p := f.product(t, "SKU-1", "10", 10, "")
	svc := f.inventoryService()

	inv, err := svc.CreateInventory(f.ctx, "", service.CreateInventoryRequest{ProductID: p.ID.String(), LocationID: loc.ID.String(), Quantity: 4})
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	if _, err := svc.CreateInventory(f.ctx, "", service.CreateInventoryRequest{ProductID: p.ID.String(), LocationID: loc.ID.String()}); !errors.Is(err, service.ErrConflict) {
		t.Errorf("duplicate row err = %v, want conflict", err)
	}

	updated, err := svc.UpdateInventory(f.ctx, "", inv.ID.String(), service.UpdateInventoryRequest{Quantity: intPtr(9)})
	if err != nil || updated.Quantity != 9 {
		t.Errorf("UpdateInventory = %+v, %v", updated, err)
	}
	if _, err := svc.UpdateInventory(f.ctx, "", inv.ID.String(), service.UpdateInventoryRequest{Quantity: intPtr(-1)}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("negative quantity err = %v, want validation", err)
	}
}
