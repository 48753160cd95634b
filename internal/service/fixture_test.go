package service_test

import (
	"context"
	"sync"
	"testing"

	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/internal/repository/memory"

	"github.com/shopspring/decimal"
)

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) BroadcastEvent(event string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) count(event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e == event {
			n++
		}
	}
	return n
}

type fixture struct {
	ctx   context.Context
	repos *repository.Repositories
	hub   *recordingHub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		ctx:   context.Background(),
		repos: memory.New().Repositories(),
		hub:   &recordingHub{},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func (f *fixture) location(t *testing.T, name, stateCode string) *model.Location {
	t.Helper()
	loc := &model.Location{Name: name, Type: model.LocationTypeWarehouse, StateCode: stateCode}
	if err := f.repos.Locations.Create(f.ctx, loc); err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

func (f *fixture) product(t *testing.T, sku, price string, reorderPoint int, gstRate string) *model.Product {
	t.Helper()
	barcode := "BC-" + sku
	p := &model.Product{
		Name:         "Product " + sku,
		SKU:          sku,
		Barcode:      &barcode,
		Category:     "General",
		UnitPrice:    dec(price),
		ReorderPoint: reorderPoint,
	}
	if gstRate != "" {
		p.GSTRate = nullDec(gstRate)
	}
	if err := f.repos.Products.Create(f.ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) stock(t *testing.T, p *model.Product, loc *model.Location, qty int) *model.Inventory {
	t.Helper()
	inv := &model.Inventory{ProductID: p.ID, LocationID: loc.ID, Quantity: qty}
	if err := f.repos.Inventory.Create(f.ctx, inv); err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	return inv
}

func (f *fixture) supplier(t *testing.T, name, stateCode string) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: name, Active: true, StateCode: stateCode}
	if err := f.repos.Suppliers.Create(f.ctx, s); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return s
}
