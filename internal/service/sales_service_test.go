package service_test

import (
	"errors"
	"testing"
	"time"

	"stockbook/internal/service"
)

func TestSalesTrends(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A", "27")
	b := f.location(t, "B", "27")
	p := f.product(t, "SKU-1", "2.50", 10, "")
	q := f.product(t, "SKU-2", "10", 10, "")
	now := time.Date(2024, 5, 31, 18, 0, 0, 0, time.UTC)

	svc := service.NewSalesService(f.repos.Sales, f.repos.Products, f.repos.Locations)
	record := func(product, location string, qty int, at time.Time, price string) {
		t.Helper()
		if _, err := svc.RecordSale(f.ctx, service.RecordSaleRequest{
			ProductID: product, LocationID: location, Quantity: qty, UnitPrice: dec(price), Date: &at,
		}); err != nil {
			t.Fatalf("RecordSale: %v", err)
		}
	}
	day1 := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 21, 23, 59, 0, 0, time.UTC)
	record(p.ID.String(), a.ID.String(), 2, day2, "2.50")
	record(p.ID.String(), a.ID.String(), 4, day1, "2.50")
	record(p.ID.String(), b.ID.String(), 1, day1.Add(time.Hour), "2.50")
	record(q.ID.String(), a.ID.String(), 1, day1, "10")
	record(p.ID.String(), a.ID.String(), 9, now.AddDate(0, 0, -45), "2.50")

	trends, err := svc.Trends(f.ctx, p.ID.String(), "", 0, now)
	if err != nil {
		t.Fatalf("Trends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("trends = %+v, want two days", trends)
	}
	if trends[0].Date != "2024-05-20" || trends[0].Quantity != 5 || !trends[0].Value.Equal(dec("12.5")) {
		t.Errorf("day 1 = %+v", trends[0])
	}
	if trends[1].Date != "2024-05-21" || trends[1].Quantity != 2 {
		t.Errorf("day 2 = %+v", trends[1])
	}

	atA, err := svc.Trends(f.ctx, "", a.ID.String(), 60, now)
	if err != nil {
		t.Fatalf("Trends by location: %v", err)
	}
	total := 0
	for _, pt := range atA {
		total += pt.Quantity
	}
	if total != 16 {
		t.Errorf("quantity at A over 60 days = %d, want 16", total)
	}
}

func TestRecordSale_Validation(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "A", "27")
	p := f.product(t, "SKU-1", "10", 10, "")
	svc := service.NewSalesService(f.repos.Sales, f.repos.Products, f.repos.Locations)

	if _, err := svc.RecordSale(f.ctx, service.RecordSaleRequest{ProductID: p.ID.String(), LocationID: loc.ID.String()}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("zero quantity err = %v", err)
	}
	if _, err := svc.RecordSale(f.ctx, service.RecordSaleRequest{ProductID: p.ID.String(), LocationID: p.ID.String(), Quantity: 1}); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown location err = %v", err)
	}
}
