package service_test

import (
	"errors"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/service"
)

func (f *fixture) gstService() service.GSTService {
	return service.NewGSTService(f.repos.Invoices, f.repos.SupplierOrders, f.repos.Locations, dec("18"))
}

func TestMonthBounds(t *testing.T) {
	start, end := service.MonthBounds(2, 2024)
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", start)
	}
	if end.Day() != 29 || end.Hour() != 23 || end.Month() != time.February {
		t.Errorf("end = %s, want last instant of 29 Feb", end)
	}
}

func TestSummarizeMonth(t *testing.T) {
	f := newFixture(t)
	mumbai := f.location(t, "Mumbai", "27")
	p := f.product(t, "SKU-1", "100", 5, "18")
	march := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	// outward: intra-state 200 @ 18% -> 18 + 18
	for _, date := range []time.Time{march, april} {
		if _, err := f.invoiceService().CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
			CustomerName: "Acme",
			LocationID:   mumbai.ID.String(),
			InvoiceDate:  &date,
			Items:        []service.InvoiceItemInput{{ProductID: p.ID.String(), Quantity: 2}},
		}); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
	}

	// inward: inter-state 1000 @ 18% -> 180 igst; intra-state 100 @ default 18% -> 9 + 9
	interSupplier := f.supplier(t, "Karnataka Mills", "29")
	localSupplier := f.supplier(t, "Thane Traders", "27")
	orders := f.orderService()
	for _, req := range []service.CreateSupplierOrderRequest{
		{
			Order: service.SupplierOrderInput{SupplierID: interSupplier.ID.String(), LocationID: mumbai.ID.String(), OrderDate: &march},
			Items: []service.OrderItemInput{{ProductID: p.ID.String(), Quantity: 10, UnitPrice: dec("100"), GSTRate: nullDec("18")}},
		},
		{
			Order: service.SupplierOrderInput{SupplierID: localSupplier.ID.String(), LocationID: mumbai.ID.String(), OrderDate: &march},
			Items: []service.OrderItemInput{{ProductID: p.ID.String(), Quantity: 1, UnitPrice: dec("100")}},
		},
	} {
		if _, err := orders.CreateOrder(f.ctx, "", req); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}
	canceled, err := orders.CreateOrder(f.ctx, "", service.CreateSupplierOrderRequest{
		Order: service.SupplierOrderInput{SupplierID: localSupplier.ID.String(), LocationID: mumbai.ID.String(), OrderDate: &march},
		Items: []service.OrderItemInput{{ProductID: p.ID.String(), Quantity: 50, UnitPrice: dec("100")}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	cancel := model.OrderStatusCanceled
	if _, err := orders.UpdateOrder(f.ctx, "", canceled.ID.String(), service.UpdateSupplierOrderRequest{Status: &cancel}); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	svc := f.gstService()
	got, err := svc.SummarizeMonth(f.ctx, 3, 2024)
	if err != nil {
		t.Fatalf("SummarizeMonth: %v", err)
	}

	checks := []struct {
		name      string
		got, want string
	}{
		{"outward taxable", got.OutwardSupplies.TaxableAmount.String(), "200"},
		{"outward cgst", got.OutwardSupplies.CGST.String(), "18"},
		{"outward total", got.OutwardSupplies.Total.String(), "36"},
		{"inward taxable", got.InwardSupplies.TaxableAmount.String(), "1100"},
		{"inward cgst", got.InwardSupplies.CGST.String(), "9"},
		{"inward igst", got.InwardSupplies.IGST.String(), "180"},
		{"inward total", got.InwardSupplies.Total.String(), "198"},
		{"net cgst", got.NetTax.CGST.String(), "9"},
		{"net sgst", got.NetTax.SGST.String(), "9"},
		{"net igst", got.NetTax.IGST.String(), "-180"},
		{"net total", got.NetTax.Total.String(), "-162"},
	}
	for _, c := range checks {
		if !dec(c.got).Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.Month != "March" || got.Year != 2024 {
		t.Errorf("period = %s %d", got.Month, got.Year)
	}

	again, err := svc.SummarizeMonth(f.ctx, 3, 2024)
	if err != nil {
		t.Fatalf("second SummarizeMonth: %v", err)
	}
	if !again.NetTax.Total.Equal(got.NetTax.Total) || !again.InwardSupplies.Total.Equal(got.InwardSupplies.Total) {
		t.Error("recomputing the same month gave a different result")
	}
}

func TestSummarizeMonth_EmptyAndInvalid(t *testing.T) {
	f := newFixture(t)
	svc := f.gstService()

	got, err := svc.SummarizeMonth(f.ctx, 1, 2023)
	if err != nil {
		t.Fatalf("SummarizeMonth: %v", err)
	}
	if !got.NetTax.Total.IsZero() || !got.OutwardSupplies.TaxableAmount.IsZero() {
		t.Errorf("empty month = %+v", got)
	}

	for _, month := range []int{0, 13} {
		if _, err := svc.SummarizeMonth(f.ctx, month, 2024); !errors.Is(err, service.ErrValidation) {
			t.Errorf("month %d err = %v, want validation", month, err)
		}
	}
}
