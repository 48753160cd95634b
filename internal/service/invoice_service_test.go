package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"
	"stockbook/internal/service"
)

func (f *fixture) invoiceService() service.InvoiceService {
	r := f.repos
	return service.NewInvoiceService(r.Invoices, r.Products, r.Locations, r.Sales, r.Audit, r.Tx, f.hub, dec("18"), nil)
}

func TestCreateInvoice_IntraState(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	p := f.product(t, "SKU-1", "100", 10, "18")

	inv, err := f.invoiceService().CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
		CustomerName:      "Acme",
		CustomerStateCode: "27",
		LocationID:        loc.ID.String(),
		Items:             []service.InvoiceItemInput{{ProductID: p.ID.String(), Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if !inv.Subtotal.Equal(dec("200")) || !inv.CGSTAmount.Equal(dec("18")) || !inv.SGSTAmount.Equal(dec("18")) || !inv.IGSTAmount.IsZero() {
		t.Errorf("unexpected heads: sub %s cgst %s sgst %s igst %s", inv.Subtotal, inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount)
	}
	if !inv.TotalAmount.Equal(dec("236")) {
		t.Errorf("total = %s, want 236", inv.TotalAmount)
	}
	if inv.Status != model.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want unpaid", inv.Status)
	}
	item := inv.Items[0]
	if !item.CGSTRate.Equal(dec("9")) || !item.SGSTRate.Equal(dec("9")) || !item.IGSTRate.IsZero() {
		t.Errorf("unexpected item rates: %s/%s/%s", item.CGSTRate, item.SGSTRate, item.IGSTRate)
	}
	if item.Description != p.Name {
		t.Errorf("description = %q, want product name", item.Description)
	}
	if inv.Location == nil || inv.Location.ID != loc.ID {
		t.Error("expected location details on the created invoice")
	}
	if f.hub.count(service.EventInvoiceCreated) != 1 {
		t.Error("expected an invoice.created event")
	}
}

func TestCreateInvoice_InterStateFromGSTIN(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	p := f.product(t, "SKU-1", "100", 10, "")

	inv, err := f.invoiceService().CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
		CustomerName:  "Bengaluru Traders",
		CustomerGSTIN: "29abcde1234f1z5",
		LocationID:    loc.ID.String(),
		Items: []service.InvoiceItemInput{{
			ProductID: p.ID.String(),
			Quantity:  1,
			UnitPrice: nullDec("50"),
		}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.CustomerStateCode != "29" {
		t.Errorf("customer state = %q, want 29", inv.CustomerStateCode)
	}
	// default 18% applies when the product has no rate
	if !inv.IGSTAmount.Equal(dec("9")) || !inv.CGSTAmount.IsZero() {
		t.Errorf("igst = %s cgst = %s, want 9 and 0", inv.IGSTAmount, inv.CGSTAmount)
	}
	if !inv.TotalAmount.Equal(dec("59")) {
		t.Errorf("total = %s, want 59", inv.TotalAmount)
	}
}

func TestCreateInvoice_NumbersAndSales(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	p := f.product(t, "SKU-1", "10", 10, "5")
	svc := f.invoiceService()

	prefix := "INV-" + time.Now().UTC().Format("20060102") + "-"
	for i, want := range []string{"00001", "00002"} {
		inv, err := svc.CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
			CustomerName: "Walk-in",
			LocationID:   loc.ID.String(),
			Items:        []service.InvoiceItemInput{{ProductID: p.ID.String(), Quantity: i + 1}},
		})
		if err != nil {
			t.Fatalf("CreateInvoice #%d: %v", i+1, err)
		}
		if inv.InvoiceNumber != prefix+want {
			t.Errorf("invoice number = %q, want %q", inv.InvoiceNumber, prefix+want)
		}
	}

	sales, err := f.repos.Sales.List(f.ctx, repository.SaleFilter{ProductID: &p.ID})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("recorded %d sales, want 2", len(sales))
	}
	for _, s := range sales {
		if s.InvoiceID == nil {
			t.Error("sale recorded without its invoice")
		}
	}

	logs, _, _ := f.repos.Audit.List(f.ctx, repository.AuditFilter{Page: 1, Limit: 10})
	if len(logs) != 2 || logs[0].Action != model.ActionCreateInvoice {
		t.Errorf("expected two invoice audit entries, got %+v", logs)
	}
}

func TestCreateInvoice_Errors(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	svc := f.invoiceService()

	tests := []struct {
		name string
		req  service.CreateInvoiceRequest
		want error
	}{
		{"no items", service.CreateInvoiceRequest{CustomerName: "x", LocationID: loc.ID.String()}, service.ErrValidation},
		{"unknown location", service.CreateInvoiceRequest{
			CustomerName: "x",
			LocationID:   "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60",
			Items:        []service.InvoiceItemInput{{ProductID: "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60", Quantity: 1}},
		}, service.ErrNotFound},
		{"unknown product", service.CreateInvoiceRequest{
			CustomerName: "x",
			LocationID:   loc.ID.String(),
			Items:        []service.InvoiceItemInput{{ProductID: "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60", Quantity: 1}},
		}, service.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(f.ctx, "", tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetAndListInvoices(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	p := f.product(t, "SKU-1", "10", 10, "5")
	svc := f.invoiceService()

	created, err := svc.CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
		CustomerName: "Walk-in",
		LocationID:   loc.ID.String(),
		Items:        []service.InvoiceItemInput{{ProductID: p.ID.String(), Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	got, err := svc.GetInvoice(f.ctx, created.ID.String())
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if len(got.Items) != 1 || got.Location == nil || got.Location.StateCode != "27" {
		t.Errorf("invoice detail missing items or location: %+v", got)
	}

	list, total, err := svc.ListInvoices(f.ctx, service.InvoiceFilter{Status: model.InvoiceStatusUnpaid})
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("ListInvoices unpaid = %d/%d, %v", len(list), total, err)
	}
	_, _, err = svc.ListInvoices(f.ctx, service.InvoiceFilter{Status: "void"})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("unknown status err = %v, want validation", err)
	}
	if _, err := svc.GetInvoice(f.ctx, "not-a-uuid"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("bad id err = %v", err)
	}
	if !strings.HasPrefix(got.InvoiceNumber, "INV-") {
		t.Errorf("invoice number %q", got.InvoiceNumber)
	}
}

func TestCreateInvoice_ZeroTotalIsUnpaid(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "Mumbai", "27")
	sample := f.product(t, "SAMPLE", "0", 0, "18")

	inv, err := f.invoiceService().CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
		CustomerName: "Free sample",
		LocationID:   loc.ID.String(),
		Items:        []service.InvoiceItemInput{{ProductID: sample.ID.String(), Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if !inv.TotalAmount.IsZero() || inv.Status != model.InvoiceStatusUnpaid {
		t.Errorf("invoice = %s %q, want 0 unpaid", inv.TotalAmount, inv.Status)
	}
	if derived := service.DeriveInvoiceStatus(inv.PaidAmount, inv.TotalAmount); derived != inv.Status {
		t.Errorf("stored %q, ledger derives %q", inv.Status, derived)
	}
}
