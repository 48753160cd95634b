package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/service"

	"github.com/google/uuid"
)

func (f *fixture) paymentService() service.PaymentService {
	r := f.repos
	return service.NewPaymentService(r.Payments, r.Invoices, r.SupplierOrders, r.Audit, r.Tx, f.hub, nil)
}

// invoice236 issues an intra-state invoice totalling 236.
func (f *fixture) invoice236(t *testing.T, due *time.Time) *service.InvoiceDetail {
	t.Helper()
	loc := f.location(t, "Pune", "27")
	p := f.product(t, "SKU-"+uuid.NewString()[:8], "100", 5, "18")
	inv, err := f.invoiceService().CreateInvoice(f.ctx, "", service.CreateInvoiceRequest{
		CustomerName: "Acme",
		LocationID:   loc.ID.String(),
		DueDate:      due,
		Items:        []service.InvoiceItemInput{{ProductID: p.ID.String(), Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func (f *fixture) order(t *testing.T, total string, due *time.Time) *model.SupplierOrder {
	t.Helper()
	sup := f.supplier(t, "Metro Supplies", "27")
	order := &model.SupplierOrder{
		SupplierID:     sup.ID,
		OrderDate:      time.Now().UTC(),
		Status:         model.OrderStatusPending,
		PaymentStatus:  model.OrderPaymentPending,
		PaymentDueDate: due,
		TotalAmount:    dec(total),
	}
	if err := f.repos.SupplierOrders.Create(f.ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		paid, total        string
		invoice, orderWant string
	}{
		{"0", "236", model.InvoiceStatusUnpaid, model.OrderPaymentPending},
		{"100", "236", model.InvoiceStatusPartial, model.OrderPaymentPartial},
		{"236", "236", model.InvoiceStatusPaid, model.OrderPaymentPaid},
		{"300", "236", model.InvoiceStatusPaid, model.OrderPaymentPaid},
		{"0", "0", model.InvoiceStatusUnpaid, model.OrderPaymentPending},
		{"5", "0", model.InvoiceStatusPaid, model.OrderPaymentPaid},
	}
	for _, tt := range tests {
		if got := service.DeriveInvoiceStatus(dec(tt.paid), dec(tt.total)); got != tt.invoice {
			t.Errorf("DeriveInvoiceStatus(%s, %s) = %q, want %q", tt.paid, tt.total, got, tt.invoice)
		}
		if got := service.DeriveOrderPaymentStatus(dec(tt.paid), dec(tt.total)); got != tt.orderWant {
			t.Errorf("DeriveOrderPaymentStatus(%s, %s) = %q, want %q", tt.paid, tt.total, got, tt.orderWant)
		}
	}
}

func TestRecordPayment_InvoiceLifecycle(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice236(t, nil)
	svc := f.paymentService()

	steps := []struct {
		amount     string
		wantStatus string
		wantPaid   string
		overpaid   string
	}{
		{"100", model.InvoiceStatusPartial, "100", ""},
		{"136", model.InvoiceStatusPaid, "236", ""},
		{"14", model.InvoiceStatusPaid, "250", "14"},
	}
	for _, step := range steps {
		res, err := svc.RecordPayment(f.ctx, "", service.RecordPaymentRequest{
			EntityType:    model.EntityTypeInvoice,
			EntityID:      inv.ID.String(),
			Amount:        dec(step.amount),
			PaymentMethod: "upi",
		})
		if err != nil {
			t.Fatalf("RecordPayment(%s): %v", step.amount, err)
		}
		if res.EntityStatus != step.wantStatus || !res.PaidAmount.Equal(dec(step.wantPaid)) {
			t.Errorf("after %s: status %q paid %s, want %q %s", step.amount, res.EntityStatus, res.PaidAmount, step.wantStatus, step.wantPaid)
		}
		switch {
		case step.overpaid == "" && res.OverpaidAmount != nil:
			t.Errorf("after %s: unexpected overpayment %s", step.amount, res.OverpaidAmount)
		case step.overpaid != "" && (res.OverpaidAmount == nil || !res.OverpaidAmount.Equal(dec(step.overpaid))):
			t.Errorf("after %s: overpaid = %v, want %s", step.amount, res.OverpaidAmount, step.overpaid)
		}
	}

	stored, err := f.repos.Invoices.FindByID(f.ctx, inv.ID)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if stored.Status != model.InvoiceStatusPaid || !stored.PaidAmount.Equal(dec("250")) {
		t.Errorf("stored invoice %q %s", stored.Status, stored.PaidAmount)
	}

	payments, err := svc.ListPayments(f.ctx, model.EntityTypeInvoice, inv.ID.String())
	if err != nil || len(payments) != 3 {
		t.Errorf("ListPayments = %d, %v", len(payments), err)
	}
	got, err := svc.GetPayment(f.ctx, payments[0].ID.String())
	if err != nil || got.ID != payments[0].ID {
		t.Errorf("GetPayment = %v, %v", got, err)
	}
	if f.hub.count(service.EventPaymentRecorded) != 3 {
		t.Errorf("payment events = %d, want 3", f.hub.count(service.EventPaymentRecorded))
	}
}

func TestRecordPayment_SupplierOrder(t *testing.T) {
	f := newFixture(t)
	order := f.order(t, "500", nil)

	res, err := f.paymentService().RecordPayment(f.ctx, "", service.RecordPaymentRequest{
		EntityType:    model.EntityTypeSupplierOrder,
		EntityID:      order.ID.String(),
		Amount:        dec("200"),
		PaymentMethod: "bank",
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if res.EntityStatus != model.OrderPaymentPartial {
		t.Errorf("status = %q, want partial", res.EntityStatus)
	}

	stored, _ := f.repos.SupplierOrders.FindByID(f.ctx, order.ID)
	if stored.PaymentStatus != model.OrderPaymentPartial || !stored.PaidAmount.Equal(dec("200")) {
		t.Errorf("stored order %q %s", stored.PaymentStatus, stored.PaidAmount)
	}
}

func TestRecordPayment_Errors(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice236(t, nil)
	svc := f.paymentService()

	tests := []struct {
		name string
		req  service.RecordPaymentRequest
		want error
	}{
		{"unknown entity type", service.RecordPaymentRequest{EntityType: "expense", EntityID: inv.ID.String(), Amount: dec("1")}, service.ErrInvalidEntityType},
		{"missing invoice", service.RecordPaymentRequest{EntityType: model.EntityTypeInvoice, EntityID: "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60", Amount: dec("1")}, service.ErrNotFound},
		{"missing order", service.RecordPaymentRequest{EntityType: model.EntityTypeSupplierOrder, EntityID: "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60", Amount: dec("1")}, service.ErrNotFound},
		{"zero amount", service.RecordPaymentRequest{EntityType: model.EntityTypeInvoice, EntityID: inv.ID.String(), Amount: dec("0")}, service.ErrValidation},
		{"bad id", service.RecordPaymentRequest{EntityType: model.EntityTypeInvoice, EntityID: "42", Amount: dec("1")}, service.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RecordPayment(f.ctx, "", tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	payments, _ := svc.ListPayments(f.ctx, "", "")
	if len(payments) != 0 {
		t.Errorf("failed payments left %d ledger rows", len(payments))
	}
}

func TestRecordPayment_ConcurrentPaymentsAllCount(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice236(t, nil)
	svc := f.paymentService()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(f.ctx, "", service.RecordPaymentRequest{
				EntityType:    model.EntityTypeInvoice,
				EntityID:      inv.ID.String(),
				Amount:        dec("10"),
				PaymentMethod: "cash",
			})
			if err != nil {
				t.Errorf("RecordPayment: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, _ := f.repos.Invoices.FindByID(f.ctx, inv.ID)
	if !stored.PaidAmount.Equal(dec("200")) || stored.Status != model.InvoiceStatusPartial {
		t.Errorf("after 20 concurrent payments: paid %s status %q", stored.PaidAmount, stored.Status)
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		due  time.Time
		want int
	}{
		{time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), -2},
	}
	for _, tt := range tests {
		if got := service.DaysRemaining(tt.due, now); got != tt.want {
			t.Errorf("DaysRemaining(%s) = %d, want %d", tt.due, got, tt.want)
		}
	}
}

func TestGetSummary(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	soon := now.AddDate(0, 0, 3)
	overdue := now.AddDate(0, 0, -4)
	late := now.AddDate(0, 0, -3)

	inv := f.invoice236(t, &soon)
	lateInv := f.invoice236(t, &late)
	f.invoice236(t, nil) // no due date, not listed
	order := f.order(t, "500", &overdue)
	paidOrder := f.order(t, "50", &soon)
	canceled := f.order(t, "70", &soon)
	canceled.Status = model.OrderStatusCanceled
	if err := f.repos.SupplierOrders.Update(f.ctx, canceled); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	svc := f.paymentService()
	for _, p := range []service.RecordPaymentRequest{
		{EntityType: model.EntityTypeInvoice, EntityID: inv.ID.String(), Amount: dec("36"), PaymentMethod: "cash"},
		{EntityType: model.EntityTypeInvoice, EntityID: lateInv.ID.String(), Amount: dec("100"), PaymentMethod: "upi"},
		{EntityType: model.EntityTypeSupplierOrder, EntityID: paidOrder.ID.String(), Amount: dec("50"), PaymentMethod: "cash"},
	} {
		if _, err := svc.RecordPayment(f.ctx, "", p); err != nil {
			t.Fatalf("RecordPayment: %v", err)
		}
	}

	summary, err := svc.GetSummary(f.ctx, now)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if len(summary.Upcoming) != 3 {
		t.Fatalf("upcoming = %+v, want 3 entries", summary.Upcoming)
	}
	if summary.Upcoming[0].ID != order.ID || summary.Upcoming[0].DaysRemaining >= 0 {
		t.Errorf("overdue order should come first: %+v", summary.Upcoming[0])
	}
	second := summary.Upcoming[1]
	if second.ID != lateInv.ID || second.EntityType != model.EntityTypeInvoice || second.DaysRemaining >= 0 {
		t.Errorf("overdue invoice should come second: %+v", second)
	}
	if !second.Amount.Equal(dec("136")) || second.Status != model.InvoiceStatusPartial {
		t.Errorf("overdue invoice = %s %q, want 136 partial", second.Amount, second.Status)
	}
	if summary.Upcoming[2].ID != inv.ID || !summary.Upcoming[2].Amount.Equal(dec("200")) || summary.Upcoming[2].DaysRemaining <= 0 {
		t.Errorf("invoice entry = %+v, want outstanding 200 due later", summary.Upcoming[2])
	}
	if !summary.ToPay.Equal(dec("500")) || !summary.ToReceive.Equal(dec("336")) {
		t.Errorf("toPay %s toReceive %s, want 500 and 336", summary.ToPay, summary.ToReceive)
	}
	if summary.OverdueCount != 2 {
		t.Errorf("overdueCount = %d, want 2", summary.OverdueCount)
	}
}
