package memory

import (
	"context"
	"slices"
	"strings"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.s.write(ctx, func(d *data) error {
		for _, other := range d.invoices {
			if other.InvoiceNumber == invoice.InvoiceNumber {
				return repository.ErrDuplicate
			}
		}
		ensureID(&invoice.ID)
		for i := range invoice.Items {
			ensureID(&invoice.Items[i].ID)
			invoice.Items[i].InvoiceID = invoice.ID
		}
		invoice.CreatedAt, invoice.UpdatedAt = now(), now()

		stored := *invoice
		stored.Location = nil
		stored.Items = slices.Clone(invoice.Items)
		d.invoices[invoice.ID] = stored
		return nil
	})
}

func (r *invoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	var found *model.Invoice
	r.s.read(func(d *data) {
		invoice, ok := d.invoices[id]
		if !ok {
			return
		}
		invoice.Items = slices.Clone(invoice.Items)
		if location, ok := d.locations[invoice.LocationID]; ok {
			invoice.Location = &location
		}
		found = &invoice
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *invoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r *invoiceRepo) UpdatePayment(ctx context.Context, invoice *model.Invoice) error {
	return r.s.write(ctx, func(d *data) error {
		stored, ok := d.invoices[invoice.ID]
		if !ok {
			return repository.ErrNotFound
		}
		stored.PaidAmount = invoice.PaidAmount
		stored.Status = invoice.Status
		stored.UpdatedAt = now()
		d.invoices[invoice.ID] = stored
		return nil
	})
}

func (r *invoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	r.s.read(func(d *data) {
		for _, invoice := range d.invoices {
			if filter.Status != "" && invoice.Status != filter.Status {
				continue
			}
			if !inRange(invoice.InvoiceDate, filter.From, filter.To) {
				continue
			}
			invoice.Items = nil
			out = append(out, invoice)
		}
	})
	slices.SortFunc(out, func(a, b model.Invoice) int { return b.InvoiceDate.Compare(a.InvoiceDate) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

func (r *invoiceRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	r.s.read(func(d *data) {
		for _, invoice := range d.invoices {
			if strings.HasPrefix(invoice.InvoiceNumber, prefix) {
				n++
			}
		}
	})
	return n, nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&payment.ID)
		payment.CreatedAt = now()
		d.payments = append(d.payments, *payment)
		return nil
	})
}

func (r *paymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	var found *model.Payment
	r.s.read(func(d *data) {
		for _, p := range d.payments {
			if p.ID == id {
				found = &p
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *paymentRepo) List(_ context.Context, filter repository.PaymentFilter) ([]model.Payment, error) {
	var out []model.Payment
	r.s.read(func(d *data) {
		for _, p := range d.payments {
			if filter.EntityType != "" && p.EntityType != filter.EntityType {
				continue
			}
			if filter.EntityID != nil && p.EntityID != *filter.EntityID {
				continue
			}
			out = append(out, p)
		}
	})
	slices.SortStableFunc(out, func(a, b model.Payment) int { return b.PaymentDate.Compare(a.PaymentDate) })
	return out, nil
}

func (r *paymentRepo) SumByEntity(_ context.Context, entityType string, entityID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.s.read(func(d *data) {
		for _, p := range d.payments {
			if p.EntityType == entityType && p.EntityID == entityID {
				sum = sum.Add(p.Amount)
			}
		}
	})
	return sum, nil
}

type revaluationRepo struct{ s *Store }

func (r *revaluationRepo) Create(ctx context.Context, revaluation *model.PriceRevaluation) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&revaluation.ID)
		d.revaluations = append(d.revaluations, *revaluation)
		return nil
	})
}

func (r *revaluationRepo) List(_ context.Context, productID *uuid.UUID) ([]model.PriceRevaluation, error) {
	var out []model.PriceRevaluation
	r.s.read(func(d *data) {
		for _, rv := range d.revaluations {
			if productID == nil || rv.ProductID == *productID {
				out = append(out, rv)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b model.PriceRevaluation) int {
		return b.RevaluationDate.Compare(a.RevaluationDate)
	})
	return out, nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&entry.ID)
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now()
		}
		d.auditLogs = append(d.auditLogs, *entry)
		return nil
	})
}

func (r *auditRepo) List(_ context.Context, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	r.s.read(func(d *data) {
		for _, l := range d.auditLogs {
			switch {
			case filter.Action != "" && l.Action != filter.Action,
				filter.EntityID != "" && l.EntityID != filter.EntityID,
				filter.UserID != nil && (l.UserID == nil || *l.UserID != *filter.UserID),
				filter.Since != nil && l.CreatedAt.Before(*filter.Since):
				continue
			}
			out = append(out, l)
		}
	})
	slices.Reverse(out)
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}
