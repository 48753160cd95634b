package memory

import (
	"context"
	"slices"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
)

type orderRepo struct{ s *Store }

// withSupplier returns a detached copy of the order with Supplier populated,
// mirroring the gorm Preload.
func withSupplier(d *data, order model.SupplierOrder) model.SupplierOrder {
	order.Items = slices.Clone(order.Items)
	if supplier, ok := d.suppliers[order.SupplierID]; ok {
		order.Supplier = &supplier
	}
	return order
}

func (r *orderRepo) Create(ctx context.Context, order *model.SupplierOrder) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&order.ID)
		for i := range order.Items {
			ensureID(&order.Items[i].ID)
			order.Items[i].OrderID = order.ID
		}
		order.CreatedAt, order.UpdatedAt = now(), now()

		stored := *order
		stored.Supplier = nil
		stored.Items = slices.Clone(order.Items)
		d.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepo) Update(ctx context.Context, order *model.SupplierOrder) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.orders[order.ID]
		if !ok {
			return repository.ErrNotFound
		}
		order.UpdatedAt = now()

		stored := *order
		stored.Supplier = nil
		stored.Items = existing.Items
		d.orders[order.ID] = stored
		return nil
	})
}

func (r *orderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SupplierOrder, error) {
	var found *model.SupplierOrder
	r.s.read(func(d *data) {
		if order, ok := d.orders[id]; ok {
			o := withSupplier(d, order)
			found = &o
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SupplierOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]model.SupplierOrder, error) {
	var out []model.SupplierOrder
	r.s.read(func(d *data) {
		for _, order := range d.orders {
			if filter.SupplierID != nil && order.SupplierID != *filter.SupplierID {
				continue
			}
			if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
				continue
			}
			if !inRange(order.OrderDate, filter.From, filter.To) {
				continue
			}
			out = append(out, withSupplier(d, order))
		}
	})
	slices.SortFunc(out, func(a, b model.SupplierOrder) int { return b.OrderDate.Compare(a.OrderDate) })
	return out, nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&sale.ID)
		d.sales = append(d.sales, *sale)
		return nil
	})
}

func (r *saleRepo) List(_ context.Context, filter repository.SaleFilter) ([]model.Sale, error) {
	var out []model.Sale
	r.s.read(func(d *data) {
		for _, sale := range d.sales {
			if filter.ProductID != nil && sale.ProductID != *filter.ProductID {
				continue
			}
			if filter.LocationID != nil && sale.LocationID != *filter.LocationID {
				continue
			}
			if !inRange(sale.Date, filter.From, filter.To) {
				continue
			}
			out = append(out, sale)
		}
	})
	slices.SortStableFunc(out, func(a, b model.Sale) int { return a.Date.Compare(b.Date) })
	return out, nil
}

type predictionRepo struct{ s *Store }

func (r *predictionRepo) Create(ctx context.Context, prediction *model.Prediction) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&prediction.ID)
		d.predictions = append(d.predictions, *prediction)
		return nil
	})
}

func (r *predictionRepo) List(_ context.Context, locationID *uuid.UUID) ([]model.Prediction, error) {
	var out []model.Prediction
	r.s.read(func(d *data) {
		for _, p := range d.predictions {
			if locationID == nil || p.LocationID == *locationID {
				out = append(out, p)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b model.Prediction) int { return b.GeneratedAt.Compare(a.GeneratedAt) })
	return out, nil
}
