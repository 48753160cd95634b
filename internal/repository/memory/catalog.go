package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.s.write(ctx, func(d *data) error {
		for _, u := range d.users {
			if u.Username == user.Username {
				return repository.ErrDuplicate
			}
		}
		ensureID(&user.ID)
		user.CreatedAt, user.UpdatedAt = now(), now()
		d.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	var (
		user model.User
		ok   bool
	)
	r.s.read(func(d *data) { user, ok = d.users[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	var found *model.User
	r.s.read(func(d *data) {
		for _, u := range d.users {
			if u.Username == username {
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *userRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	r.s.read(func(d *data) { out = slices.Collect(maps.Values(d.users)) })
	slices.SortFunc(out, func(a, b model.User) int { return cmp.Compare(a.Username, b.Username) })
	return paginate(out, page, limit), int64(len(out)), nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	var n int
	r.s.read(func(d *data) { n = len(d.users) })
	return int64(n), nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(ctx context.Context, location *model.Location) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&location.ID)
		location.CreatedAt, location.UpdatedAt = now(), now()
		d.locations[location.ID] = *location
		return nil
	})
}

func (r *locationRepo) Update(ctx context.Context, location *model.Location) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.locations[location.ID]; !ok {
			return repository.ErrNotFound
		}
		location.UpdatedAt = now()
		d.locations[location.ID] = *location
		return nil
	})
}

func (r *locationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	var (
		location model.Location
		ok       bool
	)
	r.s.read(func(d *data) { location, ok = d.locations[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &location, nil
}

func (r *locationRepo) List(_ context.Context) ([]model.Location, error) {
	var out []model.Location
	r.s.read(func(d *data) { out = slices.Collect(maps.Values(d.locations)) })
	slices.SortFunc(out, func(a, b model.Location) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

type productRepo struct{ s *Store }

func productConflict(d *data, p *model.Product) bool {
	for _, other := range d.products {
		if other.ID == p.ID {
			continue
		}
		if other.SKU == p.SKU {
			return true
		}
		if p.Barcode != nil && other.Barcode != nil && *p.Barcode == *other.Barcode {
			return true
		}
	}
	return false
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&product.ID)
		if productConflict(d, product) {
			return repository.ErrDuplicate
		}
		product.CreatedAt, product.UpdatedAt = now(), now()
		d.products[product.ID] = *product
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.products[product.ID]; !ok {
			return repository.ErrNotFound
		}
		if productConflict(d, product) {
			return repository.ErrDuplicate
		}
		product.UpdatedAt = now()
		d.products[product.ID] = *product
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.products[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.products, id)
		return nil
	})
}

func (r *productRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	var (
		product model.Product
		ok      bool
	)
	r.s.read(func(d *data) { product, ok = d.products[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

// FindByIDForUpdate needs no lock of its own: the caller's transaction
// already holds the store's write lock.
func (r *productRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepo) findOne(match func(model.Product) bool) (*model.Product, error) {
	var found *model.Product
	r.s.read(func(d *data) {
		for _, p := range d.products {
			if match(p) {
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

func (r *productRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	return r.findOne(func(p model.Product) bool { return p.SKU == sku })
}

func (r *productRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	return r.findOne(func(p model.Product) bool { return p.Barcode != nil && *p.Barcode == barcode })
}

func (r *productRepo) List(_ context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	search := strings.ToLower(filter.Search)

	var out []model.Product
	r.s.read(func(d *data) {
		for _, p := range d.products {
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.SKU), search) {
				continue
			}
			out = append(out, p)
		}
	})
	slices.SortFunc(out, func(a, b model.Product) int { return cmp.Compare(a.Name, b.Name) })
	return paginate(out, filter.Page, filter.Limit), int64(len(out)), nil
}

type inventoryRepo struct{ s *Store }

func (r *inventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	return r.s.write(ctx, func(d *data) error {
		for _, other := range d.inventory {
			if other.ProductID == inv.ProductID && other.LocationID == inv.LocationID {
				return repository.ErrDuplicate
			}
		}
		ensureID(&inv.ID)
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r *inventoryRepo) Update(ctx context.Context, inv *model.Inventory) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.inventory[inv.ID]; !ok {
			return repository.ErrNotFound
		}
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r *inventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Inventory, error) {
	var (
		inv model.Inventory
		ok  bool
	)
	r.s.read(func(d *data) { inv, ok = d.inventory[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (r *inventoryRepo) FindByProductLocation(_ context.Context, productID, locationID uuid.UUID) (*model.Inventory, error) {
	var found *model.Inventory
	r.s.read(func(d *data) {
		for _, inv := range d.inventory {
			if inv.ProductID == productID && inv.LocationID == locationID {
				found = &inv
				return
			}
		}
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *inventoryRepo) List(_ context.Context, locationID *uuid.UUID) ([]model.Inventory, error) {
	var out []model.Inventory
	r.s.read(func(d *data) {
		for _, inv := range d.inventory {
			if locationID == nil || inv.LocationID == *locationID {
				out = append(out, inv)
			}
		}
	})
	slices.SortFunc(out, func(a, b model.Inventory) int { return b.LastUpdated.Compare(a.LastUpdated) })
	return out, nil
}

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&supplier.ID)
		supplier.CreatedAt, supplier.UpdatedAt = now(), now()
		d.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.suppliers[supplier.ID]; !ok {
			return repository.ErrNotFound
		}
		supplier.UpdatedAt = now()
		d.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *supplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	var (
		supplier model.Supplier
		ok       bool
	)
	r.s.read(func(d *data) { supplier, ok = d.suppliers[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &supplier, nil
}

func (r *supplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	r.s.read(func(d *data) { out = slices.Collect(maps.Values(d.suppliers)) })
	slices.SortFunc(out, func(a, b model.Supplier) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *supplierRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	r.s.read(func(d *data) {
		for _, s := range d.suppliers {
			if s.Active {
				n++
			}
		}
	})
	return n, nil
}

func (r *supplierRepo) AddProduct(ctx context.Context, link *model.SupplierProduct) error {
	return r.s.write(ctx, func(d *data) error {
		ensureID(&link.ID)
		d.supplierProducts = append(d.supplierProducts, *link)
		return nil
	})
}

func (r *supplierRepo) ListProducts(_ context.Context, supplierID uuid.UUID) ([]model.SupplierProduct, error) {
	var out []model.SupplierProduct
	r.s.read(func(d *data) {
		for _, link := range d.supplierProducts {
			if link.SupplierID == supplierID {
				out = append(out, link)
			}
		}
	})
	return out, nil
}
