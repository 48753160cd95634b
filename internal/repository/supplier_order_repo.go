package repository

import (
	"context"
	"time"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows supplier order listings. Zero values match everything.
type OrderFilter struct {
	SupplierID *uuid.UUID
	Statuses   []string
	From       *time.Time
	To         *time.Time
}

type SupplierOrderRepository interface {
	Create(ctx context.Context, order *model.SupplierOrder) error
	Update(ctx context.Context, order *model.SupplierOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SupplierOrder, error)
	// List returns orders newest first with their items and supplier loaded.
	List(ctx context.Context, filter OrderFilter) ([]model.SupplierOrder, error)
}

type supplierOrderRepository struct {
	db *gorm.DB
}

func NewSupplierOrderRepository(db *gorm.DB) SupplierOrderRepository {
	return &supplierOrderRepository{db: db}
}

func (r *supplierOrderRepository) Create(ctx context.Context, order *model.SupplierOrder) error {
	return translate(GetDB(ctx, r.db).Omit("Supplier").Create(order).Error)
}

// Update persists the order header only; items are immutable after creation.
func (r *supplierOrderRepository) Update(ctx context.Context, order *model.SupplierOrder) error {
	return translate(GetDB(ctx, r.db).Omit(clause.Associations).Save(order).Error)
}

func (r *supplierOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Supplier").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *supplierOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	if err := forUpdate(GetDB(ctx, r.db)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *supplierOrderRepository) List(ctx context.Context, filter OrderFilter) ([]model.SupplierOrder, error) {
	var orders []model.SupplierOrder

	db := GetDB(ctx, r.db).Preload("Items").Preload("Supplier")
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if len(filter.Statuses) > 0 {
		db = db.Where("status IN ?", filter.Statuses)
	}
	if filter.From != nil {
		db = db.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("order_date <= ?", *filter.To)
	}

	if err := db.Order("order_date desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
