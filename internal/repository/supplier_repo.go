package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	CountActive(ctx context.Context) (int64, error)
	AddProduct(ctx context.Context, link *model.SupplierProduct) error
	ListProducts(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierProduct, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return translate(GetDB(ctx, r.db).Create(supplier).Error)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	return translate(GetDB(ctx, r.db).Save(supplier).Error)
}

func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := GetDB(ctx, r.db).Order("name asc").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Supplier{}).Where("active = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *supplierRepository) AddProduct(ctx context.Context, link *model.SupplierProduct) error {
	return translate(GetDB(ctx, r.db).Create(link).Error)
}

func (r *supplierRepository) ListProducts(ctx context.Context, supplierID uuid.UUID) ([]model.SupplierProduct, error) {
	var links []model.SupplierProduct
	if err := GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
