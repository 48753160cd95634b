package repository

import (
	"context"
	"time"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleFilter struct {
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	// List returns matching sales oldest first.
	List(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return translate(GetDB(ctx, r.db).Create(sale).Error)
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale

	db := GetDB(ctx, r.db)
	if filter.ProductID != nil {
		db = db.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		db = db.Where("location_id = ?", *filter.LocationID)
	}
	if filter.From != nil {
		db = db.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("date <= ?", *filter.To)
	}

	if err := db.Order("date asc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
