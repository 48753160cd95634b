package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, inv *model.Inventory) error
	Update(ctx context.Context, inv *model.Inventory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)
	// FindByProductLocation locks the row when called inside a transaction.
	FindByProductLocation(ctx context.Context, productID, locationID uuid.UUID) (*model.Inventory, error)
	List(ctx context.Context, locationID *uuid.UUID) ([]model.Inventory, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, inv *model.Inventory) error {
	return translate(GetDB(ctx, r.db).Create(inv).Error)
}

func (r *inventoryRepository) Update(ctx context.Context, inv *model.Inventory) error {
	return translate(GetDB(ctx, r.db).Save(inv).Error)
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	if err := GetDB(ctx, r.db).First(&inv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *inventoryRepository) FindByProductLocation(ctx context.Context, productID, locationID uuid.UUID) (*model.Inventory, error) {
	db := GetDB(ctx, r.db)
	if _, inTx := ctx.Value(txKey).(*gorm.DB); inTx {
		db = forUpdate(db)
	}

	var inv model.Inventory
	if err := db.Where("product_id = ? AND location_id = ?", productID, locationID).First(&inv).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *inventoryRepository) List(ctx context.Context, locationID *uuid.UUID) ([]model.Inventory, error) {
	var rows []model.Inventory
	db := GetDB(ctx, r.db)
	if locationID != nil {
		db = db.Where("location_id = ?", *locationID)
	}
	if err := db.Order("last_updated desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
