package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceRevaluationRepository interface {
	Create(ctx context.Context, revaluation *model.PriceRevaluation) error
	List(ctx context.Context, productID *uuid.UUID) ([]model.PriceRevaluation, error)
}

type priceRevaluationRepository struct {
	db *gorm.DB
}

func NewPriceRevaluationRepository(db *gorm.DB) PriceRevaluationRepository {
	return &priceRevaluationRepository{db: db}
}

func (r *priceRevaluationRepository) Create(ctx context.Context, revaluation *model.PriceRevaluation) error {
	return translate(GetDB(ctx, r.db).Create(revaluation).Error)
}

func (r *priceRevaluationRepository) List(ctx context.Context, productID *uuid.UUID) ([]model.PriceRevaluation, error) {
	var revaluations []model.PriceRevaluation
	db := GetDB(ctx, r.db)
	if productID != nil {
		db = db.Where("product_id = ?", *productID)
	}
	if err := db.Order("revaluation_date desc").Find(&revaluations).Error; err != nil {
		return nil, err
	}
	return revaluations, nil
}
