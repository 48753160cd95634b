package repository

import (
	"context"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PredictionRepository interface {
	Create(ctx context.Context, prediction *model.Prediction) error
	List(ctx context.Context, locationID *uuid.UUID) ([]model.Prediction, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *model.Prediction) error {
	return translate(GetDB(ctx, r.db).Create(prediction).Error)
}

func (r *predictionRepository) List(ctx context.Context, locationID *uuid.UUID) ([]model.Prediction, error) {
	var predictions []model.Prediction
	db := GetDB(ctx, r.db)
	if locationID != nil {
		db = db.Where("location_id = ?", *locationID)
	}
	if err := db.Order("generated_at desc").Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}
