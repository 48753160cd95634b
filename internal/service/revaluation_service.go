package service

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRevaluationRequest struct {
	ProductID       string          `json:"productId" binding:"required,uuid"`
	NewPrice        decimal.Decimal `json:"newPrice" binding:"dgte0"`
	Reason          string          `json:"reason" binding:"required"`
	RevaluationDate *time.Time      `json:"revaluationDate"`
}

type RevaluationService interface {
	ListRevaluations(ctx context.Context, productID string) ([]model.PriceRevaluation, error)
	// RevaluePrice changes a product's unit price and keeps the old and new
	// price as an immutable history record.
	RevaluePrice(ctx context.Context, userID string, req CreateRevaluationRequest) (*model.PriceRevaluation, error)
}

type revaluationService struct {
	revaluationRepo repository.PriceRevaluationRepository
	productRepo     repository.ProductRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             Broadcaster
}

func NewRevaluationService(
	revaluationRepo repository.PriceRevaluationRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
) RevaluationService {
	return &revaluationService{
		revaluationRepo: revaluationRepo,
		productRepo:     productRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             broadcasterOrNop(hub),
	}
}

func (s *revaluationService) ListRevaluations(ctx context.Context, productID string) ([]model.PriceRevaluation, error) {
	pid, err := optionalID(productID, "product")
	if err != nil {
		return nil, err
	}
	revaluations, err := s.revaluationRepo.List(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price revaluations: %w", err)
	}
	return revaluations, nil
}

func (s *revaluationService) RevaluePrice(ctx context.Context, userID string, req CreateRevaluationRequest) (*model.PriceRevaluation, error) {
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	if req.NewPrice.IsNegative() {
		return nil, validationError("newPrice must not be negative")
	}

	date := time.Now().UTC()
	if req.RevaluationDate != nil {
		date = req.RevaluationDate.UTC()
	}
	revaluation := model.PriceRevaluation{
		ProductID:       productID,
		NewPrice:        req.NewPrice,
		RevaluationDate: date,
		Reason:          req.Reason,
	}
	if uid, err := uuid.Parse(userID); err == nil {
		revaluation.UserID = &uid
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err = s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return repoErr(err, "product")
		}
		if product.UnitPrice.Equal(req.NewPrice) {
			return validationError("new price equals the current price")
		}

		revaluation.OldPrice = product.UnitPrice
		product.UnitPrice = req.NewPrice
		product.LastPriceUpdate = &date
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return repoErr(err, "product")
		}
		if err := s.revaluationRepo.Create(txCtx, &revaluation); err != nil {
			return repoErr(err, "price revaluation")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionRevaluePrice, product.ID.String(), product.Name, map[string]any{
			"oldPrice": revaluation.OldPrice.StringFixed(2),
			"newPrice": revaluation.NewPrice.StringFixed(2),
			"reason":   revaluation.Reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventPriceRevalued, revaluation)
	s.hub.BroadcastEvent(EventProductChanged, map[string]any{"action": "revalued", "product": product})
	return &revaluation, nil
}
