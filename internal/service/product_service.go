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

// DTOs
type CreateProductRequest struct {
	Name         string               `json:"name" binding:"required"`
	SKU          string               `json:"sku" binding:"required"`
	Barcode      *string              `json:"barcode"`
	Category     string               `json:"category" binding:"required"`
	Description  string               `json:"description"`
	UnitPrice    decimal.Decimal      `json:"unitPrice" binding:"dgte0"`
	ReorderPoint int                  `json:"reorderPoint" binding:"gte=0"`
	ImageURL     string               `json:"imageUrl"`
	HSNCode      string               `json:"hsnCode"`
	GSTRate      decimal.NullDecimal  `json:"gstRate" binding:"omitempty,gstrate"`
	OriginalCost *decimal.NullDecimal `json:"originalCost" binding:"omitempty,dgte0"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name         *string              `json:"name" binding:"omitempty,min=1"`
	SKU          *string              `json:"sku" binding:"omitempty,min=1"`
	Barcode      *string              `json:"barcode"`
	Category     *string              `json:"category" binding:"omitempty,min=1"`
	Description  *string              `json:"description"`
	UnitPrice    *decimal.Decimal     `json:"unitPrice" binding:"omitempty,dgte0"`
	ReorderPoint *int                 `json:"reorderPoint" binding:"omitempty,gte=0"`
	ImageURL     *string              `json:"imageUrl"`
	HSNCode      *string              `json:"hsnCode"`
	GSTRate      *decimal.NullDecimal `json:"gstRate" binding:"omitempty,gstrate"`
}

type ProductFilter struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, userID string, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         Broadcaster
}

func NewProductService(
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
) ProductService {
	return &productService{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         broadcasterOrNop(hub),
	}
}

func parseID(id, what string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, validationError("invalid %s id", what)
	}
	return parsed, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *productService) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		Search:   filter.Search,
		Category: filter.Category,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	return product, nil
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, userID string, req CreateProductRequest) (*model.Product, error) {
	if req.UnitPrice.IsNegative() {
		return nil, validationError("unitPrice must not be negative")
	}

	product := model.Product{
		Name:         req.Name,
		SKU:          req.SKU,
		Barcode:      emptyToNil(req.Barcode),
		Category:     req.Category,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		ReorderPoint: req.ReorderPoint,
		ImageURL:     req.ImageURL,
		HSNCode:      req.HSNCode,
		GSTRate:      req.GSTRate,
	}
	if req.OriginalCost != nil {
		product.OriginalCost = *req.OriginalCost
	} else {
		product.OriginalCost = decimal.NewNullDecimal(req.UnitPrice)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Create(txCtx, &product); err != nil {
			return repoErr(err, "product")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateProduct, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventProductChanged, map[string]any{"action": "created", "product": product})
	return &product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, userID string, id string, req UpdateProductRequest) (*model.Product, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, err = s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return repoErr(err, "product")
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.SKU != nil {
			product.SKU = *req.SKU
		}
		if req.Barcode != nil {
			product.Barcode = emptyToNil(req.Barcode)
		}
		if req.Category != nil {
			product.Category = *req.Category
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.UnitPrice != nil && !req.UnitPrice.Equal(product.UnitPrice) {
			if req.UnitPrice.IsNegative() {
				return validationError("unitPrice must not be negative")
			}
			now := time.Now().UTC()
			product.UnitPrice = *req.UnitPrice
			product.LastPriceUpdate = &now
		}
		if req.ReorderPoint != nil {
			product.ReorderPoint = *req.ReorderPoint
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}
		if req.HSNCode != nil {
			product.HSNCode = *req.HSNCode
		}
		if req.GSTRate != nil {
			product.GSTRate = *req.GSTRate
		}

		if err := s.productRepo.Update(txCtx, product); err != nil {
			return repoErr(err, "product")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateProduct, product.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventProductChanged, map[string]any{"action": "updated", "product": product})
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, userID string, id string) error {
	productID, err := parseID(id, "product")
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return repoErr(err, "product")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.productRepo.Delete(txCtx, productID); err != nil {
			return repoErr(err, "product")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionDeleteProduct, product.ID.String(), product.Name, map[string]bool{"deleted": true})
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastEvent(EventProductChanged, map[string]any{"action": "deleted", "id": productID})
	return nil
}
