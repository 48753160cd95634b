package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
)

// DTOs
type CreateInventoryRequest struct {
	ProductID  string `json:"productId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"gte=0"`
}

type UpdateInventoryRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

type ScanRequest struct {
	Barcode        string `json:"barcode" binding:"required"`
	LocationID     string `json:"locationId" binding:"required,uuid"`
	QuantityChange *int   `json:"quantityChange" binding:"required"`
}

// InventoryView is an inventory row joined with its product and derived tier
type InventoryView struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"productId"`
	LocationID  uuid.UUID         `json:"locationId"`
	Quantity    int               `json:"quantity"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Product     *model.Product    `json:"product"`
	Status      model.StockStatus `json:"status"`
}

type ScanResult struct {
	Message   string           `json:"message"`
	Inventory *model.Inventory `json:"inventory"`
	Product   *model.Product   `json:"product"`
	Created   bool             `json:"-"`
}

type InventoryService interface {
	ListInventory(ctx context.Context, locationID string) ([]InventoryView, error)
	CreateInventory(ctx context.Context, userID string, req CreateInventoryRequest) (*model.Inventory, error)
	UpdateInventory(ctx context.Context, userID string, id string, req UpdateInventoryRequest) (*model.Inventory, error)
	Scan(ctx context.Context, userID string, req ScanRequest) (*ScanResult, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	locationRepo  repository.LocationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           Broadcaster
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		locationRepo:  locationRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           broadcasterOrNop(hub),
	}
}

// optionalID parses an optional query parameter.
func optionalID(id, what string) (*uuid.UUID, error) {
	if id == "" {
		return nil, nil
	}
	parsed, err := parseID(id, what)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// productIndex loads every product keyed by ID.
func productIndex(ctx context.Context, repo repository.ProductRepository) (map[uuid.UUID]model.Product, error) {
	products, _, err := repo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	index := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}

func (s *inventoryService) ListInventory(ctx context.Context, locationID string) ([]InventoryView, error) {
	locID, err := optionalID(locationID, "location")
	if err != nil {
		return nil, err
	}

	rows, err := s.inventoryRepo.List(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	products, err := productIndex(ctx, s.productRepo)
	if err != nil {
		return nil, err
	}

	views := make([]InventoryView, 0, len(rows))
	for _, row := range rows {
		product, ok := products[row.ProductID]
		if !ok {
			continue
		}
		views = append(views, InventoryView{
			ID:          row.ID,
			ProductID:   row.ProductID,
			LocationID:  row.LocationID,
			Quantity:    row.Quantity,
			LastUpdated: row.LastUpdated,
			Product:     &product,
			Status:      ClassifyStock(row.Quantity, product.ReorderPoint),
		})
	}
	return views, nil
}

func (s *inventoryService) CreateInventory(ctx context.Context, userID string, req CreateInventoryRequest) (*model.Inventory, error) {
	if req.Quantity < 0 {
		return nil, validationError("quantity must not be negative")
	}
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	inv := model.Inventory{
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    req.Quantity,
		LastUpdated: time.Now().UTC(),
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.Create(txCtx, &inv); err != nil {
			return repoErr(err, "inventory")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionAdjustInventory, inv.ID.String(), product.Name, req)
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventInventoryUpdated, inv)
	return &inv, nil
}

func (s *inventoryService) UpdateInventory(ctx context.Context, userID string, id string, req UpdateInventoryRequest) (*model.Inventory, error) {
	invID, err := parseID(id, "inventory")
	if err != nil {
		return nil, err
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, validationError("quantity must not be negative")
	}

	var inv *model.Inventory
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err = s.inventoryRepo.FindByID(txCtx, invID)
		if err != nil {
			return repoErr(err, "inventory")
		}

		previous := inv.Quantity
		inv.Quantity = *req.Quantity
		inv.LastUpdated = time.Now().UTC()
		if err := s.inventoryRepo.Update(txCtx, inv); err != nil {
			return repoErr(err, "inventory")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionAdjustInventory, inv.ID.String(), "",
			map[string]int{"from": previous, "to": inv.Quantity})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventInventoryUpdated, inv)
	return inv, nil
}

// Scan applies a signed quantity change to the product identified by barcode
// at a location, creating the inventory row on first positive scan.
func (s *inventoryService) Scan(ctx context.Context, userID string, req ScanRequest) (*ScanResult, error) {
	if req.QuantityChange == nil {
		return nil, validationError("quantityChange is required")
	}
	change := *req.QuantityChange

	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByBarcode(ctx, req.Barcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("product not found for this barcode: %w", ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	result := &ScanResult{Product: product}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.inventoryRepo.FindByProductLocation(txCtx, product.ID, locationID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if change <= 0 {
				return validationError("Cannot reduce quantity below 0")
			}
			inv = &model.Inventory{
				ProductID:   product.ID,
				LocationID:  locationID,
				Quantity:    change,
				LastUpdated: time.Now().UTC(),
			}
			if err := s.inventoryRepo.Create(txCtx, inv); err != nil {
				return repoErr(err, "inventory")
			}
			result.Message = "New inventory created"
			result.Created = true
		case err != nil:
			return err
		default:
			newQuantity := inv.Quantity + change
			if newQuantity < 0 {
				return validationError("Cannot reduce quantity below 0")
			}
			inv.Quantity = newQuantity
			inv.LastUpdated = time.Now().UTC()
			if err := s.inventoryRepo.Update(txCtx, inv); err != nil {
				return repoErr(err, "inventory")
			}
			result.Message = "Inventory updated"
		}
		result.Inventory = inv

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionScanInventory, inv.ID.String(), product.Name, map[string]any{
			"barcode":        req.Barcode,
			"locationId":     locationID,
			"quantityChange": change,
			"quantity":       inv.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(EventInventoryUpdated, result.Inventory)
	return result, nil
}
