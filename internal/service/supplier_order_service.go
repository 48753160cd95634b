package service

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type SupplierOrderInput struct {
	SupplierID       string              `json:"supplierId" binding:"required,uuid"`
	LocationID       string              `json:"locationId" binding:"omitempty,uuid"`
	OrderDate        *time.Time          `json:"orderDate"`
	ExpectedDelivery *time.Time          `json:"expectedDelivery"`
	PaymentDueDate   *time.Time          `json:"paymentDueDate"`
	Notes            string              `json:"notes"`
	TotalAmount      decimal.NullDecimal `json:"totalAmount" binding:"omitempty,dgte0"`
}

type OrderItemInput struct {
	ProductID string              `json:"productId" binding:"required,uuid"`
	Quantity  int                 `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal     `json:"unitPrice" binding:"dgte0"`
	HSNCode   string              `json:"hsnCode"`
	GSTRate   decimal.NullDecimal `json:"gstRate" binding:"omitempty,gstrate"`
}

type CreateSupplierOrderRequest struct {
	Order SupplierOrderInput `json:"order"`
	Items []OrderItemInput   `json:"items" binding:"omitempty,dive"`
}

// UpdateSupplierOrderRequest is a partial update. Payment status is derived
// from the payment ledger and cannot be set directly.
type UpdateSupplierOrderRequest struct {
	Status           *string          `json:"status" binding:"omitempty,oneof=pending confirmed shipped delivered canceled"`
	LocationID       *string          `json:"locationId" binding:"omitempty,uuid"`
	ExpectedDelivery *time.Time       `json:"expectedDelivery"`
	PaymentDueDate   *time.Time       `json:"paymentDueDate"`
	Notes            *string          `json:"notes"`
	TotalAmount      *decimal.Decimal `json:"totalAmount" binding:"omitempty,dgte0"`
}

type SupplierOrderService interface {
	ListOrders(ctx context.Context, supplierID string) ([]model.SupplierOrder, error)
	CreateOrder(ctx context.Context, userID string, req CreateSupplierOrderRequest) (*model.SupplierOrder, error)
	UpdateOrder(ctx context.Context, userID string, id string, req UpdateSupplierOrderRequest) (*model.SupplierOrder, error)
}

type supplierOrderService struct {
	orderRepo    repository.SupplierOrderRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          Broadcaster
	defaultRate  decimal.Decimal
	logger       *zap.Logger
}

func NewSupplierOrderService(
	orderRepo repository.SupplierOrderRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
	defaultRate decimal.Decimal,
	logger *zap.Logger,
) SupplierOrderService {
	return &supplierOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          broadcasterOrNop(hub),
		defaultRate:  defaultRate,
		logger:       loggerOrNop(logger),
	}
}

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[string][]string{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCanceled},
	model.OrderStatusConfirmed: {model.OrderStatusShipped, model.OrderStatusCanceled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered, model.OrderStatusCanceled},
}

// CanTransition reports whether a supplier order may move from one status
// to another. Staying in the same status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *supplierOrderService) ListOrders(ctx context.Context, supplierID string) ([]model.SupplierOrder, error) {
	sid, err := optionalID(supplierID, "supplier")
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.List(ctx, repository.OrderFilter{SupplierID: sid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier orders: %w", err)
	}
	return orders, nil
}

func (s *supplierOrderService) CreateOrder(ctx context.Context, userID string, req CreateSupplierOrderRequest) (*model.SupplierOrder, error) {
	supplierID, err := parseID(req.Order.SupplierID, "supplier")
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, repoErr(err, "supplier")
	}

	order := model.SupplierOrder{
		SupplierID:       supplierID,
		OrderDate:        time.Now().UTC(),
		Status:           model.OrderStatusPending,
		ExpectedDelivery: req.Order.ExpectedDelivery,
		Notes:            req.Order.Notes,
		PaymentStatus:    model.OrderPaymentPending,
		PaymentDueDate:   req.Order.PaymentDueDate,
		TotalAmount:      decimal.Zero,
		PaidAmount:       decimal.Zero,
	}
	if req.Order.OrderDate != nil {
		order.OrderDate = req.Order.OrderDate.UTC()
	}

	locationState := ""
	if req.Order.LocationID != "" {
		locID, err := parseID(req.Order.LocationID, "location")
		if err != nil {
			return nil, err
		}
		location, err := s.locationRepo.FindByID(ctx, locID)
		if err != nil {
			return nil, repoErr(err, "location")
		}
		order.LocationID = &locID
		locationState = location.StateCode
	}
	interState := IsInterState(supplier.StateCode, locationState)

	total := decimal.Zero
	for i, in := range req.Items {
		if in.Quantity <= 0 {
			return nil, validationError("item %d: quantity must be positive", i+1)
		}
		productID, err := parseID(in.ProductID, "product")
		if err != nil {
			return nil, err
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, repoErr(err, "product")
		}

		item := model.OrderItem{
			ProductID: productID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			HSNCode:   in.HSNCode,
			GSTRate:   in.GSTRate,
		}
		if item.HSNCode == "" {
			item.HSNCode = product.HSNCode
		}
		if !item.GSTRate.Valid {
			item.GSTRate = product.GSTRate
		}
		order.Items = append(order.Items, item)

		total = total.Add(CalculateGST(item.UnitPrice, item.Quantity, itemRate(item, s.defaultRate), interState).Total)
	}

	switch {
	case len(order.Items) > 0:
		order.TotalAmount = total
	case req.Order.TotalAmount.Valid:
		order.TotalAmount = req.Order.TotalAmount.Decimal
	}
	order.PaymentStatus = DeriveOrderPaymentStatus(order.PaidAmount, order.TotalAmount)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return repoErr(err, "supplier order")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateSupplierOrder, order.ID.String(), supplier.Name, map[string]any{
			"supplierId":  supplierID,
			"items":       len(order.Items),
			"totalAmount": order.TotalAmount.StringFixed(2),
		})
	})
	if err != nil {
		return nil, err
	}

	order.Supplier = supplier
	s.hub.BroadcastEvent(EventOrderUpdated, order)
	return &order, nil
}

func (s *supplierOrderService) UpdateOrder(ctx context.Context, userID string, id string, req UpdateSupplierOrderRequest) (*model.SupplierOrder, error) {
	orderID, err := parseID(id, "supplier order")
	if err != nil {
		return nil, err
	}

	var order *model.SupplierOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err = s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return repoErr(err, "supplier order")
		}
		changes := map[string]any{}

		if req.Status != nil && *req.Status != order.Status {
			if !CanTransition(order.Status, *req.Status) {
				return validationError("cannot move order from %s to %s", order.Status, *req.Status)
			}
			changes["status"] = map[string]string{"from": order.Status, "to": *req.Status}
			order.Status = *req.Status
		}
		if req.LocationID != nil {
			locID, err := parseID(*req.LocationID, "location")
			if err != nil {
				return err
			}
			if _, err := s.locationRepo.FindByID(txCtx, locID); err != nil {
				return repoErr(err, "location")
			}
			order.LocationID = &locID
			changes["locationId"] = locID
		}
		if req.ExpectedDelivery != nil {
			order.ExpectedDelivery = req.ExpectedDelivery
			changes["expectedDelivery"] = req.ExpectedDelivery
		}
		if req.PaymentDueDate != nil {
			order.PaymentDueDate = req.PaymentDueDate
			changes["paymentDueDate"] = req.PaymentDueDate
		}
		if req.Notes != nil {
			order.Notes = *req.Notes
		}
		if req.TotalAmount != nil {
			if req.TotalAmount.IsNegative() {
				return validationError("totalAmount must not be negative")
			}
			order.TotalAmount = *req.TotalAmount
			order.PaymentStatus = DeriveOrderPaymentStatus(order.PaidAmount, order.TotalAmount)
			changes["totalAmount"] = order.TotalAmount.StringFixed(2)
		}

		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return repoErr(err, "supplier order")
		}
		return writeAudit(txCtx, s.auditRepo, userID, model.ActionUpdateSupplierOrder, order.ID.String(), OrderNumber(order.ID), changes)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, repoErr(err, "supplier order")
	}
	s.logger.Info("supplier order updated", zap.String("order_id", orderID.String()), zap.String("status", updated.Status))
	s.hub.BroadcastEvent(EventOrderUpdated, updated)
	return updated, nil
}

// itemRate is the GST rate applied to an inward order item.
func itemRate(item model.OrderItem, fallback decimal.Decimal) decimal.Decimal {
	if item.GSTRate.Valid {
		return item.GSTRate.Decimal
	}
	return fallback
}
