package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs
type CreateSupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Active      *bool  `json:"active"`
	GSTNumber   string `json:"gstNumber" binding:"omitempty,gstin"`
	PANNumber   string `json:"panNumber" binding:"omitempty,len=10"`
	StateCode   string `json:"stateCode" binding:"omitempty,gststate"`
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Active      *bool   `json:"active"`
	GSTNumber   *string `json:"gstNumber" binding:"omitempty,gstin"`
	PANNumber   *string `json:"panNumber" binding:"omitempty,len=10"`
	StateCode   *string `json:"stateCode" binding:"omitempty,gststate"`
}

type AddSupplierProductRequest struct {
	ProductID string              `json:"productId" binding:"required,uuid"`
	LeadTime  *int                `json:"leadTime" binding:"omitempty,gte=0"`
	UnitCost  decimal.NullDecimal `json:"unitCost" binding:"omitempty,dgte0"`
}

type SupplierService interface {
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error)
	ListSupplierProducts(ctx context.Context, supplierID string) ([]model.SupplierProduct, error)
	AddSupplierProduct(ctx context.Context, supplierID string, req AddSupplierProductRequest) (*model.SupplierProduct, error)
	GetSupplierActivity(ctx context.Context, now time.Time) (*model.SupplierActivity, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.SupplierOrderRepository
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.SupplierOrderRepository,
) SupplierService {
	return &supplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

func (s *supplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*model.Supplier, error) {
	supplier := model.Supplier{
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Active:      true,
		GSTNumber:   strings.ToUpper(req.GSTNumber),
		PANNumber:   strings.ToUpper(req.PANNumber),
		StateCode:   req.StateCode,
	}
	if req.Active != nil {
		supplier.Active = *req.Active
	}
	// The first two GSTIN digits are the registering state.
	if supplier.StateCode == "" && len(supplier.GSTNumber) >= 2 {
		supplier.StateCode = supplier.GSTNumber[:2]
	}

	if err := s.supplierRepo.Create(ctx, &supplier); err != nil {
		return nil, repoErr(err, "supplier")
	}
	return &supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id string, req UpdateSupplierRequest) (*model.Supplier, error) {
	supplierID, err := parseID(id, "supplier")
	if err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, repoErr(err, "supplier")
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Active != nil {
		supplier.Active = *req.Active
	}
	if req.GSTNumber != nil {
		supplier.GSTNumber = strings.ToUpper(*req.GSTNumber)
	}
	if req.PANNumber != nil {
		supplier.PANNumber = strings.ToUpper(*req.PANNumber)
	}
	if req.StateCode != nil {
		supplier.StateCode = *req.StateCode
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, repoErr(err, "supplier")
	}
	return supplier, nil
}

func (s *supplierService) ListSupplierProducts(ctx context.Context, supplierID string) ([]model.SupplierProduct, error) {
	id, err := parseID(supplierID, "supplier")
	if err != nil {
		return nil, err
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return nil, repoErr(err, "supplier")
	}
	return s.supplierRepo.ListProducts(ctx, id)
}

func (s *supplierService) AddSupplierProduct(ctx context.Context, supplierID string, req AddSupplierProductRequest) (*model.SupplierProduct, error) {
	sid, err := parseID(supplierID, "supplier")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	if _, err := s.supplierRepo.FindByID(ctx, sid); err != nil {
		return nil, repoErr(err, "supplier")
	}
	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		return nil, repoErr(err, "product")
	}

	link := model.SupplierProduct{
		SupplierID: sid,
		ProductID:  pid,
		LeadTime:   req.LeadTime,
		UnitCost:   req.UnitCost,
	}
	if err := s.supplierRepo.AddProduct(ctx, &link); err != nil {
		return nil, repoErr(err, "supplier product")
	}
	return &link, nil
}

// GetSupplierActivity lists suppliers awaiting a response on pending orders
// and the three most recent status changes on other orders.
func (s *supplierService) GetSupplierActivity(ctx context.Context, now time.Time) (*model.SupplierActivity, error) {
	orders, err := s.orderRepo.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier orders: %w", err)
	}

	activity := &model.SupplierActivity{
		Pending: make([]model.PendingSupplierResponse, 0),
		Updates: make([]model.SupplierUpdate, 0, 3),
	}

	// orders arrive newest first
	for _, order := range orders {
		if order.Supplier == nil {
			continue
		}
		if order.Status == model.OrderStatusPending {
			activity.Pending = append(activity.Pending, model.PendingSupplierResponse{
				ID:           order.Supplier.ID,
				Name:         order.Supplier.Name,
				RequestedAgo: requestedAgo(order.OrderDate, now),
			})
			continue
		}
		if len(activity.Updates) < 3 {
			activity.Updates = append(activity.Updates, model.SupplierUpdate{
				ID:          order.Supplier.ID,
				Name:        order.Supplier.Name,
				Action:      orderAction(order.Status),
				OrderNumber: OrderNumber(order.ID),
				Timestamp:   order.OrderDate,
			})
		}
	}
	return activity, nil
}

func requestedAgo(orderDate, now time.Time) string {
	days := int(now.Sub(orderDate).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func orderAction(status string) string {
	switch status {
	case model.OrderStatusConfirmed:
		return "confirmed delivery of order"
	case model.OrderStatusShipped:
		return "shipped order"
	case model.OrderStatusDelivered:
		return "delivered order"
	case model.OrderStatusCanceled:
		return "canceled order"
	default:
		return "updated order"
	}
}

// OrderNumber is the short display number of a supplier order.
func OrderNumber(id uuid.UUID) string {
	return "#" + strings.ToUpper(id.String()[:8])
}
