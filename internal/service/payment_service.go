package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type RecordPaymentRequest struct {
	EntityType    string          `json:"entityType" binding:"required"`
	EntityID      string          `json:"entityId" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"dgt0"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
}

// PaymentResult is a recorded payment with the resulting state of the
// entity it was applied to.
type PaymentResult struct {
	*model.Payment
	EntityStatus   string           `json:"entityStatus"`
	PaidAmount     decimal.Decimal  `json:"paidAmount"`
	TotalAmount    decimal.Decimal  `json:"totalAmount"`
	OverpaidAmount *decimal.Decimal `json:"overpaidAmount,omitempty"`
}

type PaymentService interface {
	RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (*PaymentResult, error)
	ListPayments(ctx context.Context, entityType, entityID string) ([]model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	GetSummary(ctx context.Context, now time.Time) (*model.PaymentSummary, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.SupplierOrderRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         Broadcaster
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.SupplierOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         broadcasterOrNop(hub),
		logger:      loggerOrNop(logger),
	}
}

// DeriveInvoiceStatus classifies an invoice from its cumulative payments.
func DeriveInvoiceStatus(paid, total decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return model.InvoiceStatusUnpaid
	case paid.GreaterThanOrEqual(total):
		return model.InvoiceStatusPaid
	default:
		return model.InvoiceStatusPartial
	}
}

// DeriveOrderPaymentStatus classifies a supplier order from its cumulative
// payments.
func DeriveOrderPaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return model.OrderPaymentPending
	case paid.GreaterThanOrEqual(total):
		return model.OrderPaymentPaid
	default:
		return model.OrderPaymentPartial
	}
}

func validEntityType(entityType string) bool {
	return entityType == model.EntityTypeInvoice || entityType == model.EntityTypeSupplierOrder
}

// RecordPayment appends a payment and rewrites the entity's paid amount and
// status from the ledger. The entity row stays locked for the whole
// transaction so concurrent payments cannot lose an update.
func (s *paymentService) RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (*PaymentResult, error) {
	if !validEntityType(req.EntityType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, req.EntityType)
	}
	entityID, err := parseID(req.EntityID, req.EntityType)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, validationError("amount must be greater than 0")
	}

	payment := model.Payment{
		EntityType:    req.EntityType,
		EntityID:      entityID,
		Amount:        req.Amount,
		PaymentDate:   time.Now().UTC(),
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = req.PaymentDate.UTC()
	}
	result := &PaymentResult{Payment: &payment}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var (
			total      decimal.Decimal
			entityName string
			apply      func(paid decimal.Decimal) (string, error)
		)

		switch req.EntityType {
		case model.EntityTypeInvoice:
			invoice, err := s.invoiceRepo.FindByIDForUpdate(txCtx, entityID)
			if err != nil {
				return repoErr(err, "invoice")
			}
			total, entityName = invoice.TotalAmount, invoice.InvoiceNumber
			apply = func(paid decimal.Decimal) (string, error) {
				invoice.PaidAmount = paid
				invoice.Status = DeriveInvoiceStatus(paid, invoice.TotalAmount)
				return invoice.Status, s.invoiceRepo.UpdatePayment(txCtx, invoice)
			}
		default:
			order, err := s.orderRepo.FindByIDForUpdate(txCtx, entityID)
			if err != nil {
				return repoErr(err, "supplier order")
			}
			total, entityName = order.TotalAmount, OrderNumber(order.ID)
			apply = func(paid decimal.Decimal) (string, error) {
				order.PaidAmount = paid
				order.PaymentStatus = DeriveOrderPaymentStatus(paid, order.TotalAmount)
				return order.PaymentStatus, s.orderRepo.Update(txCtx, order)
			}
		}

		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return repoErr(err, "payment")
		}
		paid, err := s.paymentRepo.SumByEntity(txCtx, req.EntityType, entityID)
		if err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}
		status, err := apply(paid)
		if err != nil {
			return fmt.Errorf("failed to update %s payment status: %w", req.EntityType, err)
		}

		result.EntityStatus = status
		result.PaidAmount = paid
		result.TotalAmount = total
		if paid.GreaterThan(total) {
			excess := paid.Sub(total)
			result.OverpaidAmount = &excess
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionRecordPayment, payment.ID.String(), entityName, map[string]any{
			"entityType": req.EntityType,
			"entityId":   entityID,
			"amount":     payment.Amount.StringFixed(2),
			"method":     payment.PaymentMethod,
			"status":     status,
		})
	})
	if err != nil {
		return nil, err
	}

	if result.OverpaidAmount != nil {
		s.logger.Warn("payment exceeds outstanding balance",
			zap.String("entity_type", req.EntityType),
			zap.String("entity_id", entityID.String()),
			zap.String("overpaid", result.OverpaidAmount.StringFixed(2)))
	}
	s.hub.BroadcastEvent(EventPaymentRecorded, result)
	return result, nil
}

func (s *paymentService) ListPayments(ctx context.Context, entityType, entityID string) ([]model.Payment, error) {
	if entityType != "" && !validEntityType(entityType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntityType, entityType)
	}
	id, err := optionalID(entityID, "entity")
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx, repository.PaymentFilter{EntityType: entityType, EntityID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	paymentID, err := parseID(id, "payment")
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, repoErr(err, "payment")
	}
	return payment, nil
}

// DaysRemaining counts whole days from the start of now's UTC day until due,
// rounding up. Negative values are overdue.
func DaysRemaining(due, now time.Time) int {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(due.Sub(today).Hours() / 24))
}

// GetSummary lists every outstanding invoice and supplier order that has a
// due date, soonest first, with the totals still to pay and to receive.
func (s *paymentService) GetSummary(ctx context.Context, now time.Time) (*model.PaymentSummary, error) {
	summary := &model.PaymentSummary{
		Upcoming:  make([]model.UpcomingPayment, 0),
		ToPay:     decimal.Zero,
		ToReceive: decimal.Zero,
	}

	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	for _, inv := range invoices {
		if inv.Status == model.InvoiceStatusPaid || inv.DueDate == nil {
			continue
		}
		outstanding := inv.TotalAmount.Sub(inv.PaidAmount)
		summary.ToReceive = summary.ToReceive.Add(outstanding)
		summary.Upcoming = append(summary.Upcoming, model.UpcomingPayment{
			ID:              inv.ID,
			EntityType:      model.EntityTypeInvoice,
			EntityName:      inv.CustomerName,
			EntityReference: inv.InvoiceNumber,
			Amount:          outstanding,
			DueDate:         *inv.DueDate,
			DaysRemaining:   DaysRemaining(*inv.DueDate, now),
			Status:          inv.Status,
		})
	}

	orders, err := s.orderRepo.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier orders: %w", err)
	}
	for _, order := range orders {
		if order.Status == model.OrderStatusCanceled || order.PaymentStatus == model.OrderPaymentPaid || order.PaymentDueDate == nil {
			continue
		}
		name := ""
		if order.Supplier != nil {
			name = order.Supplier.Name
		}
		outstanding := order.TotalAmount.Sub(order.PaidAmount)
		summary.ToPay = summary.ToPay.Add(outstanding)
		summary.Upcoming = append(summary.Upcoming, model.UpcomingPayment{
			ID:              order.ID,
			EntityType:      model.EntityTypeSupplierOrder,
			EntityName:      name,
			EntityReference: OrderNumber(order.ID),
			Amount:          outstanding,
			DueDate:         *order.PaymentDueDate,
			DaysRemaining:   DaysRemaining(*order.PaymentDueDate, now),
			Status:          order.PaymentStatus,
		})
	}

	sort.SliceStable(summary.Upcoming, func(i, j int) bool {
		return summary.Upcoming[i].DaysRemaining < summary.Upcoming[j].DaysRemaining
	})
	for _, u := range summary.Upcoming {
		if u.DaysRemaining < 0 {
			summary.OverdueCount++
		}
	}
	return summary, nil
}
