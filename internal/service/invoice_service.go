package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// invoiceNumberAttempts bounds retries when two invoices race for the same
// sequence number.
const invoiceNumberAttempts = 3

// DTOs
type InvoiceItemInput struct {
	ProductID   string              `json:"productId" binding:"required,uuid"`
	Description string              `json:"description"`
	Quantity    int                 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice" binding:"omitempty,dgte0"` // defaults to the product price
	HSNCode     string              `json:"hsnCode"`
	GSTRate     decimal.NullDecimal `json:"gstRate" binding:"omitempty,gstrate"`
}

type CreateInvoiceRequest struct {
	CustomerName      string             `json:"customerName" binding:"required"`
	CustomerAddress   string             `json:"customerAddress"`
	CustomerGSTIN     string             `json:"customerGstin" binding:"omitempty,gstin"`
	CustomerStateCode string             `json:"customerStateCode" binding:"omitempty,gststate"`
	LocationID        string             `json:"locationId" binding:"required,uuid"`
	InvoiceDate       *time.Time         `json:"invoiceDate"`
	DueDate           *time.Time         `json:"dueDate"`
	Notes             string             `json:"notes"`
	Items             []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

type InvoiceFilter struct {
	Status string
	Page   int
	Limit  int
}

// InvoiceDetail is an invoice with its items and issuing location.
type InvoiceDetail struct {
	*model.Invoice
	Location *model.Location `json:"location"`
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (*InvoiceDetail, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	saleRepo     repository.SaleRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          Broadcaster
	defaultRate  decimal.Decimal
	logger       *zap.Logger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	saleRepo repository.SaleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub Broadcaster,
	defaultRate decimal.Decimal,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		saleRepo:     saleRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          broadcasterOrNop(hub),
		defaultRate:  defaultRate,
		logger:       loggerOrNop(logger),
	}
}

// CreateInvoice prices every line through CalculateGST and records a sale
// per line at the issuing location. The supply is inter-state when the
// customer's state differs from the location's.
func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (*InvoiceDetail, error) {
	if len(req.Items) == 0 {
		return nil, validationError("invoice needs at least one item")
	}
	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, repoErr(err, "location")
	}

	now := time.Now().UTC()
	invoice := model.Invoice{
		CustomerName:      req.CustomerName,
		CustomerAddress:   req.CustomerAddress,
		CustomerGSTIN:     strings.ToUpper(req.CustomerGSTIN),
		CustomerStateCode: req.CustomerStateCode,
		InvoiceDate:       now,
		DueDate:           req.DueDate,
		LocationID:        locationID,
		PaidAmount:        decimal.Zero,
		Status:            model.InvoiceStatusUnpaid,
		Notes:             req.Notes,
	}
	if req.InvoiceDate != nil {
		invoice.InvoiceDate = req.InvoiceDate.UTC()
	}
	if invoice.CustomerStateCode == "" && len(invoice.CustomerGSTIN) >= 2 {
		invoice.CustomerStateCode = invoice.CustomerGSTIN[:2]
	}
	interState := IsInterState(location.StateCode, invoice.CustomerStateCode)

	subtotal, cgst, sgst, igst, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
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

		item := model.InvoiceItem{
			ProductID:   productID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   product.UnitPrice,
			HSNCode:     in.HSNCode,
			GSTRate:     s.defaultRate,
		}
		if item.Description == "" {
			item.Description = product.Name
		}
		if in.UnitPrice.Valid {
			item.UnitPrice = in.UnitPrice.Decimal
		}
		if item.HSNCode == "" {
			item.HSNCode = product.HSNCode
		}
		switch {
		case in.GSTRate.Valid:
			item.GSTRate = in.GSTRate.Decimal
		case product.GSTRate.Valid:
			item.GSTRate = product.GSTRate.Decimal
		}
		if interState {
			item.IGSTRate = item.GSTRate
		} else {
			item.CGSTRate = item.GSTRate.Div(decimal.NewFromInt(2))
			item.SGSTRate = item.CGSTRate
		}

		line := CalculateGST(item.UnitPrice, item.Quantity, item.GSTRate, interState)
		item.Amount = line.Subtotal
		item.TotalAmount = line.Total
		invoice.Items = append(invoice.Items, item)

		subtotal = subtotal.Add(line.Subtotal)
		cgst = cgst.Add(line.CGST)
		sgst = sgst.Add(line.SGST)
		igst = igst.Add(line.IGST)
		total = total.Add(line.Total)
	}
	invoice.Subtotal = subtotal
	invoice.CGSTAmount = cgst
	invoice.SGSTAmount = sgst
	invoice.IGSTAmount = igst
	invoice.TotalAmount = total
	invoice.Status = DeriveInvoiceStatus(invoice.PaidAmount, total)

	for attempt := 1; ; attempt++ {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			number, err := s.generateInvoiceNo(txCtx, now)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number

			if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
				return err
			}
			for _, item := range invoice.Items {
				sale := model.Sale{
					LocationID: locationID,
					ProductID:  item.ProductID,
					Date:       invoice.InvoiceDate,
					Quantity:   item.Quantity,
					UnitPrice:  item.UnitPrice,
					InvoiceID:  &invoice.ID,
				}
				if err := s.saleRepo.Create(txCtx, &sale); err != nil {
					return fmt.Errorf("failed to record sale: %w", err)
				}
			}
			return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNumber, map[string]any{
				"customer":    invoice.CustomerName,
				"interState":  interState,
				"totalAmount": invoice.TotalAmount.StringFixed(2),
			})
		})
		if !errors.Is(err, repository.ErrDuplicate) || attempt == invoiceNumberAttempts {
			break
		}
		s.logger.Warn("invoice number taken, retrying", zap.String("invoice_number", invoice.InvoiceNumber), zap.Int("attempt", attempt))
		invoice.ID = uuid.Nil
		for i := range invoice.Items {
			invoice.Items[i].ID = uuid.Nil
		}
	}
	if err != nil {
		return nil, repoErr(err, "invoice")
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.TotalAmount.StringFixed(2)))
	s.hub.BroadcastEvent(EventInvoiceCreated, invoice)
	return &InvoiceDetail{Invoice: &invoice, Location: location}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	if filter.Status != "" {
		switch filter.Status {
		case model.InvoiceStatusUnpaid, model.InvoiceStatusPartial, model.InvoiceStatusPaid:
		default:
			return nil, 0, validationError("unknown invoice status %q", filter.Status)
		}
	}
	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, total, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	invoiceID, err := parseID(id, "invoice")
	if err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, repoErr(err, "invoice")
	}
	return &InvoiceDetail{Invoice: invoice, Location: invoice.Location}, nil
}

// generateInvoiceNo numbers invoices per day: INV-YYYYMMDD-00001.
func (s *invoiceService) generateInvoiceNo(ctx context.Context, now time.Time) (string, error) {
	prefix := "INV-" + now.Format("20060102") + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
