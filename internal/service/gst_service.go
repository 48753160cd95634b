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

type GSTService interface {
	// SummarizeMonth recomputes the GST position of a calendar month (UTC)
	// from the current invoices and supplier orders.
	SummarizeMonth(ctx context.Context, month, year int) (*model.GSTSummary, error)
}

type gstService struct {
	invoiceRepo  repository.InvoiceRepository
	orderRepo    repository.SupplierOrderRepository
	locationRepo repository.LocationRepository
	defaultRate  decimal.Decimal
}

func NewGSTService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.SupplierOrderRepository,
	locationRepo repository.LocationRepository,
	defaultRate decimal.Decimal,
) GSTService {
	return &gstService{
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		locationRepo: locationRepo,
		defaultRate:  defaultRate,
	}
}

// MonthBounds returns the first and last instant of a UTC calendar month.
func MonthBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func (s *gstService) SummarizeMonth(ctx context.Context, month, year int) (*model.GSTSummary, error) {
	if month < 1 || month > 12 {
		return nil, validationError("month must be between 1 and 12")
	}
	if year < 1 {
		return nil, validationError("year must be positive")
	}
	start, end := MonthBounds(month, year)

	invoices, _, err := s.invoiceRepo.List(ctx, repository.InvoiceFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	outward := zeroSupply()
	for _, inv := range invoices {
		outward.TaxableAmount = outward.TaxableAmount.Add(inv.Subtotal)
		outward.CGST = outward.CGST.Add(inv.CGSTAmount)
		outward.SGST = outward.SGST.Add(inv.SGSTAmount)
		outward.IGST = outward.IGST.Add(inv.IGSTAmount)
	}
	outward.Total = outward.CGST.Add(outward.SGST).Add(outward.IGST)

	orders, err := s.orderRepo.List(ctx, repository.OrderFilter{From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch supplier orders: %w", err)
	}
	locationStates := make(map[uuid.UUID]string)
	inward := zeroSupply()
	for _, order := range orders {
		if order.Status == model.OrderStatusCanceled {
			continue
		}
		supplierState := ""
		if order.Supplier != nil {
			supplierState = order.Supplier.StateCode
		}
		locationState, err := s.locationState(ctx, order.LocationID, locationStates)
		if err != nil {
			return nil, err
		}
		interState := IsInterState(supplierState, locationState)

		for _, item := range order.Items {
			line := CalculateGST(item.UnitPrice, item.Quantity, itemRate(item, s.defaultRate), interState)
			inward.TaxableAmount = inward.TaxableAmount.Add(line.Subtotal)
			inward.CGST = inward.CGST.Add(line.CGST)
			inward.SGST = inward.SGST.Add(line.SGST)
			inward.IGST = inward.IGST.Add(line.IGST)
		}
	}
	inward.Total = inward.CGST.Add(inward.SGST).Add(inward.IGST)

	net := model.NetTax{
		CGST: outward.CGST.Sub(inward.CGST),
		SGST: outward.SGST.Sub(inward.SGST),
		IGST: outward.IGST.Sub(inward.IGST),
	}
	net.Total = net.CGST.Add(net.SGST).Add(net.IGST)

	return &model.GSTSummary{
		Month:           time.Month(month).String(),
		Year:            year,
		OutwardSupplies: outward,
		InwardSupplies:  inward,
		NetTax:          net,
	}, nil
}

func (s *gstService) locationState(ctx context.Context, id *uuid.UUID, cache map[uuid.UUID]string) (string, error) {
	if id == nil {
		return "", nil
	}
	if state, ok := cache[*id]; ok {
		return state, nil
	}
	location, err := s.locationRepo.FindByID(ctx, *id)
	switch {
	case err == nil:
		cache[*id] = location.StateCode
	case isNotFound(err):
		// the fulfilling location was removed; treat as intra-state
		cache[*id] = ""
	default:
		return "", fmt.Errorf("failed to fetch location: %w", err)
	}
	return cache[*id], nil
}

func zeroSupply() model.SupplyTotals {
	return model.SupplyTotals{
		TaxableAmount: decimal.Zero,
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		IGST:          decimal.Zero,
		Total:         decimal.Zero,
	}
}
