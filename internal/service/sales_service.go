package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/shopspring/decimal"
)

const defaultTrendDays = 30

type RecordSaleRequest struct {
	ProductID  string          `json:"productId" binding:"required,uuid"`
	LocationID string          `json:"locationId" binding:"required,uuid"`
	Quantity   int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unitPrice" binding:"dgte0"`
	Date       *time.Time      `json:"date"`
}

type SalesService interface {
	RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error)
	// Trends groups sales of the last days (30 when days <= 0) by UTC date.
	Trends(ctx context.Context, productID, locationID string, days int, now time.Time) ([]model.SalesTrendPoint, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

func NewSalesService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) SalesService {
	return &salesService{saleRepo: saleRepo, productRepo: productRepo, locationRepo: locationRepo}
}

func (s *salesService) RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error) {
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be positive")
	}
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, repoErr(err, "product")
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	sale := model.Sale{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Date:       time.Now().UTC(),
	}
	if req.Date != nil {
		sale.Date = req.Date.UTC()
	}
	if err := s.saleRepo.Create(ctx, &sale); err != nil {
		return nil, repoErr(err, "sale")
	}
	return &sale, nil
}

func (s *salesService) Trends(ctx context.Context, productID, locationID string, days int, now time.Time) ([]model.SalesTrendPoint, error) {
	pid, err := optionalID(productID, "product")
	if err != nil {
		return nil, err
	}
	lid, err := optionalID(locationID, "location")
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultTrendDays
	}

	end := now.UTC()
	start := end.AddDate(0, 0, -days)
	sales, err := s.saleRepo.List(ctx, repository.SaleFilter{
		ProductID:  pid,
		LocationID: lid,
		From:       &start,
		To:         &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	byDate := make(map[string]*model.SalesTrendPoint)
	for _, sale := range sales {
		key := sale.Date.UTC().Format(time.DateOnly)
		point, ok := byDate[key]
		if !ok {
			point = &model.SalesTrendPoint{Date: key, Value: decimal.Zero}
			byDate[key] = point
		}
		point.Quantity += sale.Quantity
		point.Value = point.Value.Add(sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity))))
	}

	trends := make([]model.SalesTrendPoint, 0, len(byDate))
	for _, p := range byDate {
		trends = append(trends, *p)
	}
	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })
	return trends, nil
}
