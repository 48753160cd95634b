package service

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/forecast"
	"stockbook/internal/model"
	"stockbook/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	forecastHistoryDays = 90
	analysisHistoryDays = 30
	defaultAnalyzeLimit = 5
)

// DTOs
type GeneratePredictionRequest struct {
	ProductID  string `json:"productId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	Period     string `json:"period" binding:"omitempty,oneof=30days 60days 90days"`
}

type AnalyzeInventoryRequest struct {
	LocationID string `json:"locationId" binding:"required,uuid"`
	Limit      int    `json:"limit" binding:"omitempty,gt=0,lte=50"`
}

// PredictionView is a stored prediction joined with its product and the
// current stock at the prediction's location.
type PredictionView struct {
	ID               uuid.UUID         `json:"id"`
	ProductID        uuid.UUID         `json:"productId"`
	LocationID       uuid.UUID         `json:"locationId"`
	ProductName      string            `json:"productName"`
	SKU              string            `json:"sku"`
	Category         string            `json:"category"`
	CurrentStock     int               `json:"currentStock"`
	PredictedDemand  int               `json:"predictedDemand"`
	RecommendedOrder int               `json:"recommendedOrder"`
	Confidence       decimal.Decimal   `json:"confidence"`
	Period           string            `json:"period"`
	Source           string            `json:"source"`
	Status           model.StockStatus `json:"status"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

type GeneratedPrediction struct {
	Prediction *model.Prediction `json:"prediction"`
	Product    *model.Product    `json:"product"`
}

type InventoryAnalysis struct {
	Recommendations []forecast.Recommendation `json:"recommendations"`
	Source          string                    `json:"source"`
}

type PredictionService interface {
	ListPredictions(ctx context.Context, locationID string) ([]PredictionView, error)
	GeneratePrediction(ctx context.Context, req GeneratePredictionRequest, now time.Time) (*GeneratedPrediction, error)
	AnalyzeInventory(ctx context.Context, req AnalyzeInventoryRequest, now time.Time) (*InventoryAnalysis, error)
}

type predictionService struct {
	predictionRepo repository.PredictionRepository
	productRepo    repository.ProductRepository
	inventoryRepo  repository.InventoryRepository
	locationRepo   repository.LocationRepository
	saleRepo       repository.SaleRepository
	predictor      *forecast.Predictor
	logger         *zap.Logger
}

func NewPredictionService(
	predictionRepo repository.PredictionRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	locationRepo repository.LocationRepository,
	saleRepo repository.SaleRepository,
	predictor *forecast.Predictor,
	logger *zap.Logger,
) PredictionService {
	return &predictionService{
		predictionRepo: predictionRepo,
		productRepo:    productRepo,
		inventoryRepo:  inventoryRepo,
		locationRepo:   locationRepo,
		saleRepo:       saleRepo,
		predictor:      predictor,
		logger:         loggerOrNop(logger),
	}
}

type stockKey struct {
	product  uuid.UUID
	location uuid.UUID
}

func (s *predictionService) ListPredictions(ctx context.Context, locationID string) ([]PredictionView, error) {
	locID, err := optionalID(locationID, "location")
	if err != nil {
		return nil, err
	}

	predictions, err := s.predictionRepo.List(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}
	products, err := productIndex(ctx, s.productRepo)
	if err != nil {
		return nil, err
	}
	rows, err := s.inventoryRepo.List(ctx, locID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	stock := make(map[stockKey]int, len(rows))
	for _, r := range rows {
		stock[stockKey{r.ProductID, r.LocationID}] = r.Quantity
	}

	views := make([]PredictionView, 0, len(predictions))
	for _, p := range predictions {
		product, ok := products[p.ProductID]
		if !ok {
			// product deleted after the forecast was stored
			continue
		}
		current := stock[stockKey{p.ProductID, p.LocationID}]
		views = append(views, PredictionView{
			ID:               p.ID,
			ProductID:        p.ProductID,
			LocationID:       p.LocationID,
			ProductName:      product.Name,
			SKU:              product.SKU,
			Category:         product.Category,
			CurrentStock:     current,
			PredictedDemand:  p.PredictedDemand,
			RecommendedOrder: max(0, p.PredictedDemand-current),
			Confidence:       p.Confidence,
			Period:           p.Period,
			Source:           p.Source,
			Status:           ClassifyStock(current, product.ReorderPoint),
			GeneratedAt:      p.GeneratedAt,
		})
	}
	return views, nil
}

// GeneratePrediction forecasts demand from the last 90 days of sales and
// stores the result. Forecasting never fails the request; the predictor
// falls back to a local estimate.
func (s *predictionService) GeneratePrediction(ctx context.Context, req GeneratePredictionRequest, now time.Time) (*GeneratedPrediction, error) {
	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}
	period := req.Period
	if period == "" {
		period = model.Period30Days
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	end := now.UTC()
	start := end.AddDate(0, 0, -forecastHistoryDays)
	sales, err := s.saleRepo.List(ctx, repository.SaleFilter{
		ProductID:  &productID,
		LocationID: &locationID,
		From:       &start,
		To:         &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales history: %w", err)
	}
	history := make([]forecast.SalePoint, 0, len(sales))
	for _, sale := range sales {
		history = append(history, forecast.SalePoint{
			Date:     sale.Date.UTC().Format(time.DateOnly),
			Quantity: sale.Quantity,
		})
	}

	demand, source := s.predictor.Demand(ctx, forecast.DemandRequest{
		ProductID:   productID,
		ProductName: product.Name,
		History:     history,
		Period:      period,
	})

	prediction := model.Prediction{
		ProductID:       productID,
		LocationID:      locationID,
		PredictedDemand: demand.PredictedDemand,
		Confidence:      decimal.NewFromFloat(demand.Confidence).Round(4),
		Period:          period,
		Source:          source,
		GeneratedAt:     end,
	}
	if err := s.predictionRepo.Create(ctx, &prediction); err != nil {
		return nil, repoErr(err, "prediction")
	}

	s.logger.Info("demand forecast stored",
		zap.String("product_id", productID.String()),
		zap.String("location_id", locationID.String()),
		zap.Int("predicted_demand", prediction.PredictedDemand),
		zap.String("source", source))

	return &GeneratedPrediction{Prediction: &prediction, Product: product}, nil
}

// AnalyzeInventory asks for restocking advice on every product stocked at a
// location, using the last 30 days of sales as historical demand.
func (s *predictionService) AnalyzeInventory(ctx context.Context, req AnalyzeInventoryRequest, now time.Time) (*InventoryAnalysis, error) {
	locationID, err := parseID(req.LocationID, "location")
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAnalyzeLimit
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	rows, err := s.inventoryRepo.List(ctx, &locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	products, err := productIndex(ctx, s.productRepo)
	if err != nil {
		return nil, err
	}

	end := now.UTC()
	start := end.AddDate(0, 0, -analysisHistoryDays)
	sales, err := s.saleRepo.List(ctx, repository.SaleFilter{LocationID: &locationID, From: &start, To: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	demand := make(map[uuid.UUID]int)
	for _, sale := range sales {
		demand[sale.ProductID] += sale.Quantity
	}

	items := make([]forecast.StockItem, 0, len(rows))
	for _, row := range rows {
		product, ok := products[row.ProductID]
		if !ok {
			continue
		}
		items = append(items, forecast.StockItem{
			ProductID:        product.ID,
			Name:             product.Name,
			SKU:              product.SKU,
			Category:         product.Category,
			CurrentStock:     row.Quantity,
			ReorderPoint:     product.ReorderPoint,
			HistoricalDemand: demand[product.ID],
		})
	}

	recs, source := s.predictor.Recommend(ctx, items, limit)
	return &InventoryAnalysis{Recommendations: recs, Source: source}, nil
}
