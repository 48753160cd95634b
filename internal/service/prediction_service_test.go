package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockbook/internal/forecast"
	"stockbook/internal/model"
	"stockbook/internal/service"
)

type failingForecaster struct{}

func (failingForecaster) PredictDemand(context.Context, forecast.DemandRequest) (forecast.Demand, error) {
	return forecast.Demand{}, forecast.ErrExternalService
}

func (failingForecaster) AnalyzeInventory(context.Context, []forecast.StockItem, int) ([]forecast.Recommendation, error) {
	return nil, forecast.ErrExternalService
}

type fixedForecaster struct{ demand forecast.Demand }

func (f fixedForecaster) PredictDemand(context.Context, forecast.DemandRequest) (forecast.Demand, error) {
	return f.demand, nil
}

func (f fixedForecaster) AnalyzeInventory(_ context.Context, items []forecast.StockItem, _ int) ([]forecast.Recommendation, error) {
	return []forecast.Recommendation{{ProductID: items[0].ProductID, Recommendation: "Hold", Priority: forecast.PriorityLow}}, nil
}

func (f *fixture) predictionService(remote forecast.Forecaster) service.PredictionService {
	r := f.repos
	predictor := forecast.NewPredictor(remote, time.Second, nil)
	return service.NewPredictionService(r.Predictions, r.Products, r.Inventory, r.Locations, r.Sales, predictor, nil)
}

func (f *fixture) sale(t *testing.T, p *model.Product, loc *model.Location, qty int, at time.Time) {
	t.Helper()
	s := &model.Sale{ProductID: p.ID, LocationID: loc.ID, Quantity: qty, UnitPrice: p.UnitPrice, Date: at}
	if err := f.repos.Sales.Create(f.ctx, s); err != nil {
		t.Fatalf("create sale: %v", err)
	}
}

func TestGeneratePrediction_FallsBack(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "A", "27")
	p := f.product(t, "SKU-1", "10", 10, "")
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	f.sale(t, p, loc, 4, now.AddDate(0, 0, -10))
	f.sale(t, p, loc, 7, now.AddDate(0, 0, -20))
	f.sale(t, p, loc, 100, now.AddDate(0, 0, -120)) // outside the 90 day window

	svc := f.predictionService(failingForecaster{})
	got, err := svc.GeneratePrediction(f.ctx, service.GeneratePredictionRequest{
		ProductID:  p.ID.String(),
		LocationID: loc.ID.String(),
		Period:     model.Period60Days,
	}, now)
	if err != nil {
		t.Fatalf("GeneratePrediction: %v", err)
	}
	// mean 5.5 * 2 = 11
	if got.Prediction.PredictedDemand != 11 || got.Prediction.Source != model.PredictionSourceFallback {
		t.Errorf("prediction = %+v", got.Prediction)
	}
	if !got.Prediction.Confidence.Equal(dec("0.5")) || got.Product.ID != p.ID {
		t.Errorf("confidence %s product %v", got.Prediction.Confidence, got.Product.ID)
	}

	if _, err := svc.GeneratePrediction(f.ctx, service.GeneratePredictionRequest{
		ProductID:  "7b1c2a52-8f43-4d6a-9a3c-1b2c3d4e5f60",
		LocationID: loc.ID.String(),
	}, now); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("missing product err = %v", err)
	}
}

func TestListPredictions_JoinsStock(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "A", "27")
	p := f.product(t, "SKU-1", "10", 10, "")
	f.stock(t, p, loc, 8)

	svc := f.predictionService(fixedForecaster{demand: forecast.Demand{PredictedDemand: 30, Confidence: 0.9}})
	if _, err := svc.GeneratePrediction(f.ctx, service.GeneratePredictionRequest{ProductID: p.ID.String(), LocationID: loc.ID.String()}, time.Now()); err != nil {
		t.Fatalf("GeneratePrediction: %v", err)
	}

	views, err := svc.ListPredictions(f.ctx, loc.ID.String())
	if err != nil {
		t.Fatalf("ListPredictions: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d predictions, want 1", len(views))
	}
	v := views[0]
	if v.CurrentStock != 8 || v.RecommendedOrder != 22 || v.Status != model.StockMedium {
		t.Errorf("view = %+v", v)
	}
	if v.Source != model.PredictionSourceAI || v.Period != model.Period30Days {
		t.Errorf("source %q period %q", v.Source, v.Period)
	}
}

func TestAnalyzeInventory(t *testing.T) {
	f := newFixture(t)
	loc := f.location(t, "A", "27")
	low := f.product(t, "LOW", "10", 10, "")
	ok := f.product(t, "OK", "10", 10, "")
	f.stock(t, low, loc, 2)
	f.stock(t, ok, loc, 40)

	got, err := f.predictionService(failingForecaster{}).AnalyzeInventory(f.ctx, service.AnalyzeInventoryRequest{LocationID: loc.ID.String()}, time.Now())
	if err != nil {
		t.Fatalf("AnalyzeInventory: %v", err)
	}
	if got.Source != model.PredictionSourceFallback || len(got.Recommendations) != 1 {
		t.Fatalf("analysis = %+v", got)
	}
	rec := got.Recommendations[0]
	if rec.ProductID != low.ID || rec.Priority != forecast.PriorityHigh || rec.Recommendation != "Order 8 units" {
		t.Errorf("recommendation = %+v", rec)
	}

	ai, err := f.predictionService(fixedForecaster{}).AnalyzeInventory(f.ctx, service.AnalyzeInventoryRequest{LocationID: loc.ID.String(), Limit: 1}, time.Now())
	if err != nil || ai.Source != model.PredictionSourceAI {
		t.Errorf("ai analysis = %+v, %v", ai, err)
	}
}
