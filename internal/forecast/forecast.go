// Package forecast predicts product demand and produces restocking
// recommendations. An LLM-backed Forecaster is consulted first; any failure
// or timeout is replaced by a deterministic local estimate.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stockbook/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Priorities of a Recommendation
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ErrExternalService wraps every failure of a remote Forecaster.
var ErrExternalService = errors.New("forecasting service failure")

type SalePoint struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

type DemandRequest struct {
	ProductID   uuid.UUID
	ProductName string
	History     []SalePoint
	Period      string
}

type Demand struct {
	PredictedDemand int     `json:"predictedDemand"`
	Confidence      float64 `json:"confidence"`
}

type StockItem struct {
	ProductID        uuid.UUID `json:"productId"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku"`
	Category         string    `json:"category"`
	CurrentStock     int       `json:"currentStock"`
	ReorderPoint     int       `json:"reorderPoint"`
	HistoricalDemand int       `json:"historicalDemand"`
}

type Recommendation struct {
	ProductID      uuid.UUID `json:"productId"`
	Recommendation string    `json:"recommendation"`
	Priority       string    `json:"priority"`
	Reason         string    `json:"reason"`
}

// Forecaster is a remote prediction service.
type Forecaster interface {
	PredictDemand(ctx context.Context, req DemandRequest) (Demand, error)
	AnalyzeInventory(ctx context.Context, items []StockItem, limit int) ([]Recommendation, error)
}

// Predictor consults a Forecaster under a timeout and falls back to local
// estimates. A nil Forecaster always uses the fallback.
type Predictor struct {
	remote  Forecaster
	timeout time.Duration
	logger  *zap.Logger
}

func NewPredictor(remote Forecaster, timeout time.Duration, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{remote: remote, timeout: timeout, logger: logger}
}

// Demand returns the forecast and its source (model.PredictionSourceAI or
// model.PredictionSourceFallback).
func (p *Predictor) Demand(ctx context.Context, req DemandRequest) (Demand, string) {
	if p.remote != nil {
		callCtx, cancel := p.withTimeout(ctx)
		defer cancel()

		d, err := p.remote.PredictDemand(callCtx, req)
		if err == nil {
			return d, model.PredictionSourceAI
		}
		p.logger.Warn("demand forecast failed, using fallback",
			zap.String("product_id", req.ProductID.String()),
			zap.String("period", req.Period),
			zap.Error(err))
	}
	return FallbackDemand(req.History, req.Period), model.PredictionSourceFallback
}

// Recommend returns restocking advice and its source.
func (p *Predictor) Recommend(ctx context.Context, items []StockItem, limit int) ([]Recommendation, string) {
	if p.remote != nil {
		callCtx, cancel := p.withTimeout(ctx)
		defer cancel()

		recs, err := p.remote.AnalyzeInventory(callCtx, items, limit)
		if err == nil {
			return recs, model.PredictionSourceAI
		}
		p.logger.Warn("inventory analysis failed, using fallback", zap.Int("items", len(items)), zap.Error(err))
	}
	return FallbackRecommendations(items, limit), model.PredictionSourceFallback
}

func (p *Predictor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// PeriodMultiplier is the number of 30-day windows in a forecast period.
func PeriodMultiplier(period string) int {
	switch period {
	case model.Period60Days:
		return 2
	case model.Period90Days:
		return 3
	default:
		return 1
	}
}

// FallbackDemand is the mean quantity per sale scaled by the period, with
// confidence 0.5.
func FallbackDemand(history []SalePoint, period string) Demand {
	total := 0
	for _, h := range history {
		total += h.Quantity
	}
	mean := float64(total) / float64(max(1, len(history)))
	return Demand{
		PredictedDemand: int(math.Floor(mean*float64(PeriodMultiplier(period)) + 0.5)),
		Confidence:      0.5,
	}
}

// FallbackRecommendations suggests reordering every item below its reorder
// point, in input order, up to limit.
func FallbackRecommendations(items []StockItem, limit int) []Recommendation {
	recs := make([]Recommendation, 0)
	for _, item := range items {
		if limit > 0 && len(recs) >= limit {
			break
		}
		if item.CurrentStock >= item.ReorderPoint {
			continue
		}

		priority := PriorityMedium
		if float64(item.CurrentStock) < float64(item.ReorderPoint)*0.5 {
			priority = PriorityHigh
		}
		recs = append(recs, Recommendation{
			ProductID:      item.ProductID,
			Recommendation: fmt.Sprintf("Order %d units", max(1, item.ReorderPoint-item.CurrentStock)),
			Priority:       priority,
			Reason:         fmt.Sprintf("Current stock (%d) is below reorder point (%d)", item.CurrentStock, item.ReorderPoint),
		})
	}
	return recs
}

func clampDemand(d Demand) Demand {
	if d.PredictedDemand < 0 {
		d.PredictedDemand = 0
	}
	d.Confidence = math.Max(0, math.Min(1, d.Confidence))
	return d
}
