package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	predictionService service.PredictionService
}

func NewPredictionHandler(predictionService service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

func (h *PredictionHandler) RegisterRoutes(router *gin.RouterGroup) {
	predictions := router.Group("/api/predictions")
	{
		predictions.GET("", middleware.RequireRole(anyRole...), h.ListPredictions)
		predictions.POST("/generate", middleware.RequireRole(managerRole...), h.GeneratePrediction)
		predictions.POST("/analyze", middleware.RequireRole(managerRole...), h.AnalyzeInventory)
	}
}

// ListPredictions
// @Summary      List demand predictions
// @Tags         predictions
// @Security     BearerAuth
// @Produce      json
// @Param        locationId  query     string  false  "Location filter"
// @Success      200         {object}  response.Response{data=[]service.PredictionView}
// @Router       /api/predictions [get]
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	views, err := h.predictionService.ListPredictions(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, views)
}

// GeneratePrediction forecasts demand for one product at one location and stores it.
// The forecasting model is optional; its failures fall back to a sales average.
// @Summary      Generate prediction
// @Tags         predictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GeneratePredictionRequest  true  "Product, location and period"
// @Success      201      {object}  response.Response{data=service.GeneratedPrediction}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/predictions/generate [post]
func (h *PredictionHandler) GeneratePrediction(c *gin.Context) {
	var req service.GeneratePredictionRequest
	if !bindJSON(c, &req) {
		return
	}
	generated, err := h.predictionService.GeneratePrediction(c.Request.Context(), req, now())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, generated)
}

// AnalyzeInventory
// @Summary      Restock recommendations
// @Tags         predictions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AnalyzeInventoryRequest  true  "Location and limit"
// @Success      200      {object}  response.Response{data=service.InventoryAnalysis}
// @Failure      400      {object}  response.Response
// @Router       /api/predictions/analyze [post]
func (h *PredictionHandler) AnalyzeInventory(c *gin.Context) {
	var req service.AnalyzeInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	analysis, err := h.predictionService.AnalyzeInventory(c.Request.Context(), req, now())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, analysis)
}
