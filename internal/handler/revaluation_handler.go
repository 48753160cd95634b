package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type RevaluationHandler struct {
	revaluationService service.RevaluationService
}

func NewRevaluationHandler(revaluationService service.RevaluationService) *RevaluationHandler {
	return &RevaluationHandler{revaluationService: revaluationService}
}

func (h *RevaluationHandler) RegisterRoutes(router *gin.RouterGroup) {
	revaluations := router.Group("/api/price-revaluations")
	{
		revaluations.GET("", middleware.RequireRole(anyRole...), h.ListRevaluations)
		revaluations.POST("", middleware.RequireRole(managerRole...), h.RevaluePrice)
	}
}

func (h *RevaluationHandler) ListRevaluations(c *gin.Context) {
	revaluations, err := h.revaluationService.ListRevaluations(c.Request.Context(), c.Query("productId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, revaluations)
}

// RevaluePrice changes a product's unit price and records the old and new values
// @Summary      Revalue product price
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRevaluationRequest  true  "New price and reason"
// @Success      201      {object}  response.Response{data=model.PriceRevaluation}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/price-revaluations [post]
func (h *RevaluationHandler) RevaluePrice(c *gin.Context) {
	var req service.CreateRevaluationRequest
	if !bindJSON(c, &req) {
		return
	}
	revaluation, err := h.revaluationService.RevaluePrice(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, revaluation)
}
