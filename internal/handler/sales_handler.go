package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	salesService service.SalesService
}

func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	sales.Use(middleware.RequireRole(anyRole...))
	{
		sales.POST("", h.RecordSale)
		sales.GET("/trends", h.GetTrends)
	}
}

// RecordSale stores a sale event. Stock levels are adjusted separately through inventory.
// @Summary      Record sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/sales [post]
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	sale, err := h.salesService.RecordSale(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, sale)
}

// GetTrends
// @Summary      Daily sales series
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        productId   query     string  false  "Product filter"
// @Param        locationId  query     string  false  "Location filter"
// @Param        days        query     int     false  "Window in days (default 30)"
// @Success      200         {object}  response.Response{data=[]model.SalesTrendPoint}
// @Router       /api/sales/trends [get]
func (h *SalesHandler) GetTrends(c *gin.Context) {
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}
	points, err := h.salesService.Trends(c.Request.Context(), c.Query("productId"), c.Query("locationId"), days, now())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, points)
}
