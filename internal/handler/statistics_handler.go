package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard/stats", middleware.RequireRole(anyRole...), h.GetDashboardStats)
}

// @Summary      Get dashboard statistics
// @Description  Stock value, low stock count, open supplier orders and active suppliers, optionally for one location
// @Tags         dashboard
// @Produce      json
// @Param        locationId  query     string  false  "Restrict stock figures to this location"
// @Success      200         {object}  response.Response{data=model.DashboardStats}
// @Failure      400         {object}  response.Response
// @Failure      401         {object}  response.Response
// @Security     BearerAuth
// @Router       /api/dashboard/stats [get]
func (h *StatisticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statisticsService.GetDashboardStats(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, stats)
}
