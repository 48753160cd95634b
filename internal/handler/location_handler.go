package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	locations := router.Group("/api/locations")
	{
		locations.GET("", middleware.RequireRole(anyRole...), h.ListLocations)
		locations.POST("", middleware.RequireRole(managerRole...), h.CreateLocation)
		locations.PUT("/:id", middleware.RequireRole(managerRole...), h.UpdateLocation)
	}
}

// ListLocations returns every warehouse and store
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationService.ListLocations(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, locations)
}

// CreateLocation
// @Summary      Create location
// @Tags         locations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateLocationRequest  true  "Location"
// @Success      201      {object}  response.Response{data=model.Location}
// @Failure      400      {object}  response.Response
// @Router       /api/locations [post]
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req service.CreateLocationRequest
	if !bindJSON(c, &req) {
		return
	}
	location, err := h.locationService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req service.UpdateLocationRequest
	if !bindJSON(c, &req) {
		return
	}
	location, err := h.locationService.UpdateLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, location)
}
