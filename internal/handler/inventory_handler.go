package handler

import (
	"net/http"

	"stockbook/internal/middleware"
	"stockbook/internal/service"
	"stockbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	inventory.Use(middleware.RequireRole(anyRole...))
	{
		inventory.GET("", h.ListInventory)
		inventory.POST("", h.CreateInventory)
		inventory.PUT("/:id", h.UpdateInventory)
		inventory.POST("/scan", h.Scan)
	}
}

// ListInventory returns stock rows joined with their product and stock status
// @Summary      List inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        locationId  query     string  false  "Only rows at this location"
// @Success      200         {object}  response.Response{data=[]service.InventoryView}
// @Failure      400         {object}  response.Response
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListInventory(c *gin.Context) {
	rows, err := h.inventoryService.ListInventory(c.Request.Context(), c.Query("locationId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, rows)
}

// CreateInventory
// @Summary      Create inventory row
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateInventoryRequest  true  "Inventory row"
// @Success      201      {object}  response.Response{data=model.Inventory}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/inventory [post]
func (h *InventoryHandler) CreateInventory(c *gin.Context) {
	var req service.CreateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.inventoryService.CreateInventory(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, inv)
}

// UpdateInventory sets the absolute quantity of a row
// @Summary      Set inventory quantity
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Inventory ID"
// @Param        payload  body      service.UpdateInventoryRequest  true  "New quantity"
// @Success      200      {object}  response.Response{data=model.Inventory}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	var req service.UpdateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.inventoryService.UpdateInventory(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, inv)
}

// Scan applies a signed quantity change by barcode. The first positive scan at
// a location creates the row and answers 201.
// @Summary      Barcode scan
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ScanRequest  true  "Scan"
// @Success      200      {object}  response.Response{data=service.ScanResult}
// @Success      201      {object}  response.Response{data=service.ScanResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/scan [post]
func (h *InventoryHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.inventoryService.Scan(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, response.Success(status, result))
}
