package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type SupplierOrderHandler struct {
	orderService service.SupplierOrderService
}

func NewSupplierOrderHandler(orderService service.SupplierOrderService) *SupplierOrderHandler {
	return &SupplierOrderHandler{orderService: orderService}
}

func (h *SupplierOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/supplier-orders")
	{
		orders.GET("", middleware.RequireRole(anyRole...), h.ListOrders)
		orders.POST("", middleware.RequireRole(managerRole...), h.CreateOrder)
		orders.PUT("/:id", middleware.RequireRole(managerRole...), h.UpdateOrder)
	}
}

// ListOrders returns purchase orders with their items, newest first
// @Summary      List supplier orders
// @Tags         supplier-orders
// @Security     BearerAuth
// @Produce      json
// @Param        supplierId  query     string  false  "Only orders placed with this supplier"
// @Success      200         {object}  response.Response{data=[]model.SupplierOrder}
// @Router       /api/supplier-orders [get]
func (h *SupplierOrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("supplierId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, orders)
}

// CreateOrder places an order; the total is derived from the items when any are given
// @Summary      Create supplier order
// @Tags         supplier-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierOrderRequest  true  "Order with items"
// @Success      201      {object}  response.Response{data=model.SupplierOrder}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/supplier-orders [post]
func (h *SupplierOrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateSupplierOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, order)
}

// UpdateOrder applies a partial update. Status changes must follow
// pending, confirmed, shipped, delivered; canceled is reachable from any open state.
// @Summary      Update supplier order
// @Tags         supplier-orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                              true  "Order ID"
// @Param        payload  body      service.UpdateSupplierOrderRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.SupplierOrder}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/supplier-orders/{id} [put]
func (h *SupplierOrderHandler) UpdateOrder(c *gin.Context) {
	var req service.UpdateSupplierOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, order)
}
