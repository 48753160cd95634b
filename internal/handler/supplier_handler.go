package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/api/suppliers")
	{
		suppliers.GET("", middleware.RequireRole(anyRole...), h.ListSuppliers)
		suppliers.POST("", middleware.RequireRole(managerRole...), h.CreateSupplier)
		suppliers.PUT("/:id", middleware.RequireRole(managerRole...), h.UpdateSupplier)
		suppliers.GET("/:id/products", middleware.RequireRole(anyRole...), h.ListSupplierProducts)
		suppliers.POST("/:id/products", middleware.RequireRole(managerRole...), h.AddSupplierProduct)
	}
	router.GET("/api/supplier-activity", middleware.RequireRole(anyRole...), h.GetSupplierActivity)
}

// ListSuppliers returns suppliers ordered by name
// @Summary      List suppliers
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Supplier}
// @Router       /api/suppliers [get]
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, suppliers)
}

// CreateSupplier
// @Summary      Create supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierRequest  true  "Supplier"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Failure      400      {object}  response.Response
// @Router       /api/suppliers [post]
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, supplier)
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, supplier)
}

func (h *SupplierHandler) ListSupplierProducts(c *gin.Context) {
	items, err := h.supplierService.ListSupplierProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, items)
}

// AddSupplierProduct links a product to the supplier's catalogue
// @Summary      Add supplier product
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Supplier ID"
// @Param        payload  body      service.AddSupplierProductRequest  true  "Catalogue entry"
// @Success      201      {object}  response.Response{data=model.SupplierProduct}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/suppliers/{id}/products [post]
func (h *SupplierHandler) AddSupplierProduct(c *gin.Context) {
	var req service.AddSupplierProductRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.supplierService.AddSupplierProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, item)
}

// GetSupplierActivity returns orders awaiting a supplier response and the latest status changes
// @Summary      Supplier activity feed
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.SupplierActivity}
// @Router       /api/supplier-activity [get]
func (h *SupplierHandler) GetSupplierActivity(c *gin.Context) {
	activity, err := h.supplierService.GetSupplierActivity(c.Request.Context(), now())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, activity)
}
