package handler

import (
	"net/http"

	"stockbook/internal/middleware"
	"stockbook/internal/service"
	"stockbook/pkg/pagination"
	"stockbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api")
	{
		api.GET("/products", middleware.RequireRole(anyRole...), h.ListProducts)
		api.GET("/products/:id", middleware.RequireRole(anyRole...), h.GetProduct)
		api.POST("/products", middleware.RequireRole(managerRole...), h.CreateProduct)
		api.PUT("/products/:id", middleware.RequireRole(managerRole...), h.UpdateProduct)
		api.DELETE("/products/:id", middleware.RequireRole(managerRole...), h.DeleteProduct)
		api.GET("/barcode/:barcode", middleware.RequireRole(anyRole...), h.GetByBarcode)
	}
}

// ListProducts returns products matching the optional search and category filters.
// Without page or limit the whole catalogue is returned.
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        search    query     string  false  "Case-insensitive match on name or SKU"
// @Param        category  query     string  false  "Exact category"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Items per page"
// @Success      200       {object}  response.Response{data=response.Page}
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	p := pagination.ParseOptional(c)
	products, total, err := h.productService.ListProducts(c.Request.Context(), service.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, products, total, p.Page, p.Limit))
}

// GetProduct
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

// GetByBarcode looks a product up by its scanned barcode
// @Summary      Get product by barcode
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        barcode  path      string  true  "Barcode"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      404      {object}  response.Response
// @Router       /api/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	product, err := h.productService.GetProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

// CreateProduct
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, product)
}

// UpdateProduct applies a partial update; a price change is recorded as a revaluation.
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.UpdateProduct(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, product)
}

// DeleteProduct
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"message": "Product deleted"})
}
