package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments")
	{
		payments.GET("", middleware.RequireRole(anyRole...), h.ListPayments)
		payments.GET("/:id", middleware.RequireRole(anyRole...), h.GetPayment)
		payments.POST("", middleware.RequireRole(managerRole...), h.RecordPayment)
	}
	router.GET("/api/payment-summary", middleware.RequireRole(managerRole...), h.GetSummary)
}

// RecordPayment applies a payment to an invoice or supplier order and re-derives its status
// @Summary      Record payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordPaymentRequest  true  "Payment"
// @Success      201      {object}  response.Response{data=service.PaymentResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.paymentService.RecordPayment(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, result)
}

// ListPayments returns payments newest first, optionally for one entity
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        entityType  query     string  false  "invoice or supplierOrder"
// @Param        entityId    query     string  false  "Entity ID"
// @Success      200         {object}  response.Response{data=[]model.Payment}
// @Failure      400         {object}  response.Response
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Query("entityType"), c.Query("entityId"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, payments)
}

// GetPayment returns a single payment by ID
// @Summary      Get payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=model.Payment}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, payment)
}

// GetSummary
// @Summary      Payment summary
// @Description  Amounts to receive and to pay with every open entry that has a due date
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.PaymentSummary}
// @Router       /api/payment-summary [get]
func (h *PaymentHandler) GetSummary(c *gin.Context) {
	summary, err := h.paymentService.GetSummary(c.Request.Context(), now())
	if err != nil {
		fail(c, err)
		return
	}
	success(c, summary)
}
