package handler

import (
	"stockbook/internal/middleware"
	"stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	gstService service.GSTService
}

func NewTaxHandler(gstService service.GSTService) *TaxHandler {
	return &TaxHandler{gstService: gstService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api")
	tax.Use(middleware.RequireRole(anyRole...))
	{
		tax.POST("/calculate-gst", h.CalculateGST)
		tax.GET("/gst-summary", h.GetSummary)
	}
}

// CalculateGST splits a line amount into CGST/SGST or IGST
// @Summary      Calculate GST
// @Tags         gst
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CalculateGSTRequest  true  "Line"
// @Success      200      {object}  response.Response{data=model.GSTBreakdown}
// @Failure      400      {object}  response.Response
// @Router       /api/calculate-gst [post]
func (h *TaxHandler) CalculateGST(c *gin.Context) {
	var req service.CalculateGSTRequest
	if !bindJSON(c, &req) {
		return
	}
	success(c, service.CalculateGST(req.UnitPrice, req.Quantity, req.GSTRate, req.IsInterState))
}

// GetSummary returns outward, inward and net GST for a calendar month.
// Month and year default to the current UTC month.
// @Summary      Monthly GST summary
// @Tags         gst
// @Security     BearerAuth
// @Produce      json
// @Param        month  query     int  false  "1-12"
// @Param        year   query     int  false  "Four digit year"
// @Success      200    {object}  response.Response{data=model.GSTSummary}
// @Failure      400    {object}  response.Response
// @Router       /api/gst-summary [get]
func (h *TaxHandler) GetSummary(c *gin.Context) {
	current := now()
	month, ok := queryInt(c, "month", int(current.Month()))
	if !ok {
		return
	}
	year, ok := queryInt(c, "year", current.Year())
	if !ok {
		return
	}

	summary, err := h.gstService.SummarizeMonth(c.Request.Context(), month, year)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, summary)
}
