package handler

import (
	"net/http"

	"stockbook/internal/middleware"
	"stockbook/internal/service"
	"stockbook/pkg/pagination"
	"stockbook/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireRole(managerRole...))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the newest audit entries first, with the acting username resolved
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Param        action    query  string  false  "Action, e.g. RECORD_PAYMENT"
// @Param        entityId  query  string  false  "Entity id"
// @Param        userId    query  string  false  "Acting user id"
// @Param        days      query  int     false  "Only the last N days"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	days, ok := queryInt(c, "days", 0)
	if !ok {
		return
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), service.AuditLogQuery{
		Action:   c.Query("action"),
		EntityID: c.Query("entityId"),
		UserID:   c.Query("userId"),
		Days:     days,
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}
