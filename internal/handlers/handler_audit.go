package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditService portssvc.AuditSvc
}

func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := &auditHandler{auditService: auditService}
	rg.GET("/audit-logs", h.listAuditLogs)
}

// listAuditLogs godoc
// @Summary List pricing audit entries
// @Description Newest first, filtered and paginated with an opaque nextToken.
// @Tags audit
// @Produce  json
// @Param   actionType query string false "Action type"
// @Param   entityType query string false "Entity type"
// @Param   entityID query string false "Entity ID"
// @Param   performedBy query string false "Acting user"
// @Param   since query string false "RFC3339 lower bound"
// @Param   until query string false "RFC3339 upper bound"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListAuditLogsResponse
// @Failure 400 {object} map[string]string "Invalid filter or token"
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *auditHandler) listAuditLogs(c *gin.Context) {
	var params dto.ListAuditLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ListAuditLogs query", err)
		return
	}

	resp, err := h.auditService.GetAuditLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list audit logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}
