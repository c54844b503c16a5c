package dto

import (
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
)

// ListAuditLogsParams holds query parameters for listing audit entries.
type ListAuditLogsParams struct {
	ActionType  string     `form:"actionType"`
	EntityType  string     `form:"entityType"`
	EntityID    string     `form:"entityID"`
	PerformedBy string     `form:"performedBy"`
	Since       *time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until       *time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit       int        `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken   *string    `form:"nextToken"`
}

// ListAuditLogsResponse is a page of audit entries.
type ListAuditLogsResponse struct {
	Logs      []domain.PricingAuditLog `json:"logs"`
	NextToken *string                  `json:"nextToken,omitempty"`
}
