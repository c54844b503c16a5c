package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/SscSPs/pricing_admin_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

// SystemUserID is recorded when a write has no acting user.
const SystemUserID = "system"

type auditService struct {
	BaseService
	auditRepo   portsrepo.AuditLogRepository
	historyRepo portsrepo.RateHistoryRepository
}

// NewAuditService creates the audit trail service.
func NewAuditService(auditRepo portsrepo.AuditLogRepository, historyRepo portsrepo.RateHistoryRepository) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo, historyRepo: historyRepo}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Log appends entry. The write outlives a cancelled request so that a change
// which already committed is not left without its audit row.
func (s *auditService) Log(ctx context.Context, entry domain.PricingAuditLog) {
	entry.LogID = uuid.NewString()
	entry.CreatedAt = now()
	if entry.PerformedBy == "" {
		entry.PerformedBy = SystemUserID
	}

	if err := s.auditRepo.SaveAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		metrics.RecordAuditWriteFailure("audit_log")
		s.LogError(ctx, err, "Failed to write pricing audit log",
			slog.String("action_type", string(entry.ActionType)),
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID))
	}
}

// LogRateChange appends a rate history row with the same failure handling as Log.
func (s *auditService) LogRateChange(ctx context.Context, history domain.CurrencyRateHistory) {
	history.HistoryID = uuid.NewString()
	history.CreatedAt = now()
	if history.ChangedBy == "" {
		history.ChangedBy = SystemUserID
	}

	if err := s.historyRepo.SaveRateHistory(context.WithoutCancel(ctx), history); err != nil {
		metrics.RecordAuditWriteFailure("rate_history")
		s.LogError(ctx, err, "Failed to write currency rate history",
			slog.String("currency_code", history.CurrencyCode),
			slog.String("old_rate", history.OldRate.String()),
			slog.String("new_rate", history.NewRate.String()))
	}
}

func (s *auditService) GetAuditLogs(ctx context.Context, params dto.ListAuditLogsParams) (*dto.ListAuditLogsResponse, error) {
	filter := domain.AuditLogFilter{
		ActionType:  params.ActionType,
		EntityType:  params.EntityType,
		EntityID:    params.EntityID,
		PerformedBy: params.PerformedBy,
		Since:       params.Since,
		Until:       params.Until,
		Limit:       params.Limit,
	}
	limit := filter.NormalizedLimit()

	if params.NextToken != nil && *params.NextToken != "" {
		ts, id, err := pagination.DecodeCursorToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.CursorTime = &ts
		filter.CursorID = id
	}

	// Fetch one extra row to learn whether another page exists.
	filter.Limit = limit + 1
	logs, err := s.auditRepo.ListAuditLogs(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit logs")
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	resp := &dto.ListAuditLogsResponse{Logs: logs}
	if len(logs) > limit {
		resp.Logs = logs[:limit]
		last := resp.Logs[limit-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.LogID)
		resp.NextToken = &token
	}
	if resp.Logs == nil {
		resp.Logs = []domain.PricingAuditLog{}
	}
	return resp, nil
}

func (s *auditService) GetRateHistory(ctx context.Context, currencyCode string, limit int) ([]domain.CurrencyRateHistory, error) {
	limit = domain.AuditLogFilter{Limit: limit}.NormalizedLimit()
	history, err := s.historyRepo.ListRateHistory(ctx, strings.ToUpper(currencyCode), limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rate history", slog.String("currency_code", currencyCode))
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	if history == nil {
		return []domain.CurrencyRateHistory{}, nil
	}
	return history, nil
}
