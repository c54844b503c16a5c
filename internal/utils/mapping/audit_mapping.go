package mapping

import (
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
)

func ToModelPricingAuditLog(d domain.PricingAuditLog) models.PricingAuditLog {
	return models.PricingAuditLog{
		LogID:       d.LogID,
		ActionType:  string(d.ActionType),
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		OldValue:    d.OldValue,
		NewValue:    d.NewValue,
		PerformedBy: d.PerformedBy,
		Notes:       toNullString(d.Notes),
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainPricingAuditLog(m models.PricingAuditLog) domain.PricingAuditLog {
	return domain.PricingAuditLog{
		LogID:       m.LogID,
		ActionType:  domain.AuditActionType(m.ActionType),
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		OldValue:    m.OldValue,
		NewValue:    m.NewValue,
		PerformedBy: m.PerformedBy,
		Notes:       fromNullString(m.Notes),
		CreatedAt:   m.CreatedAt,
	}
}

func ToModelRateHistory(d domain.CurrencyRateHistory) models.CurrencyRateHistory {
	return models.CurrencyRateHistory{
		HistoryID:     d.HistoryID,
		CurrencyCode:  d.CurrencyCode,
		OldRate:       d.OldRate,
		NewRate:       d.NewRate,
		ChangePercent: d.ChangePercent,
		ChangeSource:  d.ChangeSource,
		ChangedBy:     d.ChangedBy,
		Reason:        toNullString(d.Reason),
		CreatedAt:     d.CreatedAt,
	}
}

func ToDomainRateHistory(m models.CurrencyRateHistory) domain.CurrencyRateHistory {
	return domain.CurrencyRateHistory{
		HistoryID:     m.HistoryID,
		CurrencyCode:  m.CurrencyCode,
		OldRate:       m.OldRate,
		NewRate:       m.NewRate,
		ChangePercent: m.ChangePercent,
		ChangeSource:  m.ChangeSource,
		ChangedBy:     m.ChangedBy,
		Reason:        fromNullString(m.Reason),
		CreatedAt:     m.CreatedAt,
	}
}

func ToModelFetchLog(d domain.CurrencyRateFetchLog) models.CurrencyRateFetchLog {
	return models.CurrencyRateFetchLog{
		FetchID:        d.FetchID,
		Provider:       d.Provider,
		BaseCurrency:   d.BaseCurrency,
		UpdatedCount:   d.UpdatedCount,
		UnchangedCount: d.UnchangedCount,
		Status:         string(d.Status),
		Message:        toNullString(d.Message),
		RawPayload:     d.RawPayload,
		TriggeredBy:    d.TriggeredBy,
		StartedAt:      d.StartedAt,
		FinishedAt:     d.FinishedAt,
	}
}

func ToDomainFetchLog(m models.CurrencyRateFetchLog) domain.CurrencyRateFetchLog {
	return domain.CurrencyRateFetchLog{
		FetchID:        m.FetchID,
		Provider:       m.Provider,
		BaseCurrency:   m.BaseCurrency,
		UpdatedCount:   m.UpdatedCount,
		UnchangedCount: m.UnchangedCount,
		Status:         domain.FetchStatus(m.Status),
		Message:        fromNullString(m.Message),
		RawPayload:     m.RawPayload,
		TriggeredBy:    m.TriggeredBy,
		StartedAt:      m.StartedAt,
		FinishedAt:     m.FinishedAt,
	}
}
