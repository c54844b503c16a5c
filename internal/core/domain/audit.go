package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AuditActionType classifies a pricing audit entry.
type AuditActionType string

const (
	AuditCurrencyCreate         AuditActionType = "currency_create"
	AuditCurrencyRateUpdate     AuditActionType = "currency_rate_update"
	AuditBaseCurrencyChange     AuditActionType = "base_currency_change"
	AuditRateFetch              AuditActionType = "rate_fetch"
	AuditProductTaxUpdate       AuditActionType = "product_tax_update"
	AuditCountryTaxUpdate       AuditActionType = "country_tax_update"
	AuditCountryCreate          AuditActionType = "country_create"
	AuditRegionalOverrideUpsert AuditActionType = "regional_override_upsert"
	AuditRegionalOverrideDelete AuditActionType = "regional_override_delete"
	AuditPriceRecalculated      AuditActionType = "price_recalculated"
	AuditManualPriceSet         AuditActionType = "manual_price_set"
	AuditManualPriceRelease     AuditActionType = "manual_price_release"
	AuditPriceImport            AuditActionType = "price_import"
)

// Entity types referenced by audit entries.
const (
	EntityCurrency         = "currency"
	EntityCountry          = "country"
	EntityProduct          = "product"
	EntityProductPrice     = "product_price"
	EntityRegionalOverride = "regional_override"
	EntityRateFetch        = "rate_fetch"
)

// PricingAuditLog is an append-only record of a pricing change.
type PricingAuditLog struct {
	LogID       string          `json:"logID"`
	ActionType  AuditActionType `json:"actionType"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	OldValue    json.RawMessage `json:"oldValue,omitempty"`
	NewValue    json.RawMessage `json:"newValue,omitempty"`
	PerformedBy string          `json:"performedBy"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewAuditEntry builds an audit entry, snapshotting old and new values as JSON.
// A nil value is stored as absent.
func NewAuditEntry(action AuditActionType, entityType, entityID string, oldValue, newValue any, performedBy, notes string) PricingAuditLog {
	return PricingAuditLog{
		ActionType:  action,
		EntityType:  entityType,
		EntityID:    entityID,
		OldValue:    snapshot(oldValue),
		NewValue:    snapshot(newValue),
		PerformedBy: performedBy,
		Notes:       notes,
	}
}

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// AuditLogFilter narrows an audit log query. Zero values mean "any".
type AuditLogFilter struct {
	ActionType  string
	EntityType  string
	EntityID    string
	PerformedBy string
	Since       *time.Time
	Until       *time.Time
	Limit       int
	// Cursor continues a previous page: entries strictly older than (CreatedAt, LogID).
	CursorTime *time.Time
	CursorID   string
}

// Audit list limits.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// NormalizedLimit clamps the limit into [1, MaxAuditLimit], defaulting to DefaultAuditLimit.
func (f AuditLogFilter) NormalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultAuditLimit
	case f.Limit > MaxAuditLimit:
		return MaxAuditLimit
	default:
		return f.Limit
	}
}

// CurrencyRateHistory is an append-only record of one effective-rate change.
type CurrencyRateHistory struct {
	HistoryID     string          `json:"historyID"`
	CurrencyCode  string          `json:"currencyCode"`
	OldRate       decimal.Decimal `json:"oldRate"`
	NewRate       decimal.Decimal `json:"newRate"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	ChangeSource  string          `json:"changeSource"`
	ChangedBy     string          `json:"changedBy"`
	Reason        string          `json:"reason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewRateHistory records a move from oldRate to newRate.
func NewRateHistory(currencyCode string, oldRate, newRate decimal.Decimal, source, changedBy, reason string) CurrencyRateHistory {
	return CurrencyRateHistory{
		CurrencyCode:  currencyCode,
		OldRate:       oldRate,
		NewRate:       newRate,
		ChangePercent: ChangePercent(oldRate, newRate),
		ChangeSource:  source,
		ChangedBy:     changedBy,
		Reason:        reason,
	}
}

// FetchStatus is the lifecycle state of a rate fetch attempt.
type FetchStatus string

const (
	FetchPending FetchStatus = "pending"
	FetchSuccess FetchStatus = "success"
	FetchFailure FetchStatus = "failure"
)

// CurrencyRateFetchLog records one attempt to pull rates from the provider chain.
type CurrencyRateFetchLog struct {
	FetchID        string          `json:"fetchID"`
	Provider       string          `json:"provider"`
	BaseCurrency   string          `json:"baseCurrency"`
	UpdatedCount   int             `json:"updatedCount"`
	UnchangedCount int             `json:"unchangedCount"`
	Status         FetchStatus     `json:"status"`
	Message        string          `json:"message,omitempty"`
	RawPayload     json.RawMessage `json:"rawPayload,omitempty"`
	TriggeredBy    string          `json:"triggeredBy"`
	StartedAt      time.Time       `json:"startedAt"`
	FinishedAt     *time.Time      `json:"finishedAt,omitempty"`
}

// Succeed closes the log as successful.
func (l *CurrencyRateFetchLog) Succeed(provider string, res RateApplyResult, payload json.RawMessage, now time.Time) {
	l.Provider = provider
	l.Status = FetchSuccess
	l.UpdatedCount = res.Updated
	l.UnchangedCount = res.Unchanged
	l.RawPayload = payload
	l.FinishedAt = &now
}

// Fail closes the log as failed. No currency was touched.
func (l *CurrencyRateFetchLog) Fail(message string, now time.Time) {
	l.Status = FetchFailure
	l.Message = message
	l.FinishedAt = &now
}
