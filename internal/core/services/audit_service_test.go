package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/core/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock AuditLogRepository ---
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.PricingAuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditLogRepository) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.PricingAuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricingAuditLog), args.Error(1)
}

func TestAuditLog_FailureIsSwallowed(t *testing.T) {
	repo := new(MockAuditLogRepository)
	repo.On("SaveAuditLog", mock.Anything, mock.AnythingOfType("domain.PricingAuditLog")).Return(errors.New("db down")).Once()
	svc := services.NewAuditService(repo, newFakeStore())

	assert.NotPanics(t, func() {
		svc.Log(context.Background(), domain.NewAuditEntry(domain.AuditCurrencyCreate, domain.EntityCurrency, "EUR", nil, nil, "", ""))
	})
	repo.AssertExpectations(t)
}

func TestAuditLog_FillsDefaults(t *testing.T) {
	store := newFakeStore()
	svc := services.NewAuditService(store, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Log(ctx, domain.NewAuditEntry(domain.AuditCurrencyCreate, domain.EntityCurrency, "EUR", nil, map[string]string{"a": "b"}, "", "note"))

	require.Len(t, store.audit, 1)
	entry := store.audit[0]
	assert.NotEmpty(t, entry.LogID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, services.SystemUserID, entry.PerformedBy)
	assert.Nil(t, entry.OldValue)
	assert.JSONEq(t, `{"a":"b"}`, string(entry.NewValue))
}

func TestGetAuditLogs_Paginates(t *testing.T) {
	store := newFakeStore()
	svc := services.NewAuditService(store, store)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		svc.Log(ctx, domain.NewAuditEntry(domain.AuditPriceRecalculated, domain.EntityProductPrice, "p", nil, nil, "admin-1", ""))
	}
	svc.Log(ctx, domain.NewAuditEntry(domain.AuditCurrencyCreate, domain.EntityCurrency, "EUR", nil, nil, "admin-1", ""))

	seen := map[string]bool{}
	params := dto.ListAuditLogsParams{ActionType: string(domain.AuditPriceRecalculated), Limit: 2}
	pages := 0
	for {
		page, err := svc.GetAuditLogs(ctx, params)
		require.NoError(t, err)
		pages++
		for _, l := range page.Logs {
			assert.False(t, seen[l.LogID], "entry returned twice")
			seen[l.LogID] = true
		}
		if page.NextToken == nil {
			break
		}
		params.NextToken = page.NextToken
		require.Less(t, pages, 10)
	}
	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}

func TestGetAuditLogs_BadToken(t *testing.T) {
	store := newFakeStore()
	svc := services.NewAuditService(store, store)
	token := "%%%"

	_, err := svc.GetAuditLogs(context.Background(), dto.ListAuditLogsParams{NextToken: &token})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetRateHistory(t *testing.T) {
	store := newFakeStore()
	svc := services.NewAuditService(store, store)
	ctx := context.Background()
	svc.LogRateChange(ctx, domain.NewRateHistory("INR", dec("80"), dec("84"), domain.RateSourceManual, "admin-1", ""))
	svc.LogRateChange(ctx, domain.NewRateHistory("EUR", dec("0.9"), dec("0.95"), "api:primary", "", ""))

	history, err := svc.GetRateHistory(ctx, "inr", 0)

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].ChangePercent.Equal(dec("5")))

	all, err := svc.GetRateHistory(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "EUR", all[0].CurrencyCode)
	assert.Equal(t, services.SystemUserID, all[0].ChangedBy)
}
