package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// currencyService owns the rate model: every write of api_rate and exchange_rate goes through it.
type currencyService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	currencyRepo portsrepo.CurrencyRepositoryFacade
	auditSvc     portssvc.AuditSvc
}

// NewCurrencyService creates the currency service.
func NewCurrencyService(txManager portsrepo.TransactionManager, currencyRepo portsrepo.CurrencyRepositoryFacade, auditSvc portssvc.AuditSvc) portssvc.CurrencySvcFacade {
	return &currencyService{
		txManager:    txManager,
		currencyRepo: currencyRepo,
		auditSvc:     auditSvc,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	code := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency %s: %w", code, err)
	}

	ts := now()
	currency := domain.NewCurrency(code, req.Name, req.Symbol)
	currency.AuditFields = domain.NewAuditFields(creatorUserID, ts)
	currency.LastUpdated = ts
	if req.Precision != nil {
		currency.Precision = *req.Precision
	}

	seeded := false
	switch {
	case req.IsBase:
		base, err := notFoundAsNil(s.currencyRepo.FindBaseCurrency(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to check base currency: %w", err)
		}
		if base != nil {
			return nil, fmt.Errorf("%w: %s is already the base currency; switch it explicitly", apperrors.ErrValidation, base.CurrencyCode)
		}
		currency.MarkAsBase(ts)
	case req.APIRate != nil:
		if !req.APIRate.IsPositive() {
			return nil, apperrors.NewValidationError("apiRate must be positive")
		}
		currency.APIRate = *req.APIRate
		changed, err := currency.RecomputeExchangeRate(domain.RateSourceSeed, ts)
		if err != nil {
			return nil, err
		}
		seeded = changed
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to create currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditCurrencyCreate, domain.EntityCurrency, code, nil, currency, creatorUserID, ""))
	if seeded {
		s.auditSvc.LogRateChange(ctx, domain.NewRateHistory(code, decimal.Zero, currency.ExchangeRate, currency.RateSource, creatorUserID, "initial rate"))
	}
	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code), slog.Bool("is_base", currency.IsBaseCurrency))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	base, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConfigurationError("no base currency is configured")
		}
		return nil, fmt.Errorf("failed to get base currency: %w", err)
	}
	return base, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// GetEffectiveRate returns the stored effective rate. A currency that never received
// a rate is a configuration error, never a silent zero.
func (s *currencyService) GetEffectiveRate(ctx context.Context, currencyCode string) (decimal.Decimal, error) {
	currency, err := s.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return decimal.Zero, err
	}
	return storedRate(*currency)
}

func storedRate(c domain.Currency) (decimal.Decimal, error) {
	if c.IsBaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if !c.ExchangeRate.IsPositive() {
		return decimal.Zero, apperrors.NewConfigurationError(fmt.Sprintf("currency %s has no effective exchange rate", c.CurrencyCode))
	}
	return c.ExchangeRate, nil
}

func (s *currencyService) UpdateCurrencyRate(ctx context.Context, currencyCode string, patch domain.CurrencyRatePatch, userID string) (*domain.RateUpdateResult, error) {
	code := strings.ToUpper(currencyCode)
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var result domain.RateUpdateResult
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		current, err := s.currencyRepo.FindCurrencyByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		result.Previous = *current

		updated, err := patch.Apply(*current)
		if err != nil {
			return err
		}
		ts := now()
		changed, err := updated.RecomputeExchangeRate(domain.RateSourceManual, ts)
		if err != nil {
			return err
		}
		updated.Touch(userID, ts)
		if err := s.currencyRepo.UpdateCurrencyInTx(ctx, tx, updated); err != nil {
			return err
		}
		result.Updated = updated
		result.Changed = changed
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update currency rate", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to update currency rate for %s: %w", code, err)
	}

	if result.Changed {
		metrics.RecordRateChange("manual")
		s.auditSvc.LogRateChange(ctx, domain.NewRateHistory(code, result.Previous.ExchangeRate, result.Updated.ExchangeRate,
			result.Updated.RateSource, userID, patch.Reason))
	}
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditCurrencyRateUpdate, domain.EntityCurrency, code,
		result.Previous, result.Updated, userID, patch.Reason))

	s.LogInfo(ctx, "Currency rate settings updated",
		slog.String("currency_code", code),
		slog.Bool("rate_changed", result.Changed),
		slog.String("exchange_rate", result.Updated.ExchangeRate.String()))
	return &result, nil
}

// SetBaseCurrency switches the base currency inside one transaction. Raw rates of every
// other currency are re-expressed against the new base so conversions stay valid until
// the next fetch; manual rates are admin-pinned and left as they are.
func (s *currencyService) SetBaseCurrency(ctx context.Context, currencyCode string, userID string) (*domain.Currency, error) {
	code := strings.ToUpper(currencyCode)

	var (
		target   domain.Currency
		oldBase  string
		switched bool
		changes  []domain.CurrencyRateHistory
	)
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		all, err := s.currencyRepo.ListCurrenciesForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		targetIdx, baseIdx := -1, -1
		for i, c := range all {
			if c.CurrencyCode == code {
				targetIdx = i
			}
			if c.IsBaseCurrency {
				baseIdx = i
			}
		}
		if targetIdx < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", code))
		}
		if targetIdx == baseIdx {
			target = all[targetIdx]
			return nil
		}
		if !all[targetIdx].IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("currency %s is inactive", code))
		}

		switched = true
		ts := now()
		var pivot decimal.Decimal
		if baseIdx >= 0 {
			oldBase = all[baseIdx].CurrencyCode
			pivot = all[targetIdx].APIRate
			if !pivot.IsPositive() {
				return apperrors.NewConfigurationError(fmt.Sprintf("currency %s has no fetched rate to rebase on", code))
			}
		}

		// The old base must lose the flag before the new one gains it.
		order := make([]int, 0, len(all))
		if baseIdx >= 0 {
			order = append(order, baseIdx)
		}
		for i := range all {
			if i != baseIdx && i != targetIdx {
				order = append(order, i)
			}
		}
		order = append(order, targetIdx)

		for _, i := range order {
			c := all[i]
			before := c.ExchangeRate
			switch {
			case i == targetIdx:
				c.MarkAsBase(ts)
			case i == baseIdx:
				c.IsBaseCurrency = false
				c.APIRate = decimal.NewFromInt(1).Div(pivot)
				if _, err := c.RecomputeExchangeRate(domain.RateSourceRebase, ts); err != nil {
					return err
				}
			case baseIdx >= 0 && c.APIRate.IsPositive():
				c.APIRate = c.APIRate.Div(pivot)
				if _, err := c.RecomputeExchangeRate(domain.RateSourceRebase, ts); err != nil {
					return err
				}
			default:
				continue
			}
			c.Touch(userID, ts)
			if err := s.currencyRepo.UpdateCurrencyInTx(ctx, tx, c); err != nil {
				return err
			}
			if !domain.RatesEqual(before, c.ExchangeRate) {
				changes = append(changes, domain.NewRateHistory(c.CurrencyCode, before, c.ExchangeRate, c.RateSource, userID, "base currency changed to "+code))
			}
			if i == targetIdx {
				target = c
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set base currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to set base currency %s: %w", code, err)
	}

	for _, h := range changes {
		metrics.RecordRateChange("rebase")
		s.auditSvc.LogRateChange(ctx, h)
	}
	if switched {
		s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditBaseCurrencyChange, domain.EntityCurrency, code,
			map[string]string{"baseCurrency": oldBase}, map[string]string{"baseCurrency": code}, userID, ""))
	}
	return &target, nil
}

// ApplyFetchedRates writes a provider rate table, one transaction per currency.
// A currency that fails is reported and does not stop the others.
func (s *currencyService) ApplyFetchedRates(ctx context.Context, rates map[string]decimal.Decimal, provider string, userID string) (*domain.RateApplyResult, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].CurrencyCode < currencies[j].CurrencyCode })

	source := domain.APIRateSource(provider)
	result := &domain.RateApplyResult{ChangedCodes: []string{}, Missing: []string{}, Failed: []string{}}

	for _, c := range currencies {
		if c.IsBaseCurrency {
			continue
		}
		raw, ok := rates[c.CurrencyCode]
		if !ok {
			result.Missing = append(result.Missing, c.CurrencyCode)
			continue
		}

		var (
			changed bool
			before  decimal.Decimal
			after   domain.Currency
		)
		err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
			locked, err := s.currencyRepo.FindCurrencyByCodeForUpdate(ctx, tx, c.CurrencyCode)
			if err != nil {
				return err
			}
			before = locked.ExchangeRate
			ts := now()
			changed, err = locked.ApplyAPIRate(raw, source, ts)
			if err != nil {
				return err
			}
			locked.Touch(userID, ts)
			after = *locked
			return s.currencyRepo.UpdateCurrencyInTx(ctx, tx, *locked)
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to apply fetched rate", slog.String("currency_code", c.CurrencyCode))
			result.Failed = append(result.Failed, c.CurrencyCode)
			continue
		}

		if !changed {
			result.Unchanged++
			continue
		}
		result.Updated++
		result.ChangedCodes = append(result.ChangedCodes, c.CurrencyCode)
		metrics.RecordRateChange("api")
		s.auditSvc.LogRateChange(ctx, domain.NewRateHistory(c.CurrencyCode, before, after.ExchangeRate, source, userID, ""))
	}

	s.LogInfo(ctx, "Fetched rates applied",
		slog.String("provider", provider),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("missing", len(result.Missing)),
		slog.Int("failed", len(result.Failed)))
	return result, nil
}
