package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type productPriceService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	priceRepo    portsrepo.ProductPriceRepositoryFacade
	productRepo  portsrepo.ProductReader
	currencyRepo portsrepo.CurrencyReader
	countryRepo  portsrepo.CountryReader
	auditSvc     portssvc.AuditSvc
}

// NewProductPriceService creates the service for manual pins and bulk imports.
func NewProductPriceService(
	txManager portsrepo.TransactionManager,
	priceRepo portsrepo.ProductPriceRepositoryFacade,
	productRepo portsrepo.ProductReader,
	currencyRepo portsrepo.CurrencyReader,
	countryRepo portsrepo.CountryReader,
	auditSvc portssvc.AuditSvc,
) portssvc.ProductPriceSvc {
	return &productPriceService{
		txManager:    txManager,
		priceRepo:    priceRepo,
		productRepo:  productRepo,
		currencyRepo: currencyRepo,
		countryRepo:  countryRepo,
		auditSvc:     auditSvc,
	}
}

var _ portssvc.ProductPriceSvc = (*productPriceService)(nil)

// autoPriceRow returns the AUTO row an automatic writer stores for price,
// reusing the identity of existing when there is one.
func autoPriceRow(existing *domain.ProductPrice, productID int64, currencyCode, countryCode string, price decimal.Decimal, userID string, ts time.Time) domain.ProductPrice {
	var row domain.ProductPrice
	if existing != nil {
		row = *existing
	} else {
		row = domain.ProductPrice{
			PriceID:      uuid.NewString(),
			ProductID:    productID,
			CurrencyCode: currencyCode,
			CountryCode:  countryCode,
			AuditFields:  domain.NewAuditFields(userID, ts),
		}
	}
	if countryCode != "" {
		row.CountryCode = countryCode
	}
	row.Price = price
	row.PricingType = domain.PricingTypeAuto
	row.IsActive = true
	row.Touch(userID, ts)
	return row
}

// resolveCountry returns the country a price row is filed under.
func resolveCountry(ctx context.Context, countries portsrepo.CountryReader, currencyCode, countryCode string) (string, error) {
	if countryCode != "" {
		code := strings.ToUpper(countryCode)
		if _, err := countries.FindCountryByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", apperrors.NewValidationError(fmt.Sprintf("country %s does not exist", code))
			}
			return "", err
		}
		return code, nil
	}
	all, err := countries.ListCountries(ctx, true)
	if err != nil {
		return "", err
	}
	return domain.DefaultCountryForCurrency(currencyCode, all), nil
}

func (s *productPriceService) SetManualPrice(ctx context.Context, productID int64, currencyCode, countryCode string, price decimal.Decimal, userID string) (*domain.ManualPriceResult, error) {
	code := strings.ToUpper(currencyCode)
	if !price.IsPositive() {
		return nil, apperrors.NewValidationError("price must be positive")
	}
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to load currency %s: %w", code, err)
	}
	country, err := resolveCountry(ctx, s.countryRepo, code, countryCode)
	if err != nil {
		return nil, err
	}

	var result domain.ManualPriceResult
	err = withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		ts := now()
		existing, err := notFoundAsNil(s.priceRepo.FindProductPriceForUpdate(ctx, tx, productID, code))
		if err != nil {
			return err
		}
		filed := country
		if existing != nil && countryCode == "" {
			filed = ""
		}
		row := autoPriceRow(existing, productID, code, filed, domain.RoundMoney(price), userID, ts)
		row.PricingType = domain.PricingTypeManual
		if existing != nil {
			prev := *existing
			result.Previous = &prev
		}
		if err := s.priceRepo.SaveProductPriceInTx(ctx, tx, row); err != nil {
			return err
		}
		result.Updated = row
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set manual price", slog.Int64("product_id", productID), slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to set manual price for product %d in %s: %w", productID, code, err)
	}

	var old any
	if result.Previous != nil {
		old = result.Previous
	}
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditManualPriceSet, domain.EntityProductPrice, result.Updated.PriceID,
		old, result.Updated, userID, ""))
	return &result, nil
}

// ReleaseManualPrice flips a MANUAL row back to AUTO and keeps its price until the
// next recalculation re-derives it. Releasing an AUTO row changes nothing.
func (s *productPriceService) ReleaseManualPrice(ctx context.Context, productID int64, currencyCode string, userID string) (*domain.ManualPriceResult, error) {
	code := strings.ToUpper(currencyCode)

	var (
		result  domain.ManualPriceResult
		changed bool
	)
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		existing, err := s.priceRepo.FindProductPriceForUpdate(ctx, tx, productID, code)
		if err != nil {
			return err
		}
		prev := *existing
		result.Previous = &prev
		result.Updated = *existing
		if !domain.IsLocked(existing) {
			return nil
		}
		result.Updated.PricingType = domain.PricingTypeAuto
		result.Updated.Touch(userID, now())
		changed = true
		return s.priceRepo.SaveProductPriceInTx(ctx, tx, result.Updated)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to release manual price", slog.Int64("product_id", productID), slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to release manual price for product %d in %s: %w", productID, code, err)
	}

	if changed {
		s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditManualPriceRelease, domain.EntityProductPrice, result.Updated.PriceID,
			result.Previous, result.Updated, userID, ""))
	}
	return &result, nil
}

// ImportPrices writes each row in its own transaction. One bad row is reported
// and does not abort the rest.
func (s *productPriceService) ImportPrices(ctx context.Context, rows []domain.PriceImportRow, userID string) (*domain.ImportSummary, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	known := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		known[c.CurrencyCode] = true
	}
	countries, err := s.countryRepo.ListCountries(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	summary := &domain.ImportSummary{Errors: []domain.ImportError{}}
	for i, row := range rows {
		row.CurrencyCode = strings.ToUpper(row.CurrencyCode)
		row.CountryCode = strings.ToUpper(row.CountryCode)

		outcome, err := s.importRow(ctx, row, known, countries, userID)
		if err != nil {
			metrics.RecordPriceImportRow("failed")
			summary.Failed++
			summary.Errors = append(summary.Errors, domain.ImportError{
				Row: i, ProductID: row.ProductID, CurrencyCode: row.CurrencyCode, Error: err.Error(),
			})
			continue
		}
		metrics.RecordPriceImportRow(string(outcome))
		switch outcome {
		case domain.PriceSkippedLocked:
			summary.SkippedLocked++
		case domain.PriceUnchanged:
			summary.Unchanged++
		default:
			summary.Imported++
		}
	}

	s.LogInfo(ctx, "Price import finished",
		slog.Int("rows", len(rows)),
		slog.Int("imported", summary.Imported),
		slog.Int("unchanged", summary.Unchanged),
		slog.Int("skipped_locked", summary.SkippedLocked),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

func (s *productPriceService) importRow(ctx context.Context, row domain.PriceImportRow, knownCurrencies map[string]bool, countries []domain.Country, userID string) (domain.PriceWriteOutcome, error) {
	if !row.Price.IsPositive() {
		return "", apperrors.NewValidationError("price must be positive")
	}
	if !knownCurrencies[row.CurrencyCode] {
		return "", apperrors.NewValidationError(fmt.Sprintf("currency %s does not exist", row.CurrencyCode))
	}
	if _, err := s.productRepo.FindProductByID(ctx, row.ProductID); err != nil {
		return "", fmt.Errorf("product %d: %w", row.ProductID, err)
	}
	price := domain.RoundMoney(row.Price)

	var (
		outcome  domain.PriceWriteOutcome
		previous *domain.ProductPrice
		written  domain.ProductPrice
	)
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		existing, err := notFoundAsNil(s.priceRepo.FindProductPriceForUpdate(ctx, tx, row.ProductID, row.CurrencyCode))
		if err != nil {
			return err
		}
		outcome = domain.PlanAutoPrice(existing, price)
		if !outcome.Changed() {
			return nil
		}
		country := row.CountryCode
		if country == "" && existing == nil {
			country = domain.DefaultCountryForCurrency(row.CurrencyCode, countries)
		}
		previous = existing
		written = autoPriceRow(existing, row.ProductID, row.CurrencyCode, country, price, userID, now())
		return s.priceRepo.SaveProductPriceInTx(ctx, tx, written)
	})
	if err != nil {
		return "", err
	}

	if outcome.Changed() {
		var old any
		if previous != nil {
			old = previous
		}
		s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditPriceImport, domain.EntityProductPrice, written.PriceID,
			old, written, userID, ""))
	}
	return outcome, nil
}

func (s *productPriceService) ListProductPrices(ctx context.Context, productID int64) ([]domain.ProductPrice, error) {
	prices, err := s.priceRepo.ListProductPrices(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices of product %d: %w", productID, err)
	}
	if prices == nil {
		return []domain.ProductPrice{}, nil
	}
	return prices, nil
}
