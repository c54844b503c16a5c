package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/joblock"
	"github.com/SscSPs/pricing_admin_backend/internal/platform/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RecalculateAllLockKey is the job lock held by full recalculation runs.
const RecalculateAllLockKey = "recalculate:all"

// RecalculationConfig tunes the recalculation engine.
type RecalculationConfig struct {
	Workers int
	LockTTL time.Duration
}

type recalculationService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	productRepo  portsrepo.ProductReader
	priceRepo    portsrepo.ProductPriceRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	countryRepo  portsrepo.CountryReader
	auditSvc     portssvc.AuditSvc
	locker       joblock.Locker
	cfg          RecalculationConfig
}

// NewRecalculationService creates the engine that rewrites AUTO prices from current rates.
func NewRecalculationService(
	cfg RecalculationConfig,
	txManager portsrepo.TransactionManager,
	productRepo portsrepo.ProductReader,
	priceRepo portsrepo.ProductPriceRepositoryFacade,
	currencyRepo portsrepo.CurrencyReader,
	countryRepo portsrepo.CountryReader,
	auditSvc portssvc.AuditSvc,
	locker joblock.Locker,
) portssvc.RecalculationSvc {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 15 * time.Minute
	}
	return &recalculationService{
		txManager:    txManager,
		productRepo:  productRepo,
		priceRepo:    priceRepo,
		currencyRepo: currencyRepo,
		countryRepo:  countryRepo,
		auditSvc:     auditSvc,
		locker:       locker,
		cfg:          cfg,
	}
}

var _ portssvc.RecalculationSvc = (*recalculationService)(nil)

// recalcPlan is the product×currency space of one run.
type recalcPlan struct {
	scope      domain.RecalculationScope
	products   []domain.Product
	currencies []domain.Currency
	// countryFor names the country a newly created row is filed under.
	countryFor func(currencyCode string) string
}

func (s *recalculationService) RecalculateAll(ctx context.Context, userID string) (*domain.RecalculationSummary, error) {
	lease, err := s.locker.Acquire(ctx, RecalculateAllLockKey, s.cfg.LockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.LogError(ctx, err, "Failed to release recalculation lock")
		}
	}()

	plan, err := s.basePlan(ctx, domain.RecalculationScope{Kind: domain.ScopeAll})
	if err != nil {
		return nil, err
	}
	return s.run(ctx, plan, userID), nil
}

func (s *recalculationService) RecalculateForProduct(ctx context.Context, productID int64, userID string) (*domain.RecalculationSummary, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	if !product.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("product %d is not active", productID))
	}
	plan, err := s.basePlan(ctx, domain.RecalculationScope{Kind: domain.ScopeProduct, ProductID: productID})
	if err != nil {
		return nil, err
	}
	plan.products = []domain.Product{*product}
	return s.run(ctx, plan, userID), nil
}

func (s *recalculationService) RecalculateForCurrency(ctx context.Context, currencyCode string, userID string) (*domain.RecalculationSummary, error) {
	code := strings.ToUpper(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency %s: %w", code, err)
	}
	if !currency.IsActive {
		return nil, apperrors.NewValidationError(fmt.Sprintf("currency %s is not active", code))
	}
	plan, err := s.basePlan(ctx, domain.RecalculationScope{Kind: domain.ScopeCurrency, CurrencyCode: code})
	if err != nil {
		return nil, err
	}
	plan.currencies = []domain.Currency{*currency}
	return s.run(ctx, plan, userID), nil
}

func (s *recalculationService) RecalculateForCountry(ctx context.Context, countryCode string, userID string) (*domain.RecalculationSummary, error) {
	code := strings.ToUpper(countryCode)
	country, err := s.countryRepo.FindCountryByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load country %s: %w", code, err)
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, country.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency %s: %w", country.CurrencyCode, err)
	}
	plan, err := s.basePlan(ctx, domain.RecalculationScope{Kind: domain.ScopeCountry, CountryCode: code, CurrencyCode: currency.CurrencyCode})
	if err != nil {
		return nil, err
	}
	plan.currencies = []domain.Currency{*currency}
	plan.countryFor = func(string) string { return code }
	return s.run(ctx, plan, userID), nil
}

// basePlan covers every active product and currency; scoped runs narrow it.
func (s *recalculationService) basePlan(ctx context.Context, scope domain.RecalculationScope) (recalcPlan, error) {
	products, err := s.productRepo.ListActiveProducts(ctx)
	if err != nil {
		return recalcPlan{}, fmt.Errorf("failed to list products: %w", err)
	}
	currencies, err := s.currencyRepo.ListCurrencies(ctx, true)
	if err != nil {
		return recalcPlan{}, fmt.Errorf("failed to list currencies: %w", err)
	}
	countries, err := s.countryRepo.ListCountries(ctx, true)
	if err != nil {
		return recalcPlan{}, fmt.Errorf("failed to list countries: %w", err)
	}
	return recalcPlan{
		scope:      scope,
		products:   products,
		currencies: currencies,
		countryFor: func(code string) string { return domain.DefaultCountryForCurrency(code, countries) },
	}, nil
}

func (s *recalculationService) run(ctx context.Context, plan recalcPlan, userID string) *domain.RecalculationSummary {
	start := now()
	defer metrics.ObserveRecalculation(string(plan.scope.Kind), time.Now())

	var mu sync.Mutex
	summary := domain.NewRecalculationSummary(plan.scope, start)

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Workers)
	for _, currency := range plan.currencies {
		rate, rateErr := storedRate(currency)
		country := plan.countryFor(currency.CurrencyCode)
		for _, product := range plan.products {
			g.Go(func() error {
				var (
					outcome domain.PriceWriteOutcome
					err     = rateErr
				)
				if err == nil {
					err = ctx.Err()
				}
				if err == nil {
					outcome, err = s.recalculatePair(ctx, product, currency.CurrencyCode, country, rate, userID)
				}

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					metrics.RecordRecalculationOutcome("failed")
					summary.RecordError(product.ProductID, currency.CurrencyCode, err)
					return nil
				}
				metrics.RecordRecalculationOutcome(string(outcome))
				summary.Record(currency.CurrencyCode, outcome)
				return nil
			})
		}
	}
	_ = g.Wait()

	summary.Finish(now())
	s.LogInfo(ctx, "Recalculation finished",
		slog.String("scope", string(plan.scope.Kind)),
		slog.Int("recalculated", summary.Recalculated),
		slog.Int("changed", summary.Changed),
		slog.Int("skipped_locked", summary.SkippedLocked),
		slog.Int("failed", summary.Failed))
	return summary
}

// recalculatePair rewrites one (product, currency) price in its own transaction.
func (s *recalculationService) recalculatePair(ctx context.Context, product domain.Product, currencyCode, country string, rate decimal.Decimal, userID string) (domain.PriceWriteOutcome, error) {
	price := domain.RoundMoney(domain.ConvertFromBase(product.BasePrice, rate))

	var (
		outcome  domain.PriceWriteOutcome
		previous *domain.ProductPrice
		written  domain.ProductPrice
	)
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		existing, err := notFoundAsNil(s.priceRepo.FindProductPriceForUpdate(ctx, tx, product.ProductID, currencyCode))
		if err != nil {
			return err
		}
		outcome = domain.PlanAutoPrice(existing, price)
		if !outcome.Changed() {
			return nil
		}
		filed := country
		if existing != nil {
			filed = ""
		}
		previous = existing
		written = autoPriceRow(existing, product.ProductID, currencyCode, filed, price, userID, now())
		return s.priceRepo.SaveProductPriceInTx(ctx, tx, written)
	})
	if err != nil {
		return "", err
	}

	if outcome.Changed() {
		var old any
		if previous != nil {
			old = map[string]any{"price": previous.Price, "pricingType": previous.PricingType}
		}
		s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditPriceRecalculated, domain.EntityProductPrice, written.PriceID,
			old, map[string]any{"price": written.Price, "pricingType": written.PricingType},
			userID, "product "+strconv.FormatInt(product.ProductID, 10)+" in "+currencyCode))
	}
	return outcome, nil
}
