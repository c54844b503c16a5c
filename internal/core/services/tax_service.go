package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type taxService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	productRepo  portsrepo.ProductRepositoryFacade
	countryRepo  portsrepo.CountryRepositoryFacade
	overrideRepo portsrepo.RegionalOverrideReader
	auditSvc     portssvc.AuditSvc
	resolver     domain.TaxResolver
}

// NewTaxService creates the tax settings service using the default tax cascade.
func NewTaxService(txManager portsrepo.TransactionManager, productRepo portsrepo.ProductRepositoryFacade, countryRepo portsrepo.CountryRepositoryFacade, overrideRepo portsrepo.RegionalOverrideReader, auditSvc portssvc.AuditSvc) portssvc.TaxSvc {
	return &taxService{
		txManager:    txManager,
		productRepo:  productRepo,
		countryRepo:  countryRepo,
		overrideRepo: overrideRepo,
		auditSvc:     auditSvc,
		resolver:     domain.DefaultTaxResolver(),
	}
}

var _ portssvc.TaxSvc = (*taxService)(nil)

func (s *taxService) SetProductTax(ctx context.Context, productID int64, patch domain.ProductTaxPatch, userID string) (*domain.ProductTaxUpdateResult, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var result domain.ProductTaxUpdateResult
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		current, err := s.productRepo.FindProductByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}
		updated, err := patch.Apply(*current)
		if err != nil {
			return err
		}
		updated.Touch(userID, now())
		if err := s.productRepo.UpdateProductTaxInTx(ctx, tx, updated); err != nil {
			return err
		}
		result = domain.ProductTaxUpdateResult{Previous: *current, Updated: updated}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update product tax", slog.Int64("product_id", productID))
		return nil, fmt.Errorf("failed to update tax of product %d: %w", productID, err)
	}

	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditProductTaxUpdate, domain.EntityProduct, strconv.FormatInt(productID, 10),
		taxView(result.Previous), taxView(result.Updated), userID, ""))
	return &result, nil
}

// taxView keeps product audit snapshots to the fields the tax edit can touch.
func taxView(p domain.Product) map[string]any {
	return map[string]any{"isTaxable": p.IsTaxable, "taxRate": p.TaxRate}
}

func (s *taxService) SetCountryDefaultTax(ctx context.Context, countryCode string, rate decimal.Decimal, userID string) (*domain.CountryTaxUpdateResult, error) {
	code := strings.ToUpper(countryCode)
	if !domain.ValidTaxRate(rate) {
		return nil, apperrors.NewValidationError("defaultTaxRate must be between 0 and 100")
	}

	var result domain.CountryTaxUpdateResult
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		current, err := s.countryRepo.FindCountryByCodeForUpdate(ctx, tx, code)
		if err != nil {
			return err
		}
		updated := *current
		updated.DefaultTaxRate = rate
		updated.Touch(userID, now())
		if err := s.countryRepo.UpdateCountryInTx(ctx, tx, updated); err != nil {
			return err
		}
		result = domain.CountryTaxUpdateResult{Previous: *current, Updated: updated}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update country tax", slog.String("country_code", code))
		return nil, fmt.Errorf("failed to update default tax of %s: %w", code, err)
	}

	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditCountryTaxUpdate, domain.EntityCountry, code,
		map[string]any{"defaultTaxRate": result.Previous.DefaultTaxRate},
		map[string]any{"defaultTaxRate": result.Updated.DefaultTaxRate}, userID, ""))
	return &result, nil
}

func (s *taxService) ResolveTaxRate(ctx context.Context, productID int64, countryCode string) (*domain.TaxResolution, error) {
	in, err := loadTaxInput(ctx, s.productRepo, s.countryRepo, s.overrideRepo, productID, strings.ToUpper(countryCode))
	if err != nil {
		return nil, err
	}
	res := s.resolver.Resolve(in)
	return &res, nil
}

// loadTaxInput gathers the product, country and optional override the tax cascade looks at.
func loadTaxInput(ctx context.Context, products portsrepo.ProductReader, countries portsrepo.CountryReader, overrides portsrepo.RegionalOverrideReader, productID int64, countryCode string) (domain.TaxInput, error) {
	product, err := products.FindProductByID(ctx, productID)
	if err != nil {
		return domain.TaxInput{}, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	country, err := countries.FindCountryByCode(ctx, countryCode)
	if err != nil {
		return domain.TaxInput{}, fmt.Errorf("failed to load country %s: %w", countryCode, err)
	}
	override, err := notFoundAsNil(overrides.FindRegionalOverride(ctx, productID, countryCode))
	if err != nil {
		return domain.TaxInput{}, fmt.Errorf("failed to load regional override: %w", err)
	}
	return domain.TaxInput{Product: *product, Country: country, Override: override}, nil
}
