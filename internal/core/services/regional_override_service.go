package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_admin_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type regionalOverrideService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	overrideRepo portsrepo.RegionalOverrideRepositoryFacade
	productRepo  portsrepo.ProductReader
	countryRepo  portsrepo.CountryReader
	currencyRepo portsrepo.CurrencyReader
	auditSvc     portssvc.AuditSvc
}

// NewRegionalOverrideService creates the regional override service.
func NewRegionalOverrideService(
	txManager portsrepo.TransactionManager,
	overrideRepo portsrepo.RegionalOverrideRepositoryFacade,
	productRepo portsrepo.ProductReader,
	countryRepo portsrepo.CountryReader,
	currencyRepo portsrepo.CurrencyReader,
	auditSvc portssvc.AuditSvc,
) portssvc.RegionalOverrideSvc {
	return &regionalOverrideService{
		txManager:    txManager,
		overrideRepo: overrideRepo,
		productRepo:  productRepo,
		countryRepo:  countryRepo,
		currencyRepo: currencyRepo,
		auditSvc:     auditSvc,
	}
}

var _ portssvc.RegionalOverrideSvc = (*regionalOverrideService)(nil)

func overrideEntityID(productID int64, countryCode string) string {
	return fmt.Sprintf("%d:%s", productID, countryCode)
}

func (s *regionalOverrideService) UpsertRegionalOverride(ctx context.Context, productID int64, countryCode string, patch domain.RegionalOverridePatch, userID string) (*domain.OverrideUpsertResult, error) {
	code := strings.ToUpper(countryCode)
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.CurrencyCode != nil {
		cc := strings.ToUpper(*patch.CurrencyCode)
		patch.CurrencyCode = &cc
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, cc); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("currency %s does not exist", cc))
			}
			return nil, fmt.Errorf("failed to check currency %s: %w", cc, err)
		}
	}
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	country, err := s.countryRepo.FindCountryByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load country %s: %w", code, err)
	}

	var result domain.OverrideUpsertResult
	err = withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		ts := now()
		current, err := notFoundAsNil(s.overrideRepo.FindRegionalOverrideForUpdate(ctx, tx, productID, code))
		if err != nil {
			return err
		}

		base := domain.NewRegionalOverride(productID, *country)
		base.OverrideID = uuid.NewString()
		base.AuditFields = domain.NewAuditFields(userID, ts)
		if current != nil {
			prev := *current
			result.Previous = &prev
			base = *current
		}

		updated, err := patch.Apply(base)
		if err != nil {
			return err
		}
		updated.Touch(userID, ts)
		if err := s.overrideRepo.SaveRegionalOverrideInTx(ctx, tx, updated); err != nil {
			return err
		}
		result.Override = updated
		result.Created = current == nil
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert regional override",
			slog.Int64("product_id", productID), slog.String("country_code", code))
		return nil, fmt.Errorf("failed to upsert regional override for product %d in %s: %w", productID, code, err)
	}

	var old any
	if result.Previous != nil {
		old = result.Previous
	}
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditRegionalOverrideUpsert, domain.EntityRegionalOverride,
		overrideEntityID(productID, code), old, result.Override, userID, ""))
	return &result, nil
}

func (s *regionalOverrideService) ListRegionalOverrides(ctx context.Context, productID int64) ([]domain.RegionalOverride, error) {
	overrides, err := s.overrideRepo.ListRegionalOverrides(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list regional overrides of product %d: %w", productID, err)
	}
	if overrides == nil {
		return []domain.RegionalOverride{}, nil
	}
	return overrides, nil
}

// DeleteRegionalOverride refuses to remove a locked override; unlock it first.
func (s *regionalOverrideService) DeleteRegionalOverride(ctx context.Context, productID int64, countryCode string, userID string) error {
	code := strings.ToUpper(countryCode)

	var deleted domain.RegionalOverride
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		current, err := s.overrideRepo.FindRegionalOverrideForUpdate(ctx, tx, productID, code)
		if err != nil {
			return err
		}
		if domain.IsLocked(current) {
			return fmt.Errorf("regional override for product %d in %s: %w", productID, code, apperrors.ErrLocked)
		}
		deleted = *current
		return s.overrideRepo.DeleteRegionalOverrideInTx(ctx, tx, productID, code)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete regional override",
			slog.Int64("product_id", productID), slog.String("country_code", code))
		return fmt.Errorf("failed to delete regional override for product %d in %s: %w", productID, code, err)
	}

	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditRegionalOverrideDelete, domain.EntityRegionalOverride,
		overrideEntityID(productID, code), deleted, nil, userID, ""))
	return nil
}
