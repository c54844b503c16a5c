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
	"github.com/SscSPs/pricing_admin_backend/internal/dto"
	"github.com/shopspring/decimal"
)

type countryService struct {
	BaseService
	countryRepo  portsrepo.CountryRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
	auditSvc     portssvc.AuditSvc
}

// NewCountryService creates the country service.
func NewCountryService(countryRepo portsrepo.CountryRepositoryFacade, currencyRepo portsrepo.CurrencyReader, auditSvc portssvc.AuditSvc) portssvc.CountrySvc {
	return &countryService{countryRepo: countryRepo, currencyRepo: currencyRepo, auditSvc: auditSvc}
}

var _ portssvc.CountrySvc = (*countryService)(nil)

func (s *countryService) CreateCountry(ctx context.Context, req dto.CreateCountryRequest, creatorUserID string) (*domain.Country, error) {
	code := strings.ToUpper(req.CountryCode)
	currencyCode := strings.ToUpper(req.CurrencyCode)

	if _, err := s.countryRepo.FindCountryByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: country %s", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check country %s: %w", code, err)
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("currency %s does not exist", currencyCode))
		}
		return nil, fmt.Errorf("failed to check currency %s: %w", currencyCode, err)
	}

	rate := decimal.Zero
	if req.DefaultTaxRate != nil {
		if !domain.ValidTaxRate(*req.DefaultTaxRate) {
			return nil, apperrors.NewValidationError("defaultTaxRate must be between 0 and 100")
		}
		rate = *req.DefaultTaxRate
	}

	country := domain.Country{
		CountryCode:    code,
		Name:           req.Name,
		CurrencyCode:   currencyCode,
		DefaultTaxRate: rate,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(creatorUserID, now()),
	}
	if err := s.countryRepo.SaveCountry(ctx, country); err != nil {
		s.LogError(ctx, err, "Failed to create country", slog.String("country_code", code))
		return nil, fmt.Errorf("failed to create country in service: %w", err)
	}
	s.auditSvc.Log(ctx, domain.NewAuditEntry(domain.AuditCountryCreate, domain.EntityCountry, code, nil, country, creatorUserID, ""))
	return &country, nil
}

func (s *countryService) GetCountryByCode(ctx context.Context, countryCode string) (*domain.Country, error) {
	country, err := s.countryRepo.FindCountryByCode(ctx, strings.ToUpper(countryCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get country by code in service: %w", err)
	}
	return country, nil
}

func (s *countryService) ListCountries(ctx context.Context, activeOnly bool) ([]domain.Country, error) {
	countries, err := s.countryRepo.ListCountries(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries in service: %w", err)
	}
	if countries == nil {
		return []domain.Country{}, nil
	}
	return countries, nil
}
