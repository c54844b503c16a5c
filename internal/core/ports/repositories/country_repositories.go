package repositories

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CountryReader defines read operations for country data
type CountryReader interface {
	FindCountryByCode(ctx context.Context, countryCode string) (*domain.Country, error)
	ListCountries(ctx context.Context, activeOnly bool) ([]domain.Country, error)
}

// CountryWriter defines write operations for country data
type CountryWriter interface {
	SaveCountry(ctx context.Context, country domain.Country) error
	FindCountryByCodeForUpdate(ctx context.Context, tx pgx.Tx, countryCode string) (*domain.Country, error)
	UpdateCountryInTx(ctx context.Context, tx pgx.Tx, country domain.Country) error
}

// CountryRepositoryFacade combines all country-related repository interfaces
type CountryRepositoryFacade interface {
	CountryReader
	CountryWriter
}
