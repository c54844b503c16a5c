package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_admin_backend/internal/core/ports/repositories"
	"github.com/SscSPs/pricing_admin_backend/internal/models"
	"github.com/SscSPs/pricing_admin_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const countryColumns = `country_code, name, currency_code, default_tax_rate, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCountryRepository struct {
	BaseRepository
}

func newPgxCountryRepository(pool *pgxpool.Pool) *PgxCountryRepository {
	return &PgxCountryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CountryRepositoryFacade = (*PgxCountryRepository)(nil)

func scanCountry(row pgx.Row) (models.Country, error) {
	var m models.Country
	err := row.Scan(
		&m.CountryCode,
		&m.Name,
		&m.CurrencyCode,
		&m.DefaultTaxRate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func findCountry(row pgx.Row, countryCode string) (*domain.Country, error) {
	m, err := scanCountry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("%w: row is locked by a concurrent edit", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to find country %s: %w", countryCode, err)
	}
	c := mapping.ToDomainCountry(m)
	return &c, nil
}

func (r *PgxCountryRepository) SaveCountry(ctx context.Context, country domain.Country) error {
	m := mapping.ToModelCountry(country)
	query := `INSERT INTO countries (` + countryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		m.CountryCode, m.Name, m.CurrencyCode, m.DefaultTaxRate, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("country %s: %w", m.CountryCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save country %s: %w", m.CountryCode, err)
	}
	return nil
}

func (r *PgxCountryRepository) FindCountryByCode(ctx context.Context, countryCode string) (*domain.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE country_code = $1;`
	return findCountry(r.Pool.QueryRow(ctx, query, countryCode), countryCode)
}

func (r *PgxCountryRepository) FindCountryByCodeForUpdate(ctx context.Context, tx pgx.Tx, countryCode string) (*domain.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE country_code = $1 FOR UPDATE;`
	return findCountry(tx.QueryRow(ctx, query, countryCode), countryCode)
}

// ListCountries retrieves countries ordered by code.
func (r *PgxCountryRepository) ListCountries(ctx context.Context, activeOnly bool) ([]domain.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM countries WHERE ($1 = false OR is_active) ORDER BY country_code;`
	rows, err := r.Pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	modelCountries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Country, error) {
		return scanCountry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan countries: %w", err)
	}

	countries := make([]domain.Country, len(modelCountries))
	for i, m := range modelCountries {
		countries[i] = mapping.ToDomainCountry(m)
	}
	return countries, nil
}

func (r *PgxCountryRepository) UpdateCountryInTx(ctx context.Context, tx pgx.Tx, country domain.Country) error {
	m := mapping.ToModelCountry(country)
	query := `
		UPDATE countries SET
			name = $2, currency_code = $3, default_tax_rate = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE country_code = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.CountryCode, m.Name, m.CurrencyCode, m.DefaultTaxRate, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update country %s: %w", m.CountryCode, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
