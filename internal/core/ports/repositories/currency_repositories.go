package repositories

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// FindBaseCurrency retrieves the single base currency.
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves currencies ordered by code, optionally only active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyTransactionSupport defines the read-modify-write operations on currencies.
type CurrencyTransactionSupport interface {
	// FindCurrencyByCodeForUpdate selects a currency and locks its row within a transaction.
	FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, currencyCode string) (*domain.Currency, error)

	// ListCurrenciesForUpdate selects and locks every currency, ordered by code.
	ListCurrenciesForUpdate(ctx context.Context, tx pgx.Tx) ([]domain.Currency, error)

	// UpdateCurrencyInTx writes every mutable column of the currency within a transaction.
	UpdateCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
// This is a facade for clients that need access to all operations
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
	CurrencyTransactionSupport
}
