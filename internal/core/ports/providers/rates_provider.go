package providers

import (
	"context"

	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
)

// RatesProvider fetches the latest exchange rates relative to a base currency.
type RatesProvider interface {
	// Name identifies the provider in rate provenance and fetch logs.
	Name() string

	// FetchRates returns a validated rate table or an error matching apperrors.ErrExternalDependency.
	FetchRates(ctx context.Context, base string) (*domain.RateTable, error)
}
