package ratesprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/core/ports/providers"
	"github.com/SscSPs/pricing_admin_backend/internal/middleware"
)

// FallbackProvider tries each provider in order and returns the first success.
type FallbackProvider struct {
	providers []providers.RatesProvider
}

// NewFallbackProvider chains providers; nil entries are skipped.
func NewFallbackProvider(chain ...providers.RatesProvider) *FallbackProvider {
	fp := &FallbackProvider{}
	for _, p := range chain {
		if p != nil {
			fp.providers = append(fp.providers, p)
		}
	}
	return fp
}

var _ providers.RatesProvider = (*FallbackProvider)(nil)

// Name lists the chain, e.g. "primary>secondary".
func (f *FallbackProvider) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ">")
}

// FetchRates returns the first provider's table that succeeds. When all fail the
// combined error matches apperrors.ErrExternalDependency.
func (f *FallbackProvider) FetchRates(ctx context.Context, base string) (*domain.RateTable, error) {
	if len(f.providers) == 0 {
		return nil, fmt.Errorf("no rates providers configured: %w", apperrors.ErrExternalDependency)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	var errs []error
	for _, p := range f.providers {
		table, err := p.FetchRates(ctx, base)
		if err == nil {
			return table, nil
		}
		logger.Warn("Rates provider failed", slog.String("provider", p.Name()), slog.String("error", err.Error()))
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all rates providers failed: %w", errors.Join(append(errs, apperrors.ErrExternalDependency)...))
}
