package ratesprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
	"github.com/SscSPs/pricing_admin_backend/internal/core/domain"
	"github.com/SscSPs/pricing_admin_backend/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

const (
	maxResponseSize = 1 << 20 // 1 MiB
	defaultTimeout  = 10 * time.Second
)

// HTTPConfig describes one HTTP rates provider.
type HTTPConfig struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// Validate checks the configuration
func (c HTTPConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("ratesprovider: name is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ratesprovider %s: invalid base url %q", c.Name, c.BaseURL)
	}
	return nil
}

// HTTPProvider calls GET {BaseURL}/latest?base=CODE and expects {"rates": {"CODE": number}}.
type HTTPProvider struct {
	config     HTTPConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPProvider creates a provider with an explicit request timeout.
func NewHTTPProvider(config HTTPConfig) (*HTTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &HTTPProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		now: time.Now,
	}, nil
}

var _ providers.RatesProvider = (*HTTPProvider)(nil)

// Name returns the configured provider name
func (p *HTTPProvider) Name() string {
	return p.config.Name
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRates fetches and validates the latest rate table.
func (p *HTTPProvider) FetchRates(ctx context.Context, base string) (*domain.RateTable, error) {
	endpoint := strings.TrimRight(p.config.BaseURL, "/") + "/latest?" + url.Values{"base": {base}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", p.config.Name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", p.config.Name, apperrors.ErrExternalDependency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: failed to read response: %v", p.config.Name, apperrors.ErrExternalDependency, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: HTTP %d", p.config.Name, apperrors.ErrExternalDependency, resp.StatusCode)
	}

	var parsed latestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s: %w: malformed payload: %v", p.config.Name, apperrors.ErrExternalDependency, err)
	}
	rates, err := validateRates(parsed.Rates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", p.config.Name, apperrors.ErrExternalDependency, err)
	}

	// Some providers ignore ?base= and answer in their own base; such a table is unusable.
	tableBase := base
	if reported := strings.ToUpper(strings.TrimSpace(parsed.Base)); reported != "" {
		if !strings.EqualFold(reported, base) {
			return nil, fmt.Errorf("%s: %w: asked for base %s, got %s", p.config.Name, apperrors.ErrExternalDependency, base, reported)
		}
		tableBase = reported
	}

	return &domain.RateTable{
		Provider:  p.config.Name,
		Base:      tableBase,
		Rates:     rates,
		Raw:       body,
		FetchedAt: p.now(),
	}, nil
}

// validateRates rejects empty tables and non-positive rates, and upper-cases codes.
func validateRates(in map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("payload contains no rates")
	}
	out := make(map[string]decimal.Decimal, len(in))
	for code, rate := range in {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 3 {
			return nil, fmt.Errorf("invalid currency code %q", code)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
		out[code] = rate
	}
	return out, nil
}
