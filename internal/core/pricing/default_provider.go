package pricing

import (
	"context"
)

// DefaultProvider implements RateProvider using the built-in rate table
type DefaultProvider struct{}

// NewDefaultProvider creates a new default rate provider
func NewDefaultProvider() RateProvider {
	return &DefaultProvider{}
}

// GetRates returns a copy of the built-in table
func (p *DefaultProvider) GetRates(ctx context.Context) (RateTable, error) {
	return DefaultRateTable(), nil
}

// GetProviderName returns the name of this rate provider
func (p *DefaultProvider) GetProviderName() string {
	return "default"
}
