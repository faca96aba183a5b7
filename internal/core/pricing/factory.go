package pricing

import (
	"context"
	"fmt"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// CreateRateProvider creates a rate provider based on configuration
func CreateRateProvider(cfg *SourceConfig) (RateProvider, error) {
	source := cfg.RateSource
	if source == "" && cfg.RateFile != "" {
		source = "file"
	}

	switch source {
	case "default", "":
		return NewDefaultProvider(), nil
	case "file":
		if cfg.RateFile == "" {
			return nil, fmt.Errorf("rate source %q requires a rate file", source)
		}
		util.LogDebug(fmt.Sprintf("Using rate overrides from %s", cfg.RateFile))
		return NewFileProvider(cfg.RateFile, NewDefaultProvider()), nil
	default:
		return nil, fmt.Errorf("unknown rate source: %s", source)
	}
}

// LoadRateTable resolves the configured provider and returns its table
func LoadRateTable(ctx context.Context, cfg *SourceConfig) (RateTable, error) {
	provider, err := CreateRateProvider(cfg)
	if err != nil {
		return RateTable{}, err
	}
	rates, err := provider.GetRates(ctx)
	if err != nil {
		return RateTable{}, fmt.Errorf("failed to load rates from %s provider: %w", provider.GetProviderName(), err)
	}
	util.LogDebug(fmt.Sprintf("Rate table ready: provider=%s, currencies=%d", provider.GetProviderName(), rates.Len()))
	return rates, nil
}
