package pricing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/shopspring/decimal"
)

// RateFile represents the on-disk rate override document
type RateFile struct {
	Source    string                     `json:"source,omitempty"`
	UpdatedAt time.Time                  `json:"updated_at,omitempty"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// FileProvider loads rate overrides from a JSON file and layers them over the built-in table
type FileProvider struct {
	mu   sync.RWMutex
	path string
	base RateProvider
}

// NewFileProvider creates a provider reading overrides from path
func NewFileProvider(path string, base RateProvider) *FileProvider {
	if base == nil {
		base = NewDefaultProvider()
	}
	return &FileProvider{
		path: path,
		base: base,
	}
}

// GetRates returns the base table overridden by the file contents
func (p *FileProvider) GetRates(ctx context.Context) (RateTable, error) {
	baseRates, err := p.base.GetRates(ctx)
	if err != nil {
		return RateTable{}, err
	}

	doc, err := p.Load()
	if err != nil {
		return RateTable{}, err
	}

	util.LogDebug(fmt.Sprintf("Loaded %d rate overrides from %s (source=%s)", len(doc.Rates), p.path, doc.Source))
	return baseRates.Merge(NewRateTable(doc.Rates)), nil
}

// Load reads and validates the rate file
func (p *FileProvider) Load() (*RateFile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRateNotFound, p.path)
		}
		return nil, fmt.Errorf("failed to read rate file %s: %w", p.path, err)
	}

	var doc RateFile
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate file %s: %w", p.path, err)
	}

	for code, rate := range doc.Rates {
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: %s=%s", ErrInvalidRate, code, rate.String())
		}
	}
	return &doc, nil
}

// Save writes a rate document atomically
func (p *FileProvider) Save(doc RateFile) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rate file: %w", err)
	}

	tmpFile := p.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write rate file: %w", err)
	}
	if err := os.Rename(tmpFile, p.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename rate file: %w", err)
	}
	return nil
}

// GetProviderName returns the name of this rate provider
func (p *FileProvider) GetProviderName() string {
	return "file"
}
