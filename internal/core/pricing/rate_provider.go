package pricing

import (
	"context"
	"errors"
)

// RateProvider defines the interface for obtaining the static USD rate table
type RateProvider interface {
	// GetRates returns the complete rate table
	GetRates(ctx context.Context) (RateTable, error)

	// GetProviderName returns the name of this rate provider
	GetProviderName() string
}

// ErrRateNotFound is returned when a rate file does not exist
var ErrRateNotFound = errors.New("rate table not found")

// ErrInvalidRate is returned when a rate file holds a value that is not a non-negative decimal
var ErrInvalidRate = errors.New("invalid rate value")
