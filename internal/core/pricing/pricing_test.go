package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateTable(t *testing.T) {
	table := DefaultRateTable()

	rate, ok := table.Rate("USDT")
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))

	rate, ok = table.Rate("trx")
	require.True(t, ok, "lookup must be case-insensitive")
	assert.Equal(t, "0.12", rate.StringFixed(2))

	_, ok = table.Rate("NOPE")
	assert.False(t, ok)
}

func TestRateTableUSDValue(t *testing.T) {
	table := NewRateTable(map[string]decimal.Decimal{
		"usdt": decimal.NewFromInt(1),
		"TRX":  decimal.RequireFromString("0.12"),
	})

	tests := []struct {
		name     string
		currency string
		amount   string
		expected string
	}{
		{name: "stablecoin", currency: "USDT", amount: "19.99", expected: "19.99"},
		{name: "trx", currency: "TRX", amount: "5.00", expected: "0.60"},
		{name: "unknown_currency_is_zero", currency: "XYZ", amount: "100", expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.USDValue(tt.currency, decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestNewRateTableDropsInvalidEntries(t *testing.T) {
	table := NewRateTable(map[string]decimal.Decimal{
		"":    decimal.NewFromInt(1),
		"BAD": decimal.NewFromInt(-1),
		"OK":  decimal.NewFromInt(2),
	})
	assert.Equal(t, []string{"OK"}, table.Currencies())
	assert.Equal(t, 1, table.Len())
}

func TestRateTableMerge(t *testing.T) {
	base := NewRateTable(map[string]decimal.Decimal{
		"USDT": decimal.NewFromInt(1),
		"TRX":  decimal.RequireFromString("0.12"),
	})
	override := NewRateTable(map[string]decimal.Decimal{
		"TRX": decimal.RequireFromString("0.25"),
		"ABC": decimal.NewFromInt(3),
	})

	merged := base.Merge(override)
	assert.Equal(t, []string{"ABC", "TRX", "USDT"}, merged.Currencies())

	rate, _ := merged.Rate("TRX")
	assert.Equal(t, "0.25", rate.StringFixed(2))

	rate, _ = base.Rate("TRX")
	assert.Equal(t, "0.12", rate.StringFixed(2), "merge must not mutate the receiver")
}

func TestRateTableMapIsCopy(t *testing.T) {
	table := DefaultRateTable()
	m := table.Map()
	assert.Len(t, m, table.Len())

	delete(m, "USDT")
	_, ok := table.Rate("USDT")
	assert.True(t, ok)
}
