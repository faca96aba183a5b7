package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type SourceConfig struct {
	RateSource string `json:"rateSource"`
	RateFile   string `json:"rateFile"`
}

// RateTable maps an upper-case currency code to its USD conversion factor.
// It is read-only once handed to an engine.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// defaultRates is the static fallback table. Stablecoins are pegged at 1.
var defaultRates = map[string]string{
	"USDT":  "1.00",
	"USDC":  "1.00",
	"BUSD":  "1.00",
	"DAI":   "1.00",
	"TUSD":  "1.00",
	"FDUSD": "1.00",
	"TRX":   "0.12",
	"BNB":   "600.00",
	"ETH":   "3000.00",
	"BTC":   "60000.00",
	"SOL":   "150.00",
	"MATIC": "0.50",
	"POL":   "0.50",
	"AVAX":  "30.00",
	"FTM":   "0.50",
	"ARB":   "0.80",
	"TON":   "5.00",
}

// NewRateTable copies rates into a new table, upper-casing the keys.
// Negative factors are dropped.
func NewRateTable(rates map[string]decimal.Decimal) RateTable {
	table := RateTable{rates: make(map[string]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || rate.IsNegative() {
			continue
		}
		table.rates[code] = rate
	}
	return table
}

// DefaultRateTable returns a fresh copy of the static rate table.
func DefaultRateTable() RateTable {
	rates := make(map[string]decimal.Decimal, len(defaultRates))
	for code, v := range defaultRates {
		rates[code] = decimal.RequireFromString(v)
	}
	return NewRateTable(rates)
}

// Rate returns the USD factor for a currency.
func (t RateTable) Rate(currency string) (decimal.Decimal, bool) {
	rate, ok := t.rates[strings.ToUpper(currency)]
	return rate, ok
}

// USDValue converts amount into USD. Unknown currencies contribute zero.
func (t RateTable) USDValue(currency string, amount decimal.Decimal) decimal.Decimal {
	rate, ok := t.Rate(currency)
	if !ok {
		return decimal.Zero
	}
	return amount.Mul(rate)
}

// Merge returns a new table where entries from other override t.
func (t RateTable) Merge(other RateTable) RateTable {
	merged := make(map[string]decimal.Decimal, len(t.rates)+len(other.rates))
	for k, v := range t.rates {
		merged[k] = v
	}
	for k, v := range other.rates {
		merged[k] = v
	}
	return NewRateTable(merged)
}

// Currencies returns the known currency codes in sorted order.
func (t RateTable) Currencies() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of known currencies.
func (t RateTable) Len() int {
	return len(t.rates)
}

// Map returns a copy of the table.
func (t RateTable) Map() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}
