package formatter

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/core/pricing"
	"github.com/penwyp/go-tx-ledger/internal/data/aggregator"
	"github.com/shopspring/decimal"
)

// ReportTitle is the fixed report heading.
const ReportTitle = "TRANSACTION REPORT"

// EmptyReport is rendered instead of a report when nothing was recorded.
const EmptyReport = "📭 No transactions to report."

// CurrencyLine is one currency total inside a label block.
type CurrencyLine struct {
	Currency string
	Amount   decimal.Decimal
	USD      decimal.Decimal
	Priced   bool
}

// LabelBlock is everything shown for one label.
type LabelBlock struct {
	Label            string
	TransactionCount int
	AddressCount     int
	Currencies       []CurrencyLine
	Transactions     []model.ParsedTransaction
	USDTotal         decimal.Decimal
}

// Report is the renderer-independent view of a ledger snapshot.
type Report struct {
	Title            string
	GeneratedAt      time.Time
	Mode             model.AggregationMode
	Labels           []LabelBlock
	TransactionCount int
	AddressCount     int
	USDTotal         decimal.Decimal
}

// LabelCount is the number of distinct labels ("wallets") in the report.
func (r *Report) LabelCount() int {
	return len(r.Labels)
}

// IsEmpty reports whether the report has no transactions.
func (r *Report) IsEmpty() bool {
	return r.TransactionCount == 0
}

// Formatter renders a report to a writer.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(), nil
	case "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (valid: text, table, json, csv)", name)
	}
}

// BuildReport prices a snapshot with the rate table. Currencies without a
// rate are listed but add nothing to USD totals.
func BuildReport(snap aggregator.Snapshot, rates pricing.RateTable, generatedAt time.Time) *Report {
	report := &Report{
		Title:            ReportTitle,
		GeneratedAt:      generatedAt,
		Mode:             snap.Mode,
		Labels:           make([]LabelBlock, 0, len(snap.Labels)),
		TransactionCount: snap.TransactionCount,
		AddressCount:     snap.AddressCount,
		USDTotal:         decimal.Zero,
	}

	for _, summary := range snap.Labels {
		block := LabelBlock{
			Label:            summary.Label.String(),
			TransactionCount: summary.TransactionCount,
			AddressCount:     summary.AddressCount,
			Currencies:       make([]CurrencyLine, 0, len(summary.Totals)),
			Transactions:     sortedTransactions(summary.Transactions),
			USDTotal:         decimal.Zero,
		}

		for _, total := range summary.Totals {
			_, priced := rates.Rate(total.Currency)
			usd := rates.USDValue(total.Currency, total.Amount)
			block.Currencies = append(block.Currencies, CurrencyLine{
				Currency: total.Currency,
				Amount:   total.Amount,
				USD:      usd,
				Priced:   priced,
			})
			block.USDTotal = block.USDTotal.Add(usd)
		}

		report.USDTotal = report.USDTotal.Add(block.USDTotal)
		report.Labels = append(report.Labels, block)
	}
	return report
}

// sortedTransactions orders detail lines by currency, amount and address so the
// report does not depend on input order.
func sortedTransactions(txs []model.ParsedTransaction) []model.ParsedTransaction {
	if len(txs) == 0 {
		return nil
	}
	sorted := make([]model.ParsedTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c < 0
		}
		return a.Address < b.Address
	})
	return sorted
}
