package aggregator

import (
	"sort"
	"sync"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/shopspring/decimal"
)

// Ledger accumulates received transactions per label until cleared.
// In sum mode only per-currency totals are kept; in list mode every
// transaction is kept in insertion order. Both modes count transactions
// and remember the distinct addresses seen.
type Ledger struct {
	mu   sync.RWMutex
	mode model.AggregationMode

	totals  map[model.GroupLabel]map[string]decimal.Decimal
	records map[model.GroupLabel][]model.ParsedTransaction
	counts  map[model.GroupLabel]int

	labelAddresses map[model.GroupLabel]map[string]struct{}
	addresses      map[string]struct{}
	txCount        int
}

// CurrencyTotal is the accumulated amount of one currency.
type CurrencyTotal struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// LabelSummary is the read-only view of one label.
type LabelSummary struct {
	Label            model.GroupLabel          `json:"label"`
	TransactionCount int                       `json:"transactionCount"`
	AddressCount     int                       `json:"addressCount"`
	Totals           []CurrencyTotal           `json:"totals"`
	Transactions     []model.ParsedTransaction `json:"transactions,omitempty"`
}

// Snapshot is a consistent copy of the ledger with labels and currencies sorted.
type Snapshot struct {
	Mode             model.AggregationMode `json:"mode"`
	Labels           []LabelSummary        `json:"labels"`
	TransactionCount int                   `json:"transactionCount"`
	AddressCount     int                   `json:"addressCount"`
}

// IsEmpty reports whether nothing was recorded.
func (s Snapshot) IsEmpty() bool {
	return s.TransactionCount == 0
}

// NewLedger creates an empty ledger. Unknown modes fall back to sum mode.
func NewLedger(mode model.AggregationMode) *Ledger {
	if mode != model.ModeList {
		mode = model.ModeSum
	}
	l := &Ledger{mode: mode}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	l.totals = make(map[model.GroupLabel]map[string]decimal.Decimal)
	l.records = make(map[model.GroupLabel][]model.ParsedTransaction)
	l.counts = make(map[model.GroupLabel]int)
	l.labelAddresses = make(map[model.GroupLabel]map[string]struct{})
	l.addresses = make(map[string]struct{})
	l.txCount = 0
}

// Mode returns the aggregation mode.
func (l *Ledger) Mode() model.AggregationMode {
	return l.mode
}

// Add records one transaction under label. It never fails.
func (l *Ledger) Add(label model.GroupLabel, tx model.ParsedTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.mode {
	case model.ModeList:
		l.records[label] = append(l.records[label], tx)
	default:
		byCurrency, ok := l.totals[label]
		if !ok {
			byCurrency = make(map[string]decimal.Decimal)
			l.totals[label] = byCurrency
		}
		current, ok := byCurrency[tx.Currency]
		if !ok {
			current = decimal.Zero
		}
		byCurrency[tx.Currency] = current.Add(tx.Amount)
	}

	l.counts[label]++
	l.txCount++

	if tx.HasAddress() {
		set, ok := l.labelAddresses[label]
		if !ok {
			set = make(map[string]struct{})
			l.labelAddresses[label] = set
		}
		set[tx.Address] = struct{}{}
		l.addresses[tx.Address] = struct{}{}
	}
}

// Clear wipes all state.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

// Status returns the accumulation counters, or false if nothing was added
// since the last clear.
func (l *Ledger) Status() (model.Status, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.txCount == 0 {
		return model.Status{}, false
	}
	return model.Status{
		LabelCount:       len(l.counts),
		TransactionCount: l.txCount,
		AddressCount:     len(l.addresses),
	}, true
}

// Snapshot returns a sorted copy of the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Drain returns a snapshot and clears the ledger in one step.
func (l *Ledger) Drain() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := l.snapshotLocked()
	l.reset()
	return snap
}

func (l *Ledger) snapshotLocked() Snapshot {
	labels := make([]model.GroupLabel, 0, len(l.counts))
	for label := range l.counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	snap := Snapshot{
		Mode:             l.mode,
		Labels:           make([]LabelSummary, 0, len(labels)),
		TransactionCount: l.txCount,
		AddressCount:     len(l.addresses),
	}

	for _, label := range labels {
		summary := LabelSummary{
			Label:            label,
			TransactionCount: l.counts[label],
			AddressCount:     len(l.labelAddresses[label]),
		}

		byCurrency := l.totals[label]
		if l.mode == model.ModeList {
			txs := l.records[label]
			summary.Transactions = make([]model.ParsedTransaction, len(txs))
			copy(summary.Transactions, txs)
			byCurrency = sumByCurrency(txs)
		}
		summary.Totals = sortedTotals(byCurrency)

		snap.Labels = append(snap.Labels, summary)
	}
	return snap
}

func sumByCurrency(txs []model.ParsedTransaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		current, ok := totals[tx.Currency]
		if !ok {
			current = decimal.Zero
		}
		totals[tx.Currency] = current.Add(tx.Amount)
	}
	return totals
}

func sortedTotals(byCurrency map[string]decimal.Decimal) []CurrencyTotal {
	totals := make([]CurrencyTotal, 0, len(byCurrency))
	for currency, amount := range byCurrency {
		totals = append(totals, CurrencyTotal{Currency: currency, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
	return totals
}

// Total returns the accumulated amount of currency under label.
func (s LabelSummary) Total(currency string) decimal.Decimal {
	for _, t := range s.Totals {
		if t.Currency == currency {
			return t.Amount
		}
	}
	return decimal.Zero
}

// Find returns the summary for label.
func (s Snapshot) Find(label model.GroupLabel) (LabelSummary, bool) {
	for _, summary := range s.Labels {
		if summary.Label == label {
			return summary, true
		}
	}
	return LabelSummary{}, false
}
