package session

import (
	"strings"
	"sync"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/core/pricing"
	"github.com/penwyp/go-tx-ledger/internal/data/aggregator"
	"github.com/penwyp/go-tx-ledger/internal/data/parser"
	"github.com/penwyp/go-tx-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

// Options configures an Engine. Zero values select sum mode, the hashtag
// policy, message scope, the default rate table and the global time provider.
type Options struct {
	Mode   model.AggregationMode
	Policy parser.LabelPolicy
	Scope  model.LabelScope
	Rates  *pricing.RateTable
	Clock  util.Clock
}

// Engine interprets notification text line by line and feeds a ledger.
// It holds the current label between lines (and between calls in session
// scope). All methods are safe for concurrent use; calls are serialized.
type Engine struct {
	mu sync.Mutex

	classifier *parser.Classifier
	extractor  *parser.Extractor
	ledger     *aggregator.Ledger
	rates      pricing.RateTable
	scope      model.LabelScope
	clock      util.Clock

	current model.GroupLabel
}

// pendingTx is a transaction still waiting for an explorer address.
type pendingTx struct {
	label model.GroupLabel
	tx    model.ParsedTransaction
}

// NewEngine creates an engine with an empty ledger.
func NewEngine(opts Options) *Engine {
	rates := pricing.DefaultRateTable()
	if opts.Rates != nil {
		rates = *opts.Rates
	}
	clock := opts.Clock
	if clock == nil {
		clock = util.GetTimeProvider()
	}
	scope := opts.Scope
	if scope != model.ScopeSession {
		scope = model.ScopeMessage
	}

	return &Engine{
		classifier: parser.NewClassifier(opts.Policy),
		extractor:  parser.NewExtractor(),
		ledger:     aggregator.NewLedger(opts.Mode),
		rates:      rates,
		scope:      scope,
		clock:      clock,
	}
}

// Mode returns the ledger aggregation mode.
func (e *Engine) Mode() model.AggregationMode {
	return e.ledger.Mode()
}

// Scope returns the label scope.
func (e *Engine) Scope() model.LabelScope {
	return e.scope
}

// CurrentLabel returns the active label, empty when there is none.
func (e *Engine) CurrentLabel() model.GroupLabel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// AddTransactions processes one message and returns how many transactions
// were recorded. Malformed lines are skipped; it never fails.
//
// A transaction without an explorer address is held back: following noise
// lines are searched for one until the next label or transaction line, or
// the end of the text.
func (e *Engine) AddTransactions(text string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scope == model.ScopeMessage {
		e.current = ""
	}
	return e.addLocked(text)
}

// AddContinuation processes text that was appended to an earlier message
// whose last active label was label. In message scope that label is restored
// before the first line; in session scope the engine's own label is used.
// It returns how many transactions were recorded and the label active at
// the end of text.
func (e *Engine) AddContinuation(text string, label model.GroupLabel) (int, model.GroupLabel) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scope == model.ScopeMessage {
		e.current = label
	}
	added := e.addLocked(text)
	return added, e.current
}

func (e *Engine) addLocked(text string) int {
	var (
		added   int
		dropped int
		pending *pendingTx
	)
	flush := func() {
		if pending == nil {
			return
		}
		e.ledger.Add(pending.label, pending.tx)
		added++
		pending = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		c := e.classifier.Classify(line)

		switch c.Kind {
		case parser.LabelMarker:
			flush()
			e.current = c.Label

		case parser.TransactionCandidate:
			flush()
			if e.current.IsZero() {
				dropped++
				continue
			}
			tx, ok := e.extractor.Extract(line)
			if !ok {
				dropped++
				continue
			}
			pending = &pendingTx{label: e.current, tx: tx}
			if tx.AddressKind == model.AddressCanonical {
				flush()
			}

		default:
			if pending == nil {
				continue
			}
			if addr, ok := e.extractor.FindCanonicalAddress(line); ok {
				pending.tx = pending.tx.WithAddress(addr.Address, addr.Kind, addr.Network)
				flush()
			}
		}
	}
	flush()

	util.LogDebug("Processed message",
		util.F("added", added),
		util.F("dropped", dropped),
		util.F("label", e.current.String()))
	return added
}

// Status returns the ledger counters, or false when the ledger is empty.
func (e *Engine) Status() (model.Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Status()
}

// Snapshot builds the report model without changing state.
func (e *Engine) Snapshot() *formatter.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return formatter.BuildReport(e.ledger.Snapshot(), e.rates, e.clock.Now())
}

// Drain builds the report model and clears the ledger in one step.
func (e *Engine) Drain() *formatter.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	report := formatter.BuildReport(e.ledger.Drain(), e.rates, e.clock.Now())
	e.current = ""
	return report
}

// Report renders the text report. State is left untouched.
func (e *Engine) Report() string {
	return formatter.RenderText(e.Snapshot())
}

// ReportAndReset renders the text report and clears the ledger atomically.
func (e *Engine) ReportAndReset() string {
	return formatter.RenderText(e.Drain())
}

// Clear wipes the ledger and forgets the current label.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Clear()
	e.current = ""
}
