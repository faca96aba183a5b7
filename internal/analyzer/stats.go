package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// RunStats counts what happened to the messages of one run
type RunStats struct {
	messages     int64
	recognized   int64
	transactions int64
	mu           sync.Mutex
	rejected     []string
}

// NewRunStats creates an empty RunStats
func NewRunStats() *RunStats {
	return &RunStats{}
}

// Record adds the outcome of one message
func (s *RunStats) Record(source string, added int) {
	atomic.AddInt64(&s.messages, 1)
	if added == 0 {
		s.mu.Lock()
		s.rejected = append(s.rejected, source)
		s.mu.Unlock()
		return
	}
	atomic.AddInt64(&s.recognized, 1)
	atomic.AddInt64(&s.transactions, int64(added))
}

// Messages returns the number of processed messages
func (s *RunStats) Messages() int64 {
	return atomic.LoadInt64(&s.messages)
}

// Recognized returns the number of messages that added at least one transaction
func (s *RunStats) Recognized() int64 {
	return atomic.LoadInt64(&s.recognized)
}

// Transactions returns the number of transactions added
func (s *RunStats) Transactions() int64 {
	return atomic.LoadInt64(&s.transactions)
}

// Rejected returns the sources that added nothing, in processing order
func (s *RunStats) Rejected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rejected))
	copy(out, s.rejected)
	return out
}

// LogSummary writes the final statistics to the log
func (s *RunStats) LogSummary() {
	util.LogInfo(fmt.Sprintf("Processed %d messages: %d recognized, %d transactions",
		s.Messages(), s.Recognized(), s.Transactions()))
	for _, src := range s.Rejected() {
		util.LogDebug("Message without transactions", util.F("source", src))
	}
}
