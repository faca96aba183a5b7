package session

import (
	"fmt"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
)

// User-facing replies shared by the bot and the inbox watcher.
const (
	MsgNotRecognized = "❌ Could not recognize transactions, check the format."
	MsgCleared       = "🗑 All data cleared."
	MsgReportReady   = "✅ Report ready."
	MsgNothingYet    = "📭 No transactions yet."
)

// FormatAdded is the reply after a message was processed.
func FormatAdded(added int, status model.Status, ok bool) string {
	if added == 0 {
		return MsgNotRecognized
	}
	msg := fmt.Sprintf("✅ Transactions added: %d", added)
	if ok {
		msg += "\n" + FormatStatus(status)
	}
	return msg
}

// FormatStatus renders the running counters.
func FormatStatus(status model.Status) string {
	return fmt.Sprintf("📊 Wallets: %d | Transactions: %d | Addresses: %d",
		status.LabelCount, status.TransactionCount, status.AddressCount)
}
