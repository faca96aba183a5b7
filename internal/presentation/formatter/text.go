package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

const ruleWidth = 40

// TextFormatter renders the plain-text report sent back to chat users.
type TextFormatter struct{}

// NewTextFormatter creates a new instance of TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format writes the report. An empty report renders only the sentinel line.
func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, RenderText(r))
	return err
}

// RenderText returns the report as a string.
func RenderText(r *Report) string {
	if r == nil || r.IsEmpty() {
		return EmptyReport
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "📊 %s\n", r.Title)
	fmt.Fprintf(&b, "📅 %s\n", r.GeneratedAt.Format(util.ReportTimeLayout))
	b.WriteString(strings.Repeat("─", ruleWidth))
	b.WriteString("\n")

	for _, block := range r.Labels {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", block.Label)
		fmt.Fprintf(&b, "  Transactions: %d\n", block.TransactionCount)
		for _, line := range block.Currencies {
			if line.Priced {
				fmt.Fprintf(&b, "  %s: %s\n", line.Currency, util.FormatAmount(line.Amount))
			} else {
				fmt.Fprintf(&b, "  %s: %s (no rate)\n", line.Currency, util.FormatAmount(line.Amount))
			}
		}
		for _, tx := range block.Transactions {
			fmt.Fprintf(&b, "    • %s\n", describeTransaction(tx))
		}
		fmt.Fprintf(&b, "  USD total: %s\n", util.FormatUSD(block.USDTotal))
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("═", ruleWidth))
	b.WriteString("\n")
	b.WriteString("📈 OVERALL STATISTICS\n")
	fmt.Fprintf(&b, "• Wallets: %s\n", util.FormatCount(r.LabelCount()))
	fmt.Fprintf(&b, "• Transactions: %s\n", util.FormatCount(r.TransactionCount))
	fmt.Fprintf(&b, "• Addresses: %s\n", util.FormatCount(r.AddressCount))
	fmt.Fprintf(&b, "• Total USD: %s", util.FormatUSD(r.USDTotal))

	return b.String()
}

func describeTransaction(tx model.ParsedTransaction) string {
	s := fmt.Sprintf("%s %s", util.FormatAmount(tx.Amount), tx.Currency)
	switch tx.AddressKind {
	case model.AddressCanonical:
		s += fmt.Sprintf(" from %s [%s]", tx.Address, tx.Network)
	case model.AddressShort:
		s += fmt.Sprintf(" from %s", tx.Address)
	}
	if tx.QuotedUSD.Valid {
		s += fmt.Sprintf(" (quoted %s)", util.FormatUSD(tx.QuotedUSD.Decimal))
	}
	return s
}
