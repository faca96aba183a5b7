package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// maxLabelWidth caps the label column so wide hashtags do not blow up the table.
const maxLabelWidth = 32

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Label", "Currency", "Amount", "USD", "Txns"},
	}
}

// Format writes one row per label and currency plus a total row.
func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	if r == nil || r.IsEmpty() {
		_, err := fmt.Fprintln(w, EmptyReport)
		return err
	}

	rows := f.buildRows(r)
	total := []string{"Total", "", "", util.FormatUSD(r.USDTotal), strconv.Itoa(r.TransactionCount)}
	widths := f.calculateColumnWidths(append(rows, total))

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", r.Title, r.GeneratedAt.Format(util.ReportTimeLayout))
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths)
	f.writeBorder(&b, widths, "middle")
	for _, row := range rows {
		f.writeRow(&b, row, widths)
	}
	f.writeBorder(&b, widths, "middle")
	f.writeRow(&b, total, widths)
	f.writeBorder(&b, widths, "bottom")
	fmt.Fprintf(&b, "Wallets: %d  Addresses: %d\n", r.LabelCount(), r.AddressCount)

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) buildRows(r *Report) [][]string {
	var rows [][]string
	for _, block := range r.Labels {
		label := util.TruncateToWidth(block.Label, maxLabelWidth)
		for i, line := range block.Currencies {
			usd := util.FormatUSD(line.USD)
			if !line.Priced {
				usd = "-"
			}
			row := []string{"", line.Currency, util.FormatAmount(line.Amount), usd, ""}
			if i == 0 {
				row[0] = label
				row[4] = strconv.Itoa(block.TransactionCount)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// calculateColumnWidths sizes every column by display width, not bytes.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeRow left-aligns the label and currency columns and right-aligns numbers.
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], i < 2))
		b.WriteString(" │")
	}
	b.WriteString("\n")
}
