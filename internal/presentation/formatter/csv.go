package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// Format writes one record per label and currency. Unpriced currencies have an
// empty USD column.
func (f *CSVFormatter) Format(w io.Writer, r *Report) error {
	if r == nil {
		r = &Report{}
	}
	cw := csv.NewWriter(w)

	headers := []string{"Label", "Currency", "Amount", "USD", "Transactions", "Addresses"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, block := range r.Labels {
		for _, line := range block.Currencies {
			usd := ""
			if line.Priced {
				usd = line.USD.StringFixed(2)
			}
			record := []string{
				block.Label,
				line.Currency,
				line.Amount.StringFixed(2),
				usd,
				strconv.Itoa(block.TransactionCount),
				strconv.Itoa(block.AddressCount),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
