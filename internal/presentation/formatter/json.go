package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

type jsonReport struct {
	Title            string      `json:"title"`
	GeneratedAt      string      `json:"generatedAt"`
	Mode             string      `json:"mode"`
	Wallets          int         `json:"wallets"`
	TransactionCount int         `json:"transactionCount"`
	AddressCount     int         `json:"addressCount"`
	TotalUSD         string      `json:"totalUsd"`
	Labels           []jsonLabel `json:"labels"`
}

type jsonLabel struct {
	Label            string         `json:"label"`
	TransactionCount int            `json:"transactionCount"`
	AddressCount     int            `json:"addressCount"`
	TotalUSD         string         `json:"totalUsd"`
	Currencies       []jsonCurrency `json:"currencies"`
	Transactions     []jsonTx       `json:"transactions,omitempty"`
}

type jsonCurrency struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	USD      string `json:"usd"`
	Priced   bool   `json:"priced"`
}

type jsonTx struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Address   string `json:"address,omitempty"`
	Network   string `json:"network,omitempty"`
	QuotedUSD string `json:"quotedUsd,omitempty"`
}

// JSONFormatter writes the report as indented JSON. Amounts are strings with
// two decimals so no precision is lost to floats.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	if r == nil {
		r = &Report{Title: ReportTitle}
	}
	data, err := sonic.MarshalIndent(toJSONReport(r), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func toJSONReport(r *Report) jsonReport {
	out := jsonReport{
		Title:            r.Title,
		GeneratedAt:      r.GeneratedAt.Format(util.ReportTimeLayout),
		Mode:             string(r.Mode),
		Wallets:          r.LabelCount(),
		TransactionCount: r.TransactionCount,
		AddressCount:     r.AddressCount,
		TotalUSD:         r.USDTotal.StringFixed(2),
		Labels:           make([]jsonLabel, 0, len(r.Labels)),
	}
	for _, block := range r.Labels {
		label := jsonLabel{
			Label:            block.Label,
			TransactionCount: block.TransactionCount,
			AddressCount:     block.AddressCount,
			TotalUSD:         block.USDTotal.StringFixed(2),
			Currencies:       make([]jsonCurrency, 0, len(block.Currencies)),
		}
		for _, line := range block.Currencies {
			label.Currencies = append(label.Currencies, jsonCurrency{
				Currency: line.Currency,
				Amount:   line.Amount.StringFixed(2),
				USD:      line.USD.StringFixed(2),
				Priced:   line.Priced,
			})
		}
		for _, tx := range block.Transactions {
			jt := jsonTx{
				Amount:   tx.Amount.StringFixed(2),
				Currency: tx.Currency,
				Address:  tx.Address,
				Network:  tx.Network,
			}
			if tx.QuotedUSD.Valid {
				jt.QuotedUSD = tx.QuotedUSD.Decimal.StringFixed(2)
			}
			label.Transactions = append(label.Transactions, jt)
		}
		out.Labels = append(out.Labels, label)
	}
	return out
}
