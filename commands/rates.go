package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-tx-ledger/internal/core/pricing"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/spf13/cobra"
)

var ratesWrite string

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the USD rate table used for reports",
	Long: `Prints the effective USD conversion factors: the built-in table merged with
the overrides from --rates. With --write the table is saved as a rate file that
can be edited and passed back through --rates.`,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().StringVar(&ratesWrite, "write", "",
		"Write the effective table to this JSON file")
}

func runRates(cmd *cobra.Command, args []string) error {
	if err := setupRuntime(""); err != nil {
		return err
	}

	opts, err := engineOptions(cmd.Context())
	if err != nil {
		return err
	}
	table := *opts.Rates

	if ratesWrite != "" {
		path := expandPath(ratesWrite)
		doc := pricing.RateFile{
			Source:    "go-tx-ledger",
			UpdatedAt: util.GetTimeProvider().Now(),
			Rates:     table.Map(),
		}
		if err := pricing.NewFileProvider(path, nil).Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rates to %s\n", table.Len(), path)
		return nil
	}

	printRates(cmd.OutOrStdout(), table)
	return nil
}

func printRates(w io.Writer, table pricing.RateTable) {
	header := util.PadString("Currency", 10, true) + " " + util.PadString("USD", 12, false)
	if w == os.Stdout && util.IsTerminal() {
		header = util.FormatHeaderTitle(header)
	}
	fmt.Fprintln(w, header)
	for _, code := range table.Currencies() {
		rate, _ := table.Rate(code)
		fmt.Fprintf(w, "%s %s\n", util.PadString(code, 10, true), util.PadString(rate.String(), 12, false))
	}
}
