package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/analyzer"
	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/core/pricing"
	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/data/parser"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Engine configuration
	timezone    string
	mode        string
	labelPolicy string
	labelScope  string
	ratesFile   string

	// Output related
	outputFormat string
	recursive    bool

	rootCmd = &cobra.Command{
		Use:   "go-tx-ledger [flags] [files...]",
		Short: "Crypto transaction notification ledger",
		Long: `go-tx-ledger parses forwarded "Received:" transaction notifications, groups the
amounts under the hashtag label that precedes them and prints a report with
per-currency totals and USD equivalents.

Every file argument is one message; a directory contributes its *.txt files in
name order. Without arguments a single message is read from stdin.

Examples:
  go-tx-ledger alerts/                               # Report on every message in alerts/
  pbpaste | go-tx-ledger                             # Report on one pasted message
  go-tx-ledger --mode list --output table a.txt b.txt
  go-tx-ledger --label-policy network alerts/        # Group by network hashtag
  go-tx-ledger --rates rates.json --output json alerts/`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyze,
	}
)

const defaultLogFile = "~/.go-tx-ledger/logs/app.log"

func init() {
	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path (empty disables file logging)")

	// Engine configuration
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for report timestamps (e.g., Europe/Moscow, UTC)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", string(model.ModeSum),
		"Aggregation mode (sum, list)")
	rootCmd.PersistentFlags().StringVar(&labelPolicy, "label-policy", parser.PolicyHashtag,
		"How hashtag lines become labels (hashtag, network)")
	rootCmd.PersistentFlags().StringVar(&labelScope, "label-scope", string(model.ScopeMessage),
		"Whether the current label survives between messages (message, session)")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "",
		"JSON file with USD rate overrides")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text",
		"Output format (text, table, json, csv)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "",
		"Alias for --output")
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Descend into subdirectories of directory arguments")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := setupRuntime(""); err != nil {
		return err
	}

	// Handle format alias
	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		outputFormat = format.Value.String()
	}

	opts, err := engineOptions(cmd.Context())
	if err != nil {
		return err
	}

	config := &analyzer.Config{
		Paths:        args,
		Recursive:    recursive,
		OutputFormat: outputFormat,
		Concurrency:  runtime.NumCPU(),
		Engine:       opts,
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}
	if len(args) == 0 {
		config.Stdin = cmd.InOrStdin()
	}

	a, err := analyzer.New(config)
	if err != nil {
		return err
	}
	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// setupRuntime installs the global logger and time provider from the
// persistent flags. An empty level means info, or debug with --debug.
func setupRuntime(logLevel string) error {
	if debug {
		logLevel = "debug"
	}
	if logLevel == "" {
		logLevel = "info"
	}

	path := ""
	if logFile != "" {
		path = expandPath(logFile)
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	logger, err := util.NewLogger(util.LoggerOptions{
		Level:          logLevel,
		File:           path,
		DebugToConsole: debug,
	})
	if err != nil {
		return err
	}
	util.InitLogger(logger)

	return util.InitializeTimeProvider(timezone)
}

// engineOptions validates the engine flags and loads the rate table.
func engineOptions(ctx context.Context) (session.Options, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	aggMode := model.AggregationMode(mode)
	if aggMode != model.ModeSum && aggMode != model.ModeList {
		return session.Options{}, fmt.Errorf("invalid mode '%s': must be 'sum' or 'list'", mode)
	}

	scope := model.LabelScope(labelScope)
	if scope != model.ScopeMessage && scope != model.ScopeSession {
		return session.Options{}, fmt.Errorf("invalid label scope '%s': must be 'message' or 'session'", labelScope)
	}

	policy, err := parser.NewLabelPolicy(labelPolicy)
	if err != nil {
		return session.Options{}, err
	}

	cfg := &pricing.SourceConfig{}
	if ratesFile != "" {
		cfg.RateFile = expandPath(ratesFile)
	}
	rates, err := pricing.LoadRateTable(ctx, cfg)
	if err != nil {
		return session.Options{}, err
	}

	return session.Options{
		Mode:   aggMode,
		Policy: policy,
		Scope:  scope,
		Rates:  &rates,
	}, nil
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
