package analyzer

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/data/parser"
	"github.com/penwyp/go-tx-ledger/internal/data/scanner"
	"github.com/penwyp/go-tx-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

// StdinSource names the message read from standard input.
const StdinSource = "stdin"

type Config struct {
	// Paths are message files or directories of *.txt files. Empty means stdin.
	Paths        []string
	Recursive    bool
	OutputFormat string
	Concurrency  int
	Engine       session.Options
	Recorder     session.Recorder

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Analyzer runs one batch: every input is one message fed to a fresh engine,
// then the report is printed.
type Analyzer struct {
	config    *Config
	reader    *parser.MessageReader
	engine    *session.Engine
	formatter formatter.Formatter
	stats     *RunStats
}

func New(config *Config) (*Analyzer, error) {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}
	if config.Recorder == nil {
		config.Recorder = session.NopRecorder{}
	}

	f, err := formatter.NewFormatter(config.OutputFormat)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		config:    config,
		reader:    parser.NewMessageReader(config.Concurrency),
		engine:    session.NewEngine(config.Engine),
		formatter: f,
		stats:     NewRunStats(),
	}, nil
}

// Engine exposes the engine fed by Run.
func (a *Analyzer) Engine() *session.Engine {
	return a.engine
}

// Stats returns the statistics of the last run.
func (a *Analyzer) Stats() *RunStats {
	return a.stats
}

func (a *Analyzer) Run() error {
	startTime := time.Now()
	util.LogInfo("Starting transaction analysis...")

	// Phase 1: Load messages
	loadStart := time.Now()
	messages, err := a.loadMessages()
	if err != nil {
		return err
	}
	loadDuration := time.Since(loadStart)
	util.LogDebug(fmt.Sprintf("Phase 1 - Load duration: %v, %d messages", loadDuration, len(messages)))

	if len(messages) == 0 {
		return fmt.Errorf("no message files found")
	}

	// Phase 2: Feed the engine in input order
	processStart := time.Now()
	for _, msg := range messages {
		added := a.engine.AddTransactions(msg.Text)
		a.stats.Record(msg.Source, added)
		a.config.Recorder.MessageProcessed("cli", added)
		if added == 0 && a.config.Stderr != nil {
			fmt.Fprintf(a.config.Stderr, "%s: %s\n", msg.Source, session.MsgNotRecognized)
		}
	}
	processDuration := time.Since(processStart)
	util.LogDebug(fmt.Sprintf("Phase 2 - Processing duration: %v", processDuration))
	a.stats.LogSummary()

	// Phase 3: Format and output
	outputStart := time.Now()
	a.config.Recorder.ReportRendered("cli")
	err = a.formatter.Format(a.config.Stdout, a.engine.Snapshot())
	if _, isText := a.formatter.(*formatter.TextFormatter); err == nil && isText {
		_, err = fmt.Fprintln(a.config.Stdout)
	}
	outputDuration := time.Since(outputStart)

	util.LogDebug(fmt.Sprintf("Total duration: %v (load:%v process:%v output:%v)",
		time.Since(startTime), loadDuration, processDuration, outputDuration))

	return err
}

func (a *Analyzer) loadMessages() ([]parser.Message, error) {
	if len(a.config.Paths) == 0 {
		if a.config.Stdin == nil {
			return nil, nil
		}
		msg, err := a.reader.ReadAll(StdinSource, a.config.Stdin)
		if err != nil {
			return nil, err
		}
		return []parser.Message{msg}, nil
	}

	files, err := scanner.ExpandPaths(a.config.Paths, a.config.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to collect message files: %w", err)
	}
	util.LogInfo(fmt.Sprintf("Found %d message files", len(files)))
	return a.reader.ReadFiles(files)
}
