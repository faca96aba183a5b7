package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/data/scanner"
	"github.com/penwyp/go-tx-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/spf13/cobra"
)

var (
	watchInbox   string
	watchOutput  string
	watchBacklog bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process notification files as they appear in an inbox directory",
	Long: `Watches a directory and treats every file dropped into it as a command:

  *.txt     one message; its transactions are added to the ledger
  *.report  print the report and start a new ledger
  *.clear   drop everything collected so far

The ledger lives for as long as the command runs.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchInbox, "inbox", "~/.go-tx-ledger/inbox",
		"Inbox directory to watch")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "text",
		"Report format (text, table, json, csv)")
	watchCmd.Flags().BoolVar(&watchBacklog, "backlog", true,
		"Process *.txt files already in the inbox before watching")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := setupRuntime(""); err != nil {
		return err
	}

	opts, err := engineOptions(cmd.Context())
	if err != nil {
		return err
	}
	f, err := formatter.NewFormatter(watchOutput)
	if err != nil {
		return err
	}

	dir := expandPath(watchInbox)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	inbox := session.NewInbox(session.NewEngine(opts), cmd.OutOrStdout(), f, nil)

	// Start watching before the backlog sweep so nothing written in between is lost.
	watcher, err := session.NewFileWatcher(dir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if watchBacklog {
		if err := processBacklog(inbox, dir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	util.LogInfo("Watching inbox", util.F("dir", dir))
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", dir)

	if err := inbox.Run(ctx, watcher.Events()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func processBacklog(inbox *session.Inbox, dir string) error {
	files, err := scanner.NewFileScanner(dir).Scan()
	if err != nil {
		return fmt.Errorf("failed to scan inbox: %w", err)
	}
	for _, path := range files {
		ev := model.FileEvent{Path: path, Operation: "CREATE", Action: model.InboxMessage}
		if err := inbox.Handle(ev); err != nil {
			util.LogWarn("Backlog file failed", util.F("path", path), util.F("error", err.Error()))
		}
	}
	return nil
}
