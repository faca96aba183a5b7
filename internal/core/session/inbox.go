package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/model"
	"github.com/penwyp/go-tx-ledger/internal/data/parser"
	"github.com/penwyp/go-tx-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

const inboxSource = "inbox"

// Inbox applies inbox file events to one engine and writes replies to out.
// It is driven from a single goroutine.
type Inbox struct {
	engine   *Engine
	reader   *parser.MessageReader
	out      io.Writer
	format   formatter.Formatter
	recorder Recorder

	files map[string]*inboxFile
}

// inboxFile remembers how much of a message file was already applied so a
// later write only feeds the appended part.
type inboxFile struct {
	offset      int
	fingerprint string
	label       model.GroupLabel
}

// NewInbox creates an inbox processor. A nil formatter means text, a nil
// recorder discards metrics.
func NewInbox(engine *Engine, out io.Writer, format formatter.Formatter, recorder Recorder) *Inbox {
	if format == nil {
		format = formatter.NewTextFormatter()
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Inbox{
		engine:   engine,
		reader:   parser.NewMessageReader(1),
		out:      out,
		format:   format,
		recorder: recorder,
		files:    make(map[string]*inboxFile),
	}
}

// Run handles events until the channel closes or ctx is done.
func (in *Inbox) Run(ctx context.Context, events <-chan model.FileEvent) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := in.Handle(ev); err != nil {
				util.LogWarn("Inbox event failed",
					util.F("path", ev.Path),
					util.F("error", err.Error()))
			}
		}
	}
}

// Handle applies one event. Message files contribute each appended byte
// once; report and clear files act on creation only.
func (in *Inbox) Handle(ev model.FileEvent) error {
	switch ev.Action {
	case model.InboxMessage:
		if isRemoval(ev.Operation) {
			delete(in.files, ev.Path)
			return nil
		}
		return in.handleMessage(ev.Path)

	case model.InboxReport:
		if !strings.Contains(ev.Operation, "CREATE") {
			return nil
		}
		in.recorder.ReportRendered(inboxSource)
		if err := in.format.Format(in.out, in.engine.Drain()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		_, err := fmt.Fprintln(in.out)
		return err

	case model.InboxClear:
		if !strings.Contains(ev.Operation, "CREATE") {
			return nil
		}
		in.engine.Clear()
		in.recorder.LedgerCleared(inboxSource)
		_, err := fmt.Fprintln(in.out, MsgCleared)
		return err

	default:
		return fmt.Errorf("unknown inbox action %q", ev.Action)
	}
}

func (in *Inbox) handleMessage(path string) error {
	msg, err := in.reader.ReadFile(path)
	if err != nil {
		return err
	}
	data := msg.Text

	state := in.files[path]
	if state != nil && (len(data) < state.offset || util.MessageFingerprint([]byte(data[:state.offset])) != state.fingerprint) {
		util.LogDebug("Inbox file was rewritten, starting over", util.F("path", path))
		state = nil
	}
	if state == nil {
		state = &inboxFile{}
	}

	chunk := data[state.offset:]
	if strings.TrimSpace(chunk) == "" {
		util.LogDebug("Skipping unchanged inbox file", util.F("path", path))
		return nil
	}

	added, label := in.engine.AddContinuation(chunk, state.label)
	state.offset = len(data)
	state.fingerprint = util.MessageFingerprint([]byte(data))
	state.label = label
	in.files[path] = state

	in.recorder.MessageProcessed(inboxSource, added)
	status, ok := in.engine.Status()

	util.LogInfo("Inbox message processed",
		util.F("file", filepath.Base(path)),
		util.F("added", added))
	_, err = fmt.Fprintf(in.out, "%s: %s\n", filepath.Base(path), FormatAdded(added, status, ok))
	return err
}

// Tracked returns how many message files have applied state.
func (in *Inbox) Tracked() int {
	return len(in.files)
}

func isRemoval(op string) bool {
	return strings.Contains(op, "REMOVE") || strings.Contains(op, "RENAME")
}
