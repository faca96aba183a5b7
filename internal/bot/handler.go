package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/util"
)

// maxMessageLength is the Bot API limit for one text message.
const maxMessageLength = 4096

const source = "bot"

const helpText = `👋 Forward transaction notifications to me.

Put a hashtag line such as "#oscar max bnb" before the "Received:" lines it belongs to.

Commands:
/status - current counters
/report - show the report
/finish_count - show the report and start over
/clear - drop everything collected so far
/stop - end this session`

const (
	msgStopped      = "👋 Session closed."
	msgUnknown      = "🤔 Unknown command. Send /start for help."
	msgNotPermitted = "⛔ You are not allowed to use this bot."
)

// Sender is the part of the Bot API the handler needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) (Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) (Message, error)
}

// Handler routes updates to per-chat sessions.
type Handler struct {
	sessions *session.Manager
	sender   Sender
	recorder session.Recorder
	allowed  func(userID int64) bool
}

// NewHandler creates a handler. A nil allowed func admits everyone.
func NewHandler(sessions *session.Manager, sender Sender, recorder session.Recorder, allowed func(int64) bool) *Handler {
	if recorder == nil {
		recorder = session.NopRecorder{}
	}
	if allowed == nil {
		allowed = func(int64) bool { return true }
	}
	return &Handler{
		sessions: sessions,
		sender:   sender,
		recorder: recorder,
		allowed:  allowed,
	}
}

// HandleUpdate processes one update. Updates without a text message are ignored.
func (h *Handler) HandleUpdate(ctx context.Context, upd Update) error {
	msg := upd.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return nil
	}
	chatID := msg.Chat.ID

	// Messages without a sender, such as anonymous group admins, are
	// checked as user 0 and so only pass when no allow-list is set.
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	if !h.allowed(userID) {
		util.LogWarn("Rejected message from non-admin", util.F("user", userID), util.F("chat", chatID))
		return h.send(ctx, chatID, msgNotPermitted)
	}

	if cmd, ok := parseCommand(msg.Text); ok {
		return h.handleCommand(ctx, chatID, cmd)
	}
	return h.handleText(ctx, chatID, msg.Text)
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, cmd string) error {
	util.LogDebug("Command received", util.F("chat", chatID), util.F("command", cmd))

	switch cmd {
	case "start", "help":
		h.sessions.Get(chatID)
		return h.send(ctx, chatID, helpText)

	case "status":
		s := h.sessions.Get(chatID)
		status, ok := s.Engine.Status()
		if !ok {
			return h.send(ctx, chatID, session.MsgNothingYet)
		}
		return h.showStatus(ctx, s, session.FormatStatus(status))

	case "report":
		s := h.sessions.Get(chatID)
		h.recorder.ReportRendered(source)
		return h.send(ctx, chatID, s.Engine.Report())

	case "finish_count":
		s := h.sessions.Get(chatID)
		h.recorder.ReportRendered(source)
		report := s.Engine.ReportAndReset()
		s.SetLastStatusMessageID(0)
		return h.send(ctx, chatID, report+"\n\n"+session.MsgReportReady)

	case "clear":
		s := h.sessions.Get(chatID)
		s.Engine.Clear()
		s.SetLastStatusMessageID(0)
		h.recorder.LedgerCleared(source)
		return h.send(ctx, chatID, session.MsgCleared)

	case "stop":
		h.sessions.Drop(chatID)
		return h.send(ctx, chatID, msgStopped)

	default:
		return h.send(ctx, chatID, msgUnknown)
	}
}

func (h *Handler) handleText(ctx context.Context, chatID int64, text string) error {
	s := h.sessions.Get(chatID)
	added := s.Engine.AddTransactions(text)
	h.recorder.MessageProcessed(source, added)

	if added == 0 {
		return h.send(ctx, chatID, session.MsgNotRecognized)
	}
	status, ok := s.Engine.Status()
	return h.showStatus(ctx, s, session.FormatAdded(added, status, ok))
}

// showStatus edits the previous status reply when there is one and falls
// back to a new message otherwise.
func (h *Handler) showStatus(ctx context.Context, s *session.Session, text string) error {
	if id := s.LastStatusMessageID(); id != 0 {
		_, err := h.sender.EditMessageText(ctx, s.ChatID, id, text)
		if err == nil || errors.Is(err, ErrNotModified) {
			return nil
		}
		util.LogDebug("Status edit failed, sending a new message",
			util.F("chat", s.ChatID),
			util.F("error", err.Error()))
	}

	sent, err := h.sender.SendMessage(ctx, s.ChatID, text)
	if err != nil {
		return err
	}
	s.SetLastStatusMessageID(sent.MessageID)
	return nil
}

// send delivers text, split into chunks that fit the Bot API limit.
func (h *Handler) send(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := h.sender.SendMessage(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// parseCommand returns the command name of "/name@bot args", lower-cased.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text)[0][1:]
	name, _, _ = strings.Cut(name, "@")
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

// splitMessage cuts text at line breaks so no chunk exceeds limit runes.
// A single line longer than limit is cut hard.
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if size > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if size+len(runes) > limit {
			flush()
		}
		current.WriteString(string(runes))
		size += len(runes)
	}
	flush()
	return chunks
}
