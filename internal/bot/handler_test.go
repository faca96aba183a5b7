package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/core/session"
	"github.com/penwyp/go-tx-ledger/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID int64
	editID int
	text   string
}

type fakeSender struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	editErr error
	sendErr error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return Message{}, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return Message{MessageID: f.nextID, Chat: Chat{ID: chatID}, Text: text}, nil
}

func (f *fakeSender) EditMessageText(_ context.Context, chatID int64, messageID int, text string) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return Message{}, f.editErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, editID: messageID, text: text})
	return Message{MessageID: messageID, Chat: Chat{ID: chatID}, Text: text}, nil
}

func (f *fakeSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestHandler(allowed func(int64) bool) (*Handler, *fakeSender, *session.Manager) {
	sender := &fakeSender{}
	clock := util.FixedClock(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	sessions := session.NewManager(session.Options{Clock: clock})
	return NewHandler(sessions, sender, nil, allowed), sender, sessions
}

func textUpdate(chatID, userID int64, text string) Update {
	return Update{Message: &Message{
		MessageID: 1,
		From:      &User{ID: userID},
		Chat:      Chat{ID: chatID, Type: "private"},
		Text:      text,
	}}
}

const sampleMessage = `#oscar max bnb
Received: 19.99 #USDT ($19.99) from Binance
#jack trc20
Received: 5.00 #TRX ($0.60) from TXabc123`

func TestHandlerStart(t *testing.T) {
	h, sender, sessions := newTestHandler(nil)

	require.NoError(t, h.HandleUpdate(context.Background(), textUpdate(1, 7, "/start")))
	assert.Equal(t, helpText, sender.last().text)
	assert.Equal(t, 1, sessions.Len())
}

func TestHandlerTextAndStatusEdit(t *testing.T) {
	h, sender, sessions := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))
	first := sender.last()
	assert.Zero(t, first.editID)
	assert.Equal(t, "✅ Transactions added: 2\n📊 Wallets: 2 | Transactions: 2 | Addresses: 2", first.text)

	s, ok := sessions.Lookup(1)
	require.True(t, ok)
	statusID := s.LastStatusMessageID()
	require.NotZero(t, statusID)

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "#w\nReceived: 1 #USDT")))
	second := sender.last()
	assert.Equal(t, statusID, second.editID, "status reply is edited in place")
	assert.Contains(t, second.text, "Transactions: 3")

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/status")))
	assert.Equal(t, statusID, sender.last().editID)
	assert.Equal(t, "📊 Wallets: 3 | Transactions: 3 | Addresses: 2", sender.last().text)
}

func TestHandlerStatusEditFallsBackToSend(t *testing.T) {
	h, sender, sessions := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))
	sender.editErr = errors.New("message to edit not found")

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "#w\nReceived: 1 #USDT")))
	assert.Zero(t, sender.last().editID)

	s, _ := sessions.Lookup(1)
	assert.Equal(t, sender.nextID, s.LastStatusMessageID())
}

func TestHandlerStatusNotModifiedIsSilent(t *testing.T) {
	h, sender, _ := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))
	before := sender.count()
	sender.editErr = ErrNotModified

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/status")))
	assert.Equal(t, before, sender.count())
}

func TestHandlerUnrecognized(t *testing.T) {
	h, sender, _ := newTestHandler(nil)

	require.NoError(t, h.HandleUpdate(context.Background(), textUpdate(1, 7, "hello there")))
	assert.Equal(t, session.MsgNotRecognized, sender.last().text)
}

func TestHandlerReportCommands(t *testing.T) {
	h, sender, sessions := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/status")))
	assert.Equal(t, session.MsgNothingYet, sender.last().text)

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/report")))
	report := sender.last().text
	assert.Contains(t, report, "📊 TRANSACTION REPORT")
	assert.Less(t, strings.Index(report, "jack trc20"), strings.Index(report, "oscar max bnb"))
	assert.Contains(t, report, "• Total USD: $20.59")

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/finish_count@ledger_bot")))
	assert.True(t, strings.HasSuffix(sender.last().text, "\n\n"+session.MsgReportReady))
	s, _ := sessions.Lookup(1)
	_, ok := s.Engine.Status()
	assert.False(t, ok)
	assert.Zero(t, s.LastStatusMessageID())
}

func TestHandlerClearAndStop(t *testing.T) {
	h, sender, sessions := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))
	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/clear")))
	assert.Equal(t, session.MsgCleared, sender.last().text)

	s, _ := sessions.Lookup(1)
	_, ok := s.Engine.Status()
	assert.False(t, ok)

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/STOP")))
	assert.Equal(t, msgStopped, sender.last().text)
	_, ok = sessions.Lookup(1)
	assert.False(t, ok)

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, "/nope")))
	assert.Equal(t, msgUnknown, sender.last().text)
}

func TestHandlerChatsAreIsolated(t *testing.T) {
	h, _, sessions := newTestHandler(nil)
	ctx := context.Background()

	require.NoError(t, h.HandleUpdate(ctx, textUpdate(1, 7, sampleMessage)))
	require.NoError(t, h.HandleUpdate(ctx, textUpdate(2, 8, "/status")))

	s2, _ := sessions.Lookup(2)
	_, ok := s2.Engine.Status()
	assert.False(t, ok)
}

func TestHandlerAdminFilter(t *testing.T) {
	cfg := Config{AdminIDs: []int64{7}}
	h, sender, sessions := newTestHandler(cfg.IsAdmin)

	require.NoError(t, h.HandleUpdate(context.Background(), textUpdate(1, 8, sampleMessage)))
	assert.Equal(t, msgNotPermitted, sender.last().text)
	assert.Equal(t, 0, sessions.Len())

	require.NoError(t, h.HandleUpdate(context.Background(), textUpdate(1, 7, sampleMessage)))
	assert.Equal(t, 1, sessions.Len())
}

func TestHandlerAdminFilterWithoutSender(t *testing.T) {
	anonymous := Update{Message: &Message{
		MessageID: 1,
		Chat:      Chat{ID: -100, Type: "supergroup"},
		Text:      sampleMessage,
	}}

	cfg := Config{AdminIDs: []int64{7}}
	h, sender, sessions := newTestHandler(cfg.IsAdmin)
	require.NoError(t, h.HandleUpdate(context.Background(), anonymous))
	assert.Equal(t, msgNotPermitted, sender.last().text)
	assert.Equal(t, 0, sessions.Len())

	openHandler, _, openSessions := newTestHandler(Config{}.IsAdmin)
	require.NoError(t, openHandler.HandleUpdate(context.Background(), anonymous))
	assert.Equal(t, 1, openSessions.Len())
}

func TestHandlerIgnoresEmptyUpdates(t *testing.T) {
	h, sender, _ := newTestHandler(nil)

	require.NoError(t, h.HandleUpdate(context.Background(), Update{UpdateID: 1}))
	require.NoError(t, h.HandleUpdate(context.Background(), textUpdate(1, 7, "   ")))
	assert.Equal(t, 0, sender.count())
}

func TestHandlerSendError(t *testing.T) {
	h, sender, _ := newTestHandler(nil)
	sender.sendErr = errors.New("boom")

	assert.Error(t, h.HandleUpdate(context.Background(), textUpdate(1, 7, "/start")))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		cmd  string
		ok   bool
	}{
		{"/start", "start", true},
		{"  /Report  extra", "report", true},
		{"/finish_count@my_bot", "finish_count", true},
		{"/", "", false},
		{"#w", "", false},
		{"Received: 1 #USDT", "", false},
	}
	for _, tt := range tests {
		cmd, ok := parseCommand(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.cmd, cmd, tt.text)
	}
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	chunks := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, chunks)

	chunks = splitMessage("ééééééééééééé", 5)
	assert.Equal(t, []string{"ééééé", "ééééé", "ééé"}, chunks)

	long := strings.Repeat("line of text\n", 500)
	chunks = splitMessage(long, maxMessageLength)
	assert.Greater(t, len(chunks), 1)
	assert.Equal(t, long, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), maxMessageLength)
	}
}
