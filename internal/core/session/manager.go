package session

import (
	"sort"
	"sync"
	"time"

	"github.com/penwyp/go-tx-ledger/internal/util"
)

// Session is the per-chat state: one engine plus what the transport needs to
// edit its previous status reply.
type Session struct {
	ChatID int64
	Engine *Engine

	mu                  sync.Mutex
	lastStatusMessageID int
	lastSeen            time.Time
}

// LastStatusMessageID returns the id of the last status reply, 0 if none.
func (s *Session) LastStatusMessageID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStatusMessageID
}

// SetLastStatusMessageID remembers the status reply to edit next time.
func (s *Session) SetLastStatusMessageID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatusMessageID = id
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Manager owns one Session per chat. Sessions are created on first use and
// never share a lock with each other.
type Manager struct {
	opts  Options
	clock util.Clock

	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewManager creates a registry whose engines are built from opts.
func NewManager(opts Options) *Manager {
	clock := opts.Clock
	if clock == nil {
		clock = util.GetTimeProvider()
	}
	return &Manager{
		opts:     opts,
		clock:    clock,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the chat's session, creating it if needed.
func (m *Manager) Get(chatID int64) *Session {
	now := m.clock.Now()

	m.mu.RLock()
	s, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if ok {
		s.touch(now)
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok = m.sessions[chatID]; !ok {
		s = &Session{ChatID: chatID, Engine: NewEngine(m.opts)}
		m.sessions[chatID] = s
		util.LogDebug("Session created", util.F("chat", chatID))
	}
	s.touch(now)
	return s
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(chatID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// Drop tears a session down. It reports whether one existed.
func (m *Manager) Drop(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[chatID]; !ok {
		return false
	}
	delete(m.sessions, chatID)
	util.LogDebug("Session dropped", util.F("chat", chatID))
	return true
}

// Evict drops every session idle for longer than ttl and returns their chat
// ids in ascending order. A non-positive ttl disables eviction.
func (m *Manager) Evict(ttl time.Duration) []int64 {
	if ttl <= 0 {
		return nil
	}
	cutoff := m.clock.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []int64
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	sort.Slice(evicted, func(i, j int) bool { return evicted[i] < evicted[j] })
	if len(evicted) > 0 {
		util.LogInfo("Evicted idle sessions", util.F("count", len(evicted)))
	}
	return evicted
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
