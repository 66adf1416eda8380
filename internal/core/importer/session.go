package importer

import (
	"sync"
	"time"

	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Row is one previewed remote recipe in an import session.
type Row struct {
	RemoteID   string `json:"remote_id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Status     Status `json:"status"`
	Selectable bool   `json:"selectable"`
	Message    string `json:"message,omitempty"`
}

// Session holds the state of one import preview: the normalized source
// URL, the rows fetched so far, and the page counter used to fetch more.
// Rows are append-only; fetching more never replaces earlier rows.
type Session struct {
	ID      string `json:"id"`
	BaseURL string `json:"base_url"`
	Page    int    `json:"page"`
	Rows    []Row  `json:"rows"`
	Footer  bool   `json:"footer"`

	createdAt  time.Time
	lastAccess time.Time
}

// SessionManager keeps import preview sessions in memory with TTL expiry
// and LRU eviction when full.
type SessionManager struct {
	cfg   config.SessionConfig
	mu    sync.RWMutex
	store map[string]*Session
	done  chan struct{}
}

// NewSessionManager creates a session manager and starts its cleanup
// goroutine.
func NewSessionManager(cfg config.SessionConfig) *SessionManager {
	m := &SessionManager{
		cfg:   cfg,
		store: make(map[string]*Session),
		done:  make(chan struct{}),
	}

	go m.startCleanup()

	common.LogInfo("session manager initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// Create stores a new session for the given source URL and returns it.
func (m *SessionManager) Create(baseURL string, rows []Row) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.cfg.MaxSize {
		if m.cleanup() == 0 || len(m.store) >= m.cfg.MaxSize {
			m.evictLRU()
		}
	}

	now := time.Now()
	s := &Session{
		ID:         uuid.New().String(),
		BaseURL:    baseURL,
		Page:       1,
		Rows:       rows,
		Footer:     true,
		createdAt:  now,
		lastAccess: now,
	}
	m.store[s.ID] = s

	common.LogDebug("import session created",
		zap.String("session_id", s.ID),
		zap.String("base_url", baseURL),
		zap.Int("rows", len(rows)),
	)

	return s
}

// Snapshot returns a copy of the session, or nil when the id is unknown or
// the session has expired.
func (m *SessionManager) Snapshot(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.store[id]
	if !ok {
		return nil
	}
	if time.Since(s.lastAccess) > m.cfg.TTL {
		delete(m.store, id)
		return nil
	}
	s.lastAccess = time.Now()

	copied := *s
	copied.Rows = make([]Row, len(s.Rows))
	copy(copied.Rows, s.Rows)
	return &copied
}

// Append adds rows to a session and advances its page counter. It reports
// whether the session was still alive.
func (m *SessionManager) Append(id string, page int, rows []Row) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.store[id]
	if !ok {
		return false
	}
	s.Page = page
	s.Rows = append(s.Rows, rows...)
	s.lastAccess = time.Now()
	return true
}

func (m *SessionManager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup removes expired sessions. Callers hold the write lock.
func (m *SessionManager) cleanup() int {
	now := time.Now()
	count := 0

	for id, s := range m.store {
		if now.Sub(s.lastAccess) > m.cfg.TTL {
			delete(m.store, id)
			count++
		}
	}

	if count > 0 {
		common.LogDebug("cleaned up expired import sessions",
			zap.Int("count", count),
			zap.Int("remaining", len(m.store)),
		)
	}

	return count
}

// evictLRU drops the least recently used session. Callers hold the write
// lock.
func (m *SessionManager) evictLRU() {
	var oldestID string
	var oldestAccess time.Time

	for id, s := range m.store {
		if oldestID == "" || s.lastAccess.Before(oldestAccess) {
			oldestID = id
			oldestAccess = s.lastAccess
		}
	}

	if oldestID != "" {
		delete(m.store, oldestID)
		common.LogDebug("evicted import session",
			zap.String("session_id", oldestID),
		)
	}
}

// Close stops the cleanup goroutine and drops all sessions.
func (m *SessionManager) Close() error {
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]*Session)
	return nil
}
