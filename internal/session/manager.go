package session

// #region imports
import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/triage-engine/internal/question"
)

// #endregion

// #region manager

// Manager owns live sessions and serializes access per session, so turns
// for one conversation apply strictly in arrival order while different
// conversations proceed without contention.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu sync.Mutex
	s  *Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*entry)}
}

// #endregion

// #region create

// Create starts a fresh session and returns its id.
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String())
	m.mu.Lock()
	m.sessions[s.ID] = &entry{s: s}
	m.mu.Unlock()
	return s
}

func newSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Asked:     make(map[question.ID]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// #endregion

// #region with

// With runs fn while holding the session's lock, creating the session on
// first use of an unknown id. The callback must not block on I/O.
func (m *Manager) With(id string, fn func(*Session)) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{s: newSession(id)}
		m.sessions[id] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.s)
	e.s.UpdatedAt = time.Now().UTC()
}

// Snapshot returns a copy of the session state, or false if unknown.
func (m *Manager) Snapshot(id string) (Session, bool) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.s, true
}

// #endregion
