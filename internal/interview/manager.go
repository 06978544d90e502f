package interview

// #region imports
import (
	"sync"

	"github.com/google/uuid"
)

// #endregion

// #region manager

// Manager owns live interviews and serializes access per interview, so
// turns for one interview apply strictly in arrival order. Interview
// itself is not safe for concurrent use; every caller goes through With.
type Manager struct {
	mu         sync.Mutex
	interviews map[string]*managed
}

type managed struct {
	mu sync.Mutex
	iv *Interview
}

// NewManager creates an empty interview manager.
func NewManager() *Manager {
	return &Manager{interviews: make(map[string]*managed)}
}

// #endregion

// #region add

// Add registers an interview and returns its id. The caller must not
// touch the interview directly after handing it over.
func (m *Manager) Add(iv *Interview) string {
	id := uuid.New().String()
	m.mu.Lock()
	m.interviews[id] = &managed{iv: iv}
	m.mu.Unlock()
	return id
}

// #endregion

// #region with

// With runs fn while holding the interview's lock. Returns false when
// the id is unknown; unlike sessions, interviews are never created
// implicitly because they need a complaint configuration.
func (m *Manager) With(id string, fn func(*Interview)) bool {
	m.mu.Lock()
	e, ok := m.interviews[id]
	m.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.iv)
	return true
}

// #endregion
