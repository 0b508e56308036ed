package server

import (
	"sort"
	"sync"

	"github.com/vango-dev/vbind/pkg/middleware"
)

// sessionManager tracks live sessions and enforces the session limit.
// Slots are reserved before the WebSocket upgrade so a full server can
// still answer with an HTTP error.
type sessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	reserved int
	max      int
}

func newSessionManager(max int) *sessionManager {
	return &sessionManager{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// reserve claims a slot or returns ErrMaxSessions.
func (m *sessionManager) reserve() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.max > 0 && len(m.sessions)+m.reserved >= m.max {
		return ErrMaxSessions
	}
	m.reserved++
	return nil
}

// release gives back a reserved slot that never became a session.
func (m *sessionManager) release() {
	m.mu.Lock()
	m.reserved--
	m.mu.Unlock()
}

// add turns a reserved slot into a live session.
func (m *sessionManager) add(s *Session) {
	m.mu.Lock()
	m.reserved--
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.onClose = m.remove
	middleware.RecordSessionStart()
}

func (m *sessionManager) remove(s *Session) {
	m.mu.Lock()
	_, ok := m.sessions[s.id]
	delete(m.sessions, s.id)
	m.mu.Unlock()

	if ok {
		middleware.RecordSessionEnd()
	}
}

func (m *sessionManager) get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *sessionManager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *sessionManager) ids() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// closeAll closes every session.
func (m *sessionManager) closeAll() {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	for _, s := range all {
		s.Close()
	}
}
