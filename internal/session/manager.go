package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/filldesk/mcp-pdf-form-filler/internal/pdf"
)

// Manager owns the live wizard sessions, keyed by id. Sessions are created
// on first upload and removed explicitly or at teardown.
type Manager struct {
	svc       *pdf.Service
	debugMode bool

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager backed by the given document
// service.
func NewManager(svc *pdf.Service, debugMode bool) *Manager {
	return &Manager{
		svc:       svc,
		debugMode: debugMode,
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new session in the upload state.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.svc, m.debugMode)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	return s, nil
}

// Remove resets the session, releasing its resources, and forgets it.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown session: %s", id)
	}
	return s.Reset()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close resets every live session at teardown so preview resources are
// released exactly once.
func (m *Manager) Close() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.Reset(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
