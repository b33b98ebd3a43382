package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"clipwright/internal/logging"
	"clipwright/internal/services"
)

// ErrSessionNotFound reports an unknown session id.
var ErrSessionNotFound = fmt.Errorf("%w: session not found", services.ErrNotFound)

// Manager holds independent sessions keyed by id.
type Manager struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewManager creates an empty manager whose sessions share deps.
func NewManager(deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	return &Manager{deps: deps, sessions: make(map[string]*Session)}
}

// Create starts a new session.
func (m *Manager) Create(name string) *Session {
	s := New(name, m.deps)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.order = append(m.order, s.ID())
	m.mu.Unlock()
	s.logger.Info("session created",
		logging.EventType("session_created"),
		logging.String("name", s.Name()),
	)
	return s
}

// Get returns the session with id or ErrSessionNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[strings.TrimSpace(id)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete cancels any render of the session and forgets it.
func (m *Manager) Delete(id string) error {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.order = slices.DeleteFunc(m.order, func(v string) bool { return v == id })
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	s.Close()
	s.logger.Info("session closed", logging.EventType("session_closed"))
	return nil
}

// List returns every session, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sessions[id])
	}
	return out
}

// Close cancels the renders of every session.
func (m *Manager) Close() {
	for _, s := range m.List() {
		s.Close()
	}
}
