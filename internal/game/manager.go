package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager tracks the active sessions, addressed by ID.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
	logger      *zap.Logger
}

// NewManager creates a session manager. maxSessions <= 0 means unlimited.
func NewManager(maxSessions int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Create starts a new session. An empty cfg.ID gets a generated UUID.
func (m *Manager) Create(cfg SessionConfig) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("session limit reached (%d)", m.maxSessions)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if _, exists := m.sessions[cfg.ID]; exists {
		return nil, fmt.Errorf("session %s already exists", cfg.ID)
	}
	if cfg.Logger == nil {
		cfg.Logger = m.logger
	}

	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	m.sessions[cfg.ID] = s
	m.logger.Info("session created",
		zap.String("session_id", cfg.ID),
		zap.String("player1", cfg.Players[0].Name),
		zap.String("player2", cfg.Players[1].Name),
	)
	return s, nil
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session. Abandoning a session needs no engine-side cleanup.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.logger.Info("session removed", zap.String("session_id", id))
	}
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs lists the active session IDs.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	return out
}
