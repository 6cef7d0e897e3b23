// Package session tracks connected clients and their leases. A client
// session is transport-level state only; game state lives in the game
// package.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one connected client.
type Session struct {
	ID         string
	PlayerName string
	GameID     string
	CreatedAt  time.Time
	LastSeen   time.Time
}

// Manager tracks client sessions and expires the ones whose lease lapsed.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	leasePeriod time.Duration
	logger      *zap.Logger
}

// NewManager creates a session manager with the given lease period.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if leasePeriod <= 0 {
		leasePeriod = 5 * time.Minute
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		leasePeriod: leasePeriod,
		logger:      logger,
	}
}

// Register creates a session for a newly connected client.
func (m *Manager) Register(playerName string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		PlayerName: playerName,
		CreatedAt:  now,
		LastSeen:   now,
	}
	m.sessions[s.ID] = s
	m.logger.Debug("client session registered",
		zap.String("session_id", s.ID),
		zap.String("player", playerName),
	)
	return s
}

// Get returns a session by ID, renewing its lease.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.LastSeen = time.Now()
	}
	return s, ok
}

// Bind associates a client session with a game.
func (m *Manager) Bind(id, gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.GameID = gameID
		s.LastSeen = time.Now()
	}
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions drops sessions whose lease lapsed. Runs until the
// context is canceled.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(m.leasePeriod / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.expire()
		}
	}
}

func (m *Manager) expire() {
	cutoff := time.Now().Add(-m.leasePeriod)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.logger.Info("client session expired",
				zap.String("session_id", id),
				zap.String("player", s.PlayerName),
			)
		}
	}
}

// CloseAll drops every session. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
}
