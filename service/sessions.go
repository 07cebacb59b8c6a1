package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"contractpro/config"
	"contractpro/model"
)

// Session registry errors
var (
	ErrSessionNotFound = errors.New("upload session not found")
	ErrSessionBusy     = errors.New("upload session has transfers in progress")
)

// SessionManager tracks live upload sessions by id so the HTTP surface
// can address them across requests
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*UploadSession
	cfg        config.UploadConfig
	outcome    Outcome
	onComplete func(model.UploadStats)
	maxIdle    time.Duration
}

// NewSessionManager creates a registry. A nil outcome means every new
// session gets its own random default.
func NewSessionManager(cfg config.UploadConfig, outcome Outcome) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*UploadSession),
		cfg:      cfg,
		outcome:  outcome,
		maxIdle:  time.Hour,
	}
}

// SetOnComplete registers a completion callback attached to every
// session created afterwards
func (m *SessionManager) SetOnComplete(fn func(model.UploadStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onComplete = fn
}

// Create registers a new upload session and returns it
func (m *SessionManager) Create() *UploadSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()

	s := NewUploadSession(m.cfg, m.outcome)
	if m.onComplete != nil {
		s.OnComplete(m.onComplete)
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns a session by id, or ErrSessionNotFound
func (m *SessionManager) Get(id string) (*UploadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session from the registry. Busy sessions cannot be
// removed; started transfers always run to a terminal state.
func (m *SessionManager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Busy() {
		return ErrSessionBusy
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// pruneLocked evicts idle sessions past their age limit.
// Must be called with the mutex held.
func (m *SessionManager) pruneLocked() {
	if m.maxIdle <= 0 {
		return
	}
	cutoff := time.Now().Add(-m.maxIdle)
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) && !s.Busy() {
			slog.Info("evicting idle upload session", "session_id", id)
			delete(m.sessions, id)
		}
	}
}
