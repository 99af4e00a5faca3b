package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ManagerConfig struct {
	TTL          time.Duration
	TickInterval time.Duration
}

// Manager owns the live sessions of the process. Sessions are in memory
// only; a restart signs everyone out and drops running timers.
type Manager struct {
	cfg    ManagerConfig
	logger zerolog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cfg ManagerConfig, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Create(username string, isAdmin bool) *Session {
	s := newSession(uuid.New().String(), username, isAdmin, m.cfg.TickInterval, m.now())

	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()

	m.logger.Info().
		Str("username", username).
		Bool("admin", isAdmin).
		Msg("Session created")

	return s
}

// Get returns a live session and refreshes its idle deadline. An expired
// session is destroyed on the spot.
func (m *Manager) Get(token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}

	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if m.expired(s, now) {
		m.Destroy(token)
		return nil, false
	}

	s.touch(now)
	return s, true
}

func (m *Manager) Destroy(token string) bool {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if !ok {
		return false
	}

	s.close()
	m.logger.Info().Str("username", s.Username).Msg("Session destroyed")
	return true
}

// Sweep destroys every expired session and reports how many went.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	var stale []*Session
	for token, s := range m.sessions {
		if m.expired(s, now) {
			stale = append(stale, s)
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.close()
	}

	if len(stale) > 0 {
		m.logger.Info().Int("expired", len(stale)).Msg("Expired sessions swept")
	}
	return len(stale)
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Debug().Dur("interval", interval).Msg("Session janitor started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug().Msg("Session janitor stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close destroys all sessions.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.cfg.TTL > 0 && now.Sub(s.LastSeen()) > m.cfg.TTL
}
