package session

import (
	"context"
	"sync"
	"time"
)

// Session is the per-login context handed to every handler. It lives from
// sign-in until logout or idle expiry; its context is cancelled at the end,
// which also stops the focus timer.
type Session struct {
	Token     string
	Username  string
	IsAdmin   bool
	CreatedAt time.Time
	Timer     *Timer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(token, username string, isAdmin bool, tick time.Duration, now time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		Token:     token,
		Username:  username,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		Timer:     NewTimer(tick),
		ctx:       ctx,
		cancel:    cancel,
		lastSeen:  now,
	}
}

// Context is cancelled when the session ends.
func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) close() {
	s.cancel()
	s.Timer.Stop()
}

// State is what the presentation layer shows about a session.
type State struct {
	LoggedIn bool          `json:"logged_in"`
	Username string        `json:"username"`
	IsAdmin  bool          `json:"is_admin"`
	Timer    TimerSnapshot `json:"timer"`
}

func (s *Session) State() State {
	return State{
		LoggedIn: true,
		Username: s.Username,
		IsAdmin:  s.IsAdmin,
		Timer:    s.Timer.Snapshot(),
	}
}
