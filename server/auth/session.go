// Package auth provides cookie-based session authentication: bcrypt password
// hashing, an in-memory session manager with TTL, and the echo middleware
// that resolves the acting user.
package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "kotoba_session"

// Session is one authenticated browser session.
type Session struct {
	Token     string
	UserID    int32
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager keeps sessions in memory. Sessions do not survive a server
// restart; clients simply sign in again.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager creates a session manager whose sessions expire after ttl.
// A background sweeper drops expired sessions so the map does not grow
// unboundedly.
func NewSessionManager(ttl time.Duration) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create starts a new session for the given user and returns it.
func (m *SessionManager) Create(userID int32) *Session {
	now := time.Now()
	session := &Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
	return session
}

// Get returns the session for the given token, or nil if the token is unknown
// or the session has expired.
func (m *SessionManager) Get(token string) *Session {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		m.Delete(token)
		return nil
	}
	return session
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (m *SessionManager) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Close stops the background sweeper.
func (m *SessionManager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *SessionManager) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for token, session := range m.sessions {
				if now.After(session.ExpiresAt) {
					delete(m.sessions, token)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}
