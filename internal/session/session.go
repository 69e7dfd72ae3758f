// Package session holds the credential state for one signed-in HRChat run.
// The session lives for the lifetime of the process and is never written to
// disk; it is passed explicitly to every component that issues protected
// requests.
package session

import (
	"errors"
	"sync"

	"hrchat/internal/logger"
)

// ErrNotAuthenticated is returned when a protected operation is attempted
// without an established session. Callers treat it as fatal to the session
// and return the user to sign-in.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the credential holder: an authentication flag plus the bearer
// token the conversation store issued at sign-in.
type Session struct {
	mu            sync.RWMutex
	authenticated bool
	token         string
}

// New returns an anonymous session.
func New() *Session {
	return &Session{}
}

// Establish stores the bearer token and marks the session authenticated.
// Called after a successful login or OTP verification.
func (s *Session) Establish(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.token = token
	logger.Debug("Session established")
}

// Clear wipes all credential state, returning the session to anonymous.
// Called on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.token = ""
	logger.Debug("Session cleared")
}

// Authenticated reports whether a credential is currently held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the bearer token, or ErrNotAuthenticated when the session is
// anonymous.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.authenticated || s.token == "" {
		return "", ErrNotAuthenticated
	}
	return s.token, nil
}
