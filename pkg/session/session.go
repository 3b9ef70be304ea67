// Package session holds the credential state shared between a client
// application and the repository layer: the cached access/refresh token pair
// plus the caller-owned observer callbacks notified when tokens change.
package session

import "sync"

// Credentials is the access/refresh token pair.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refresh_token"`
}

// Callbacks are the caller-supplied observers. UpdateTokens fires after a
// successful refresh; ClearSession fires when the refresh flow decides the
// stored credentials are no longer usable and the user must re-authenticate.
// Either may be nil.
type Callbacks struct {
	UpdateTokens func(access, refresh string)
	ClearSession func()
}

// Session caches credentials for the repository and notifies the callbacks
// on mutation. Credentials mutate only through Update/Clear, which the
// repository drives from its token refresh flow.
//
// Concurrent refreshes are not coalesced: parallel in-flight requests that
// each hit a 401 may each trigger a refresh, and the last Update wins. The
// mutex only guarantees each read/write is atomic.
type Session struct {
	mu    sync.RWMutex
	creds Credentials
	cb    Callbacks
}

// New creates a session seeded with the given credentials.
func New(creds Credentials, cb Callbacks) *Session {
	return &Session{creds: creds, cb: cb}
}

// AccessToken returns the cached access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken
}

// RefreshToken returns the cached refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken
}

// Credentials returns a copy of the cached pair.
func (s *Session) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Update stores a new token pair and notifies UpdateTokens.
func (s *Session) Update(access, refresh string) {
	s.mu.Lock()
	s.creds = Credentials{AccessToken: access, RefreshToken: refresh}
	cb := s.cb.UpdateTokens
	s.mu.Unlock()

	if cb != nil {
		cb(access, refresh)
	}
}

// Clear discards the cached pair and notifies ClearSession.
func (s *Session) Clear() {
	s.mu.Lock()
	s.creds = Credentials{}
	cb := s.cb.ClearSession
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}
