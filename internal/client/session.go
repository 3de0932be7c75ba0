// Package client is the Go consumer of the HTTP API. It owns the session
// lifecycle on the caller's side: the in-memory access token, the cookie jar
// holding the refresh cookie, and the single-flight refresh coordination that
// keeps concurrent requests from stampeding the refresh endpoint.
package client

import "sync"

// TokenStore holds the current access token. Access tokens live only in
// memory; the refresh token never passes through here because it travels as
// an httpOnly cookie managed by the transport's cookie jar.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore returns an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set replaces the stored access token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Get returns the stored access token, empty when logged out.
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Clear drops the stored access token.
func (s *TokenStore) Clear() {
	s.Set("")
}
