package client

import "sync"

// TokenSource supplies the access token for the next request. An empty
// string means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a settable TokenSource for callers that do not keep a
// session (scripts, tests).
type StaticToken struct {
	mu    sync.RWMutex
	token string
}

// SetAuthToken replaces the token; "" removes it.
func (s *StaticToken) SetAuthToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *StaticToken) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

type noToken struct{}

func (noToken) AccessToken() string { return "" }
