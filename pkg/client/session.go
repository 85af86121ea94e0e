package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"HostelAPI/internal/auth"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 128

// Session holds who is signed in and the responses cached for them.
// It is passed explicitly to every Client and Form that needs it.
type Session struct {
	mu    sync.RWMutex
	path  string
	state sessionState
	cache *lru.Cache[string, []byte]
}

type sessionState struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         *auth.User `json:"user,omitempty"`
}

// NewSession creates an in-memory session. cacheSize <= 0 disables the response cache.
func NewSession(cacheSize int) *Session {
	s := &Session{}
	if cacheSize > 0 {
		// Only fails for a non-positive size
		s.cache, _ = lru.New[string, []byte](cacheSize)
	}
	return s
}

// LoadSession restores a session persisted at path. A missing file yields a
// signed-out session that will persist to path on Set.
func LoadSession(path string) (*Session, error) {
	s := NewSession(defaultCacheSize)
	s.path = path

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Set stores the tokens from a login and persists them when the session has a path
func (s *Session) Set(pair *auth.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.state.RefreshToken = pair.RefreshToken
	}
	if pair.User != nil {
		s.state.User = pair.User
	}
	s.purge()
	return s.save()
}

// Clear signs out, dropping tokens, cached responses and the persisted file
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sessionState{}
	s.purge()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

func (s *Session) User() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

func (s *Session) SignedIn() bool {
	return s.AccessToken() != ""
}

func (s *Session) cached(key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *Session) remember(key string, body []byte) {
	if s.cache != nil {
		s.cache.Add(key, body)
	}
}

// Invalidate drops every cached response
func (s *Session) Invalidate() {
	s.purge()
}

func (s *Session) purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
