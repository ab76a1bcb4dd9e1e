package vault

import (
	"encoding/json"
	"fmt"
	"sync"

	"travel-vault-server/internal/model"
	"travel-vault-server/internal/storage"
)

// sessionState is the persisted shape of the auth session. The loading flag
// is transient and never written.
type sessionState struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// SessionStore holds the single signed-in user. A new login replaces any
// existing session.
type SessionStore struct {
	queue *storage.Queue
	key   string

	mu      sync.RWMutex
	state   sessionState
	loading bool
}

func NewSessionStore(queue *storage.Queue, namespace string) *SessionStore {
	return &SessionStore{queue: queue, key: namespace + "-auth"}
}

// Load restores the persisted session. An absent or corrupt snapshot leaves
// the store signed out.
func (s *SessionStore) Load() error {
	data, ok, err := s.queue.Get(s.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok {
		return nil
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	if state.User == nil {
		state.IsAuthenticated = false
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Login installs user as the signed-in session and schedules a durable write.
func (s *SessionStore) Login(user model.User) {
	s.mu.Lock()
	u := user
	s.state = sessionState{User: &u, IsAuthenticated: true}
	s.loading = false
	s.persistLocked()
	s.mu.Unlock()
}

// Logout clears the session. Signing out while signed out is a no-op.
func (s *SessionStore) Logout() {
	s.mu.Lock()
	s.state = sessionState{}
	s.loading = false
	s.persistLocked()
	s.mu.Unlock()
}

// SetLoading marks a sign-in exchange in progress. The flag is transient.
func (s *SessionStore) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current returns the signed-in user, if any.
func (s *SessionStore) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return model.User{}, false
	}
	return *s.state.User, true
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated && s.state.User != nil
}

func (s *SessionStore) persistLocked() {
	data, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	s.queue.Put(s.key, data)
}
