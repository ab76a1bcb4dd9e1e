package vault

import (
	"encoding/json"
	"fmt"
	"sync"

	"travel-vault-server/internal/model"
	"travel-vault-server/internal/storage"
)

// SettingsStore holds app-wide preferences. Dark mode defaults to on.
type SettingsStore struct {
	queue *storage.Queue
	key   string

	mu       sync.RWMutex
	settings model.Settings
}

func NewSettingsStore(queue *storage.Queue, namespace string) *SettingsStore {
	return &SettingsStore{
		queue:    queue,
		key:      namespace + "-settings",
		settings: model.Settings{DarkMode: true},
	}
}

// Load replaces the working copy with the persisted snapshot. An absent key
// keeps the defaults.
func (s *SettingsStore) Load() error {
	data, ok, err := s.queue.Get(s.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok {
		return nil
	}

	var settings model.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *SettingsStore) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsStore) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.DarkMode
}

// Set replaces the settings and schedules a durable write.
func (s *SettingsStore) Set(settings model.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.persistLocked()
	s.mu.Unlock()
}

// ToggleDarkMode flips the theme and returns the new settings.
func (s *SettingsStore) ToggleDarkMode() model.Settings {
	s.mu.Lock()
	s.settings.DarkMode = !s.settings.DarkMode
	s.persistLocked()
	out := s.settings
	s.mu.Unlock()
	return out
}

func (s *SettingsStore) persistLocked() {
	data, err := json.Marshal(s.settings)
	if err != nil {
		return
	}
	s.queue.Put(s.key, data)
}
