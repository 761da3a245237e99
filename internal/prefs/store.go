package prefs

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store is a small on-disk key-value store for UI preferences: favorites,
// watchlists, panel layout, order ticket drafts. Values are opaque JSON.
// Best effort throughout, a missing or corrupt file simply means defaults;
// persistence failures are logged, never surfaced to the caller.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

func Open(path string) *Store {
	s := &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("unable to read preferences, starting empty", "path", path, "error", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		slog.Warn("preferences file is corrupt, starting empty", "path", path, "error", err)
		s.values = make(map[string]json.RawMessage)
	}
	return s
}

func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	return value, ok
}

func (s *Store) Put(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.persist()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.persist()
}

func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	return keys
}

// persist writes the whole map through a temp file and rename, so a crash
// mid-write never leaves a truncated prefs file. Caller holds the lock.
func (s *Store) persist() {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		slog.Warn("unable to marshal preferences", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		slog.Warn("unable to create preferences directory", "error", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Warn("unable to write preferences", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		slog.Warn("unable to replace preferences file", "path", s.path, "error", err)
	}
}
