// Package state implements the durable, best-effort, crash-tolerant
// key-value store every job and the scheduler anchor idempotency and
// cooldown decisions on. The store is schema-oblivious: it loads to a
// generic map, mutates it, and serializes the whole map back, so unknown
// keys written by other jobs or other processes always round-trip.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// Store is a single-process, single-writer JSON key-value file. It is
// not concurrency-safe across processes; overlapping ticks are the
// caller's responsibility to avoid (last-writer-wins, no locking).
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]interface{}
}

// Open loads path into memory, treating a missing, empty, or malformed
// file as an empty map rather than refusing to start.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]interface{}{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = map[string]interface{}{}
			return nil
		}
		return nil // unreadable file: treat as empty
	}
	if len(raw) == 0 {
		s.data = map[string]interface{}{}
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		// Corrupt content is treated as empty, not a fatal error.
		s.data = map[string]interface{}{}
		return nil
	}
	s.data = m
	return nil
}

// Get returns the raw value for key, or (nil, false) if absent. A read
// never errors: a missing or corrupt underlying file was already
// normalized to an empty map at Open time.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString returns the string value for key, or ("", false) if absent
// or not a string.
func (s *Store) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Set stores value under key and atomically persists the whole map:
// write to a sibling temp file, then rename over the target so a reader
// in another process never observes a partial write.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persistLocked()
}

// GetTime returns the epoch-ms timestamp stored at key, or (0, false) if
// the value is absent or not numeric.
func (s *Store) GetTime(key string) (int64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// SetTime stores an epoch-ms timestamp at key.
func (s *Store) SetTime(key string, epochMs int64) error {
	return s.Set(key, epochMs)
}

// Clear replaces the file with the empty map.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]interface{}{}
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return awerrors.State("failed to marshal state", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return awerrors.State("failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return awerrors.State("failed to create temp state file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return awerrors.State("failed to write temp state file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return awerrors.State("failed to sync temp state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return awerrors.State("failed to close temp state file", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return awerrors.State("failed to rename temp state file into place", err)
	}
	return nil
}

// DefaultPath returns $HOME/.aw-analyzer/state.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aw-analyzer", "state.json"), nil
}
