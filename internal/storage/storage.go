package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tiliavir/timeclock/internal/model"
)

// Keys of the persisted namespace.
const (
	KeyTimestamps    = "workTimestamps"
	KeyWorkdayLength = "workdayLength"
	KeyLanguage      = "selectedLanguage"
)

const stateFileName = "state.json"

// BaseDir returns the root data directory: $TIMECLOCK_HOME, or ~/.timeclock.
func BaseDir() (string, error) {
	if dir := os.Getenv("TIMECLOCK_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timeclock"), nil
}

// Store is a key/value namespace of JSON values kept in a single file.
// Every write rewrites the whole file atomically.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open returns a store rooted at base. The file is created lazily on first write.
func Open(base string) *Store {
	return &Store{path: filepath.Join(base, stateFileName)}
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// Get decodes the value stored under key into v. It reports false if the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return false, &model.PersistenceError{Op: "load", Key: key, Err: err}
	}
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &model.PersistenceError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// Put stores v under key.
func (s *Store) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &model.PersistenceError{Op: "encode", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return &model.PersistenceError{Op: "load", Key: key, Err: err}
	}
	values[key] = data
	if err := s.save(values); err != nil {
		return &model.PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return &model.PersistenceError{Op: "load", Key: key, Err: err}
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if err := s.save(values); err != nil {
		return &model.PersistenceError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *Store) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Back up corrupt file and abort.
		backupPath := s.path + ".corrupt"
		_ = os.Rename(s.path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", s.path, backupPath, err)
	}
	return values, nil
}

func (s *Store) save(values map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// LoadEvents returns the persisted clock events, or none.
func (s *Store) LoadEvents() ([]model.ClockEvent, error) {
	var events []model.ClockEvent
	if _, err := s.Get(KeyTimestamps, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveEvents persists the full event sequence.
func (s *Store) SaveEvents(events []model.ClockEvent) error {
	if events == nil {
		events = []model.ClockEvent{}
	}
	return s.Put(KeyTimestamps, events)
}

// ClearEvents removes the persisted event sequence.
func (s *Store) ClearEvents() error {
	return s.Delete(KeyTimestamps)
}

// LoadWorkdayLength returns the stored workday length in hours, or def when
// the key is absent or not a positive number.
func (s *Store) LoadWorkdayLength(def float64) (float64, error) {
	var hours float64
	ok, err := s.Get(KeyWorkdayLength, &hours)
	if err != nil || !ok || hours <= 0 {
		return def, err
	}
	return hours, nil
}

// SaveWorkdayLength persists the workday length in hours.
func (s *Store) SaveWorkdayLength(hours float64) error {
	return s.Put(KeyWorkdayLength, hours)
}

// LoadLanguage returns the stored locale tag, or def.
func (s *Store) LoadLanguage(def string) (string, error) {
	var lang string
	ok, err := s.Get(KeyLanguage, &lang)
	if err != nil || !ok || lang == "" {
		return def, err
	}
	return lang, nil
}

// SaveLanguage persists the locale tag.
func (s *Store) SaveLanguage(lang string) error {
	return s.Put(KeyLanguage, lang)
}
