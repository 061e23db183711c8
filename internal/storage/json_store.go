package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Document is the on-disk layout of a JSON store
type Document struct {
	Version int               `json:"version"`
	Slots   map[string]string `json:"slots"`
}

// JSONStore keeps all slots in a single JSON document on disk. Every Read goes
// back to the file so that changes written by another process are observed.
type JSONStore struct {
	path   string
	mu     sync.Mutex
	loaded bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.save(&Document{Version: 1, Slots: make(map[string]string)}); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitual init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	return nil
}

func (s *JSONStore) Read(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, false, ErrNotLoaded
	}

	doc, err := s.read()
	if err != nil {
		return nil, false, err
	}

	value, ok := doc.Slots[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (s *JSONStore) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	doc, err := s.read()
	if err != nil {
		// An unreadable document is replaced rather than merged
		doc = &Document{Version: 1}
	}
	if doc.Slots == nil {
		doc.Slots = make(map[string]string)
	}

	doc.Slots[key] = string(data)
	return s.save(doc)
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{Version: 1, Slots: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrStorageUnreadable, s.path, err)
	}
	return doc, nil
}

// save writes the document to a temporary file and renames it into place so
// readers never observe a partially written file.
func (s *JSONStore) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}
