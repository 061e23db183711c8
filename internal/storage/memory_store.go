package storage

import (
	"slices"
	"sync"
)

// MemoryStore keeps slots in process memory. Nothing survives Close.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string][]byte),
	}
}

func (s *MemoryStore) Init() error { return nil }
func (s *MemoryStore) Load() error { return nil }

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) Read(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[key]
	return slices.Clone(data), ok, nil
}

func (s *MemoryStore) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = slices.Clone(data)
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return "memory"
}
