package storage

import "errors"

var (
	// ErrNotFound is returned when a mutation targets an id absent from the collection
	ErrNotFound = errors.New("habit not found")
	// ErrStorageUnreadable is returned when persisted data cannot be parsed
	ErrStorageUnreadable = errors.New("storage unreadable")
	// ErrNotLoaded is returned when a provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists named slots of serialized data. Each slot holds one opaque
// value that is always overwritten whole, so a Write is a single replace from the
// caller's perspective.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	// Read returns the value of the slot and whether it exists. Read always
	// reflects the latest persisted value, including writes made by other processes.
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error

	// Utils
	GetConfigPath() string
}
