package storage

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7 string: a millisecond timestamp
// followed by random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
