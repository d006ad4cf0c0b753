package utils

import "github.com/google/uuid"

// NewID returns a random identifier for a connection.
// It is only used as a lookup key and never shown to other users.
func NewID() string {
	return uuid.NewString()
}
