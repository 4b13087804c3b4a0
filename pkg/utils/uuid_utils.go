package utils

import (
	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// NewID returns a time ordered UUID v7 so primary keys sort by creation.
// It falls back to v4 if the v7 generator fails.
func NewID() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}
