// Package id generates entity identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a random (version 4) UUID.
func NewID() (uuid.UUID, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return value, nil
}

// NewToken returns a random opaque token string, used for session IDs.
func NewToken() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return value.String(), nil
}

// Parse parses a UUID in canonical or braced form.
func Parse(value string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", value, err)
	}
	return parsed, nil
}
