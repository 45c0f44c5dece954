// Package storage holds the errors shared by every persistence backend.
//
// Service packages declare the narrow store interfaces they need and
// translate these errors into their own domain errors.
package storage

import "github.com/louisbranch/lanparty/internal/platform/errors"

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New(errors.CodeNotFound, "record not found")
	// ErrConflict indicates a uniqueness constraint rejected a write.
	ErrConflict = errors.New(errors.CodeConflict, "record conflicts with an existing record")
)
