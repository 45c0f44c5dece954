package schema

import (
	"strings"
)

// FieldError names a failing field and why it failed.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Errors aggregates every field failure of one validation run.
type Errors struct {
	Fields []FieldError `json:"errors"`
}

func (e *Errors) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Len returns the number of field failures.
func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Fields)
}

// Has reports whether field failed validation.
func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	for _, fe := range e.Fields {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (e *Errors) Error() string {
	if e.Len() == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
