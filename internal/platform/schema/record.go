package schema

import "github.com/google/uuid"

// Record holds coerced field values of a validated payload. Optional fields
// that were absent are missing from the record and read as zero values.
type Record struct {
	values map[string]any
}

// Has reports whether the field was present in the payload.
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

func (r Record) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

func (r Record) UUID(name string) uuid.UUID {
	v, _ := r.values[name].(uuid.UUID)
	return v
}

func (r Record) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

func (r Record) Int(name string) int64 {
	v, _ := r.values[name].(int64)
	return v
}

func (r Record) StringList(name string) []string {
	v, _ := r.values[name].([]string)
	return v
}
