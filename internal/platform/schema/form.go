package schema

import (
	"net/url"
	"strconv"
	"strings"
)

// ValidateForm validates submitted HTML form values. Form values are always
// text, so Bool and Int fields are parsed first; an empty value counts as
// absent. Checkboxes that were not ticked are absent and read as false.
func (s Schema) ValidateForm(values url.Values) (Record, error) {
	raw := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		submitted, ok := values[field.Name]
		if !ok || len(submitted) == 0 {
			if field.Type == Bool {
				raw[field.Name] = false
			}
			continue
		}
		if field.Type == StringList {
			raw[field.Name] = nonEmpty(submitted)
			continue
		}
		value := strings.TrimSpace(submitted[0])
		if value == "" {
			continue
		}
		raw[field.Name] = formValue(field.Type, value)
	}
	return s.Validate(raw)
}

func formValue(t Type, value string) any {
	switch t {
	case Bool:
		switch strings.ToLower(value) {
		case "on", "true", "1", "yes":
			return true
		case "off", "false", "0", "no":
			return false
		}
		return value
	case Int:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		return value
	default:
		return value
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
