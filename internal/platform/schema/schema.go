package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

// Type is the semantic type a field value is coerced into.
type Type int

const (
	String Type = iota
	UUID
	Bool
	Int
	StringList
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case UUID:
		return "uuid"
	case Bool:
		return "boolean"
	case Int:
		return "integer"
	case StringList:
		return "list of strings"
	default:
		return "unknown"
	}
}

// Field describes one expected payload field.
type Field struct {
	Name     string
	Type     Type
	Required bool
	// Rule is an optional validator tag checked after type coercion,
	// for example "url", "max=100" or "notblank". Required only means the
	// field is present and not null; an empty string satisfies it.
	Rule string
}

// Schema is an ordered table of field descriptors.
type Schema struct {
	Fields []Field
}

// New builds a schema from fields.
func New(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// PayloadField names the pseudo-field used for errors about the payload as
// a whole, such as malformed JSON.
const PayloadField = "_schema"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return v
}

// Validate coerces raw into a Record. Any failure is returned as *Errors
// listing every failing field in declaration order.
func (s Schema) Validate(raw map[string]any) (Record, error) {
	record := Record{values: make(map[string]any, len(s.Fields))}
	var errs Errors

	for _, field := range s.Fields {
		value, present := raw[field.Name]
		if !present || value == nil {
			if field.Required {
				errs.add(field.Name, "missing data for required field")
			}
			continue
		}

		coerced, reason := coerce(field.Type, value)
		if reason != "" {
			errs.add(field.Name, reason)
			continue
		}

		if field.Rule != "" {
			if err := validate.Var(ruleInput(coerced), field.Rule); err != nil {
				errs.add(field.Name, ruleReason(field.Rule, err))
				continue
			}
		}

		record.values[field.Name] = coerced
	}

	if errs.Len() > 0 {
		return Record{}, &errs
	}
	return record, nil
}

// DecodeJSON reads one JSON object from r and validates it.
func (s Schema) DecodeJSON(r io.Reader) (Record, error) {
	if r == nil {
		return Record{}, payloadError("request body is required")
	}
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, payloadError("request body is required")
		}
		return Record{}, payloadError("invalid JSON object")
	}
	return s.Validate(raw)
}

func payloadError(reason string) *Errors {
	var errs Errors
	errs.add(PayloadField, reason)
	return &errs
}

func coerce(t Type, value any) (any, string) {
	switch t {
	case String:
		s, ok := value.(string)
		if !ok {
			return nil, "not a valid string"
		}
		return s, ""
	case UUID:
		s, ok := value.(string)
		if !ok {
			return nil, "not a valid UUID"
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, "not a valid UUID"
		}
		return id, ""
	case Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, "not a valid boolean"
		}
		return b, ""
	case Int:
		return coerceInt(value)
	case StringList:
		return coerceStringList(value)
	default:
		return nil, fmt.Sprintf("unsupported field type %d", t)
	}
}

func coerceInt(value any) (any, string) {
	switch v := value.(type) {
	case int:
		return int64(v), ""
	case int64:
		return v, ""
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, "not a valid integer"
		}
		return n, ""
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, "not a valid integer"
		}
		return int64(v), ""
	default:
		return nil, "not a valid integer"
	}
}

func coerceStringList(value any) (any, string) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), ""
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, "not a valid list of strings"
			}
			out = append(out, s)
		}
		return out, ""
	default:
		return nil, "not a valid list of strings"
	}
}

// ruleInput adapts coerced values to something validator tags understand.
func ruleInput(value any) any {
	if id, ok := value.(uuid.UUID); ok {
		return id.String()
	}
	return value
}

func ruleReason(rule string, err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
	return "failed " + rule
}
