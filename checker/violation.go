package checker

import (
	"fmt"
	"strconv"
)

// ViolationKind classifies a single contract violation.
type ViolationKind int

const (
	// StatusMismatch means the observed HTTP status differs from the expected one.
	StatusMismatch ViolationKind = iota + 1
	// MissingBody means a body was required but absent or not valid JSON.
	MissingBody
	// MissingRequiredField means a required object property is absent.
	MissingRequiredField
	// TypeMismatch means the JSON type of a value differs from the declared type.
	TypeMismatch
	// UnexpectedNull means a null value where the schema does not allow one.
	UnexpectedNull
)

// String returns the name of the violation kind.
func (k ViolationKind) String() string {
	switch k {
	case StatusMismatch:
		return "StatusMismatch"
	case MissingBody:
		return "MissingBody"
	case MissingRequiredField:
		return "MissingRequiredField"
	case TypeMismatch:
		return "TypeMismatch"
	case UnexpectedNull:
		return "UnexpectedNull"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ViolationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Violation describes one place where a response breaks its contract.
type Violation struct {
	// Kind classifies the violation
	Kind ViolationKind `json:"kind" yaml:"kind"`
	// Path is the JSON path of the offending value, e.g. "$.data[2].attributes.term"
	Path string `json:"path" yaml:"path"`
	// Field is the property name involved, when there is one
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Expected describes what the contract requires
	Expected string `json:"expected" yaml:"expected"`
	// Actual describes what the response contained
	Actual string `json:"actual" yaml:"actual"`
	// Message is a human-readable description
	Message string `json:"message" yaml:"message"`
}

// String returns a one-line representation of the violation.
func (v Violation) String() string {
	return fmt.Sprintf("✗ %s %s: %s", v.Kind, v.Path, v.Message)
}

func statusMismatch(expected, actual int) Violation {
	return Violation{
		Kind:     StatusMismatch,
		Path:     "status",
		Expected: strconv.Itoa(expected),
		Actual:   strconv.Itoa(actual),
		Message:  fmt.Sprintf("expected=%d, actual=%d", expected, actual),
	}
}

func missingBody(path string, schema *Schema) Violation {
	return Violation{
		Kind:     MissingBody,
		Path:     path,
		Expected: schema.Describe(),
		Actual:   "absent",
		Message:  "response body is empty or not valid JSON",
	}
}

func missingRequired(path, field string, schema *Schema) Violation {
	return Violation{
		Kind:     MissingRequiredField,
		Path:     path,
		Field:    field,
		Expected: schema.Describe(),
		Actual:   "absent",
		Message:  fmt.Sprintf("required property %q is missing", field),
	}
}

func typeMismatch(path, field string, schema *Schema, data any) Violation {
	return Violation{
		Kind:     TypeMismatch,
		Path:     path,
		Field:    field,
		Expected: schema.Describe(),
		Actual:   dataType(data),
		Message:  fmt.Sprintf("expected type %s but got %s", schema.Describe(), describeValue(data)),
	}
}

func fractionalInteger(path, field string, schema *Schema, f float64) Violation {
	return Violation{
		Kind:     TypeMismatch,
		Path:     path,
		Field:    field,
		Expected: schema.Describe(),
		Actual:   "number",
		Message:  fmt.Sprintf("value must be an integer, got %v", f),
	}
}

func unexpectedNull(path, field, expected string) Violation {
	return Violation{
		Kind:     UnexpectedNull,
		Path:     path,
		Field:    field,
		Expected: expected,
		Actual:   "null",
		Message:  "value cannot be null",
	}
}

// describeValue renders a short, bounded description of a JSON value.
func describeValue(data any) string {
	switch d := data.(type) {
	case string:
		if len(d) > 32 {
			d = d[:32] + "..."
		}
		return fmt.Sprintf("string %q", d)
	case map[string]any:
		return "object"
	case []any:
		return fmt.Sprintf("array (%d items)", len(d))
	default:
		return fmt.Sprintf("%s %v", dataType(data), data)
	}
}
