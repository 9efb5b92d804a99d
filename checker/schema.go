package checker

import (
	"fmt"
	"slices"
)

// Kind is the structural kind of a schema fragment.
type Kind int

const (
	// KindAny accepts any non-null value. It is used for schemas without a type.
	KindAny Kind = iota
	// KindObject expects a JSON object.
	KindObject
	// KindArray expects a JSON array.
	KindArray
	// KindPrimitive expects a string, number, integer or boolean.
	KindPrimitive
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PrimitiveType is the declared JSON type of a primitive fragment.
type PrimitiveType string

// Primitive types.
const (
	TypeString  PrimitiveType = "string"
	TypeNumber  PrimitiveType = "number"
	TypeInteger PrimitiveType = "integer"
	TypeBoolean PrimitiveType = "boolean"
)

// Schema is a resolved schema fragment: a finite tree without $ref
// indirection. Checks only read a Schema; the same value can be shared by
// any number of concurrent calls.
type Schema struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Type is set for KindPrimitive.
	Type PrimitiveType `json:"type,omitempty" yaml:"type,omitempty"`

	// Properties and Required are set for KindObject.
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`

	// Items is set for KindArray.
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Nullable allows null in place of a value.
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// Object returns an object fragment with the given properties and required names.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Kind: KindObject, Properties: properties, Required: required}
}

// Array returns an array fragment whose elements match items.
func Array(items *Schema) *Schema {
	return &Schema{Kind: KindArray, Items: items}
}

// Primitive returns a primitive fragment of type t.
func Primitive(t PrimitiveType) *Schema {
	return &Schema{Kind: KindPrimitive, Type: t}
}

// Any returns a fragment that accepts any non-null value.
func Any() *Schema {
	return &Schema{Kind: KindAny}
}

// OrNull returns a shallow copy of s that also accepts null.
func (s *Schema) OrNull() *Schema {
	c := *s
	c.Nullable = true
	return &c
}

// IsRequired reports whether name is listed in Required.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// Describe returns a short human description used in violation messages,
// e.g. "integer", "array of string" or "object".
func (s *Schema) Describe() string {
	if s == nil {
		return "any"
	}
	var desc string
	switch s.Kind {
	case KindPrimitive:
		desc = string(s.Type)
	case KindArray:
		desc = "array"
		if s.Items != nil && s.Items.Kind != KindAny {
			desc = fmt.Sprintf("array of %s", s.Items.Describe())
		}
	default:
		desc = s.Kind.String()
	}
	if s.Nullable {
		desc += " or null"
	}
	return desc
}

// DefaultErrorSchema returns the minimal error object every error response
// must match: an object with an integer "code" and a string "message".
func DefaultErrorSchema() *Schema {
	return Object(map[string]*Schema{
		"code":    Primitive(TypeInteger),
		"message": Primitive(TypeString),
	}, "code", "message")
}
