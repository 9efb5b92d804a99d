package checker

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// rootPath is the JSON path of the whole body.
const rootPath = "$"

// NoBody stands for a response body that was empty or not valid JSON.
// It is distinct from a body that decoded to JSON null (a nil interface).
var NoBody any = noBody{}

type noBody struct{}

// IsNoBody reports whether body is the NoBody sentinel.
func IsNoBody(body any) bool {
	_, ok := body.(noBody)
	return ok
}

// Option configures a Checker.
type Option func(*Checker)

// WithErrorSchema replaces the schema used for error responses.
// A nil schema keeps the default.
func WithErrorSchema(schema *Schema) Option {
	return func(c *Checker) {
		if schema != nil {
			c.errorSchema = schema
		}
	}
}

// Checker validates responses against schema fragments.
type Checker struct {
	errorSchema *Schema
}

// New creates a Checker. Without options, error responses are checked
// against DefaultErrorSchema.
func New(opts ...Option) *Checker {
	c := &Checker{errorSchema: DefaultErrorSchema()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ErrorSchema returns the schema used for error responses.
func (c *Checker) ErrorSchema() *Schema {
	return c.errorSchema
}

// Validate checks one response.
//
// A status mismatch is reported on its own, without looking at the body.
// For expected statuses of 400 and above the body is checked against the
// error schema and schema is ignored. Otherwise the body is walked against
// schema, with nullable allowing null for the named properties at any depth.
//
// Validate never modifies body or schema.
func (c *Checker) Validate(status, expected int, body any, schema *Schema, nullable NullableFields) *Result {
	result := newResult(status, expected)

	if status != expected {
		result.add(statusMismatch(expected, status))
		return result
	}

	if expected >= 400 {
		schema = c.errorSchema
		nullable = nil
	}

	if schema == nil {
		return result
	}

	if IsNoBody(body) {
		result.add(missingBody(rootPath, schema))
		return result
	}

	w := &walker{nullable: nullable, result: result}
	w.walk(body, schema, rootPath, "")
	return result
}

// ValidateBody walks body against schema without any status handling.
func (c *Checker) ValidateBody(body any, schema *Schema, nullable NullableFields) *Result {
	return c.Validate(0, 0, body, schema, nullable)
}

// walker carries the per-call state of one traversal.
type walker struct {
	nullable NullableFields
	result   *Result
}

// walk validates data against schema. field is the name of the property
// holding data, or "" for the root and array elements.
func (w *walker) walk(data any, schema *Schema, path, field string) {
	if schema == nil {
		return
	}

	if data == nil {
		if schema.Nullable || w.nullable.Contains(field) {
			return
		}
		w.result.add(unexpectedNull(path, field, schema.Describe()))
		return
	}

	switch schema.Kind {
	case KindObject:
		w.walkObject(data, schema, path, field)
	case KindArray:
		w.walkArray(data, schema, path, field)
	case KindPrimitive:
		w.walkPrimitive(data, schema, path, field)
	}
}

func (w *walker) walkObject(data any, schema *Schema, path, field string) {
	obj, ok := data.(map[string]any)
	if !ok {
		w.result.add(typeMismatch(path, field, schema, data))
		return
	}

	for _, name := range schema.Required {
		if _, exists := obj[name]; !exists {
			w.result.add(missingRequired(propertyPath(path, name), name, schema.Properties[name]))
		}
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := obj[name]
		propSchema, defined := schema.Properties[name]
		if !defined || propSchema == nil {
			// Required but undeclared properties still may not be null.
			if value == nil && schema.IsRequired(name) && !w.nullable.Contains(name) {
				w.result.add(unexpectedNull(propertyPath(path, name), name, "any"))
			}
			continue
		}
		w.walk(value, propSchema, propertyPath(path, name), name)
	}
}

func (w *walker) walkArray(data any, schema *Schema, path, field string) {
	arr, ok := data.([]any)
	if !ok {
		w.result.add(typeMismatch(path, field, schema, data))
		return
	}
	for i, item := range arr {
		w.walk(item, schema.Items, fmt.Sprintf("%s[%d]", path, i), "")
	}
}

func (w *walker) walkPrimitive(data any, schema *Schema, path, field string) {
	actual := dataType(data)

	switch schema.Type {
	case TypeString, TypeBoolean:
		if actual != string(schema.Type) {
			w.result.add(typeMismatch(path, field, schema, data))
		}
	case TypeNumber:
		if actual != "number" && actual != "integer" {
			w.result.add(typeMismatch(path, field, schema, data))
		}
	case TypeInteger:
		switch actual {
		case "integer":
		case "number":
			if f, ok := toFloat64(data); ok && f != math.Trunc(f) {
				w.result.add(fractionalInteger(path, field, schema, f))
			}
		default:
			w.result.add(typeMismatch(path, field, schema, data))
		}
	}
}

func propertyPath(path, name string) string {
	return path + "." + name
}

// dataType returns the JSON type name of a decoded value. Go integer types
// report "integer"; floating point values report "number".
func dataType(data any) string {
	if data == nil {
		return "null"
	}

	switch d := data.(type) {
	case string:
		return "string"
	case float64, float32:
		return "number"
	case json.Number:
		if _, err := d.Int64(); err == nil {
			return "integer"
		}
		return "number"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case noBody:
		return "absent"
	default:
		rv := reflect.ValueOf(data)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return "array"
		case reflect.Map:
			return "object"
		}
		return fmt.Sprintf("%T", data)
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// DecodeBody decodes a raw response body for Validate. It returns NoBody
// when raw is empty or not valid JSON.
func DecodeBody(raw []byte) any {
	if !json.Valid(raw) {
		return NoBody
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return NoBody
	}
	return body
}
