package fakeapi

import (
	"sort"

	"github.com/studentrecords/conformance/checker"
)

// Sample builds a value that conforms to schema. Objects carry every
// declared property, arrays carry one element.
func Sample(schema *checker.Schema) any {
	if schema == nil {
		return "value"
	}
	switch schema.Kind {
	case checker.KindObject:
		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		obj := make(map[string]any, len(names))
		for _, name := range names {
			obj[name] = Sample(schema.Properties[name])
		}
		return obj
	case checker.KindArray:
		return []any{Sample(schema.Items)}
	case checker.KindPrimitive:
		switch schema.Type {
		case checker.TypeInteger:
			return 1
		case checker.TypeNumber:
			return 3.5
		case checker.TypeBoolean:
			return true
		default:
			return "string"
		}
	default:
		return "value"
	}
}

// nullify sets every property named in fields to null, at any depth.
func nullify(v any, fields map[string]struct{}) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if _, ok := fields[k]; ok {
				t[k] = nil
				continue
			}
			nullify(child, fields)
		}
	case []any:
		for _, child := range t {
			nullify(child, fields)
		}
	}
}
