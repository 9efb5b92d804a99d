package contract

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/conferrors"
)

// compiler turns raw schema maps into checker.Schema trees.
type compiler struct {
	doc      map[string]any
	maxDepth int

	// resolving holds the refs on the current resolution chain.
	resolving map[string]bool
	// cache holds compiled ref targets; compiled schemas are never modified.
	cache map[string]*checker.Schema
}

func newCompiler(doc map[string]any, maxDepth int) *compiler {
	return &compiler{
		doc:       doc,
		maxDepth:  maxDepth,
		resolving: make(map[string]bool),
		cache:     make(map[string]*checker.Schema),
	}
}

// compileRef compiles the schema a local reference points to.
func (c *compiler) compileRef(ref string, depth int) (*checker.Schema, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, &conferrors.ReferenceError{Ref: ref, Message: "only local references are supported"}
	}
	if s, ok := c.cache[ref]; ok {
		return s, nil
	}
	if c.resolving[ref] {
		return nil, &conferrors.ReferenceError{Ref: ref, IsCircular: true, Message: "schema refers back to itself"}
	}
	if depth > c.maxDepth {
		return nil, &conferrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(c.maxDepth),
			Actual:       int64(depth),
			Message:      "while resolving " + ref,
		}
	}

	target, err := resolveLocal(c.doc, ref)
	if err != nil {
		return nil, &conferrors.ReferenceError{Ref: ref, Message: "target not found", Cause: err}
	}

	c.resolving[ref] = true
	defer delete(c.resolving, ref)

	s, err := c.compile(target, ref, depth+1)
	if err != nil {
		return nil, err
	}
	c.cache[ref] = s
	return s, nil
}

// compile converts one schema node. ptr locates the node for error messages.
func (c *compiler) compile(node any, ptr string, depth int) (*checker.Schema, error) {
	var m map[string]any
	switch n := node.(type) {
	case nil, bool:
		// Boolean schemas (OAS 3.1) and empty nodes constrain nothing here.
		return checker.Any(), nil
	case map[string]any:
		m = n
	default:
		return nil, &conferrors.ParseError{Message: fmt.Sprintf("schema at %s must be an object, got %T", ptr, node)}
	}

	types, nullable := schemaTypes(m["type"])
	nullable = nullable || isTrue(m["nullable"]) || isTrue(m["x-nullable"])

	if ref, ok := m["$ref"].(string); ok {
		s, err := c.compileRef(ref, depth)
		if err != nil {
			return nil, err
		}
		return withNullable(s, nullable), nil
	}

	if members, ok := m["allOf"].([]any); ok && len(members) > 0 {
		s, err := c.compileAllOf(m, members, ptr, depth)
		if err != nil {
			return nil, err
		}
		return withNullable(s, nullable), nil
	}

	for _, key := range []string{"oneOf", "anyOf"} {
		if members, ok := m[key].([]any); ok && len(members) > 0 {
			s, hasNull, err := c.compileAlternatives(members, ptr+"/"+key, depth)
			if err != nil {
				return nil, err
			}
			return withNullable(s, nullable || hasNull), nil
		}
	}

	kind := ""
	switch {
	case len(types) == 1:
		kind = types[0]
	case len(types) == 0:
		if _, ok := m["properties"]; ok {
			kind = "object"
		} else if _, ok := m["items"]; ok {
			kind = "array"
		}
	}

	var s *checker.Schema
	switch kind {
	case "object":
		obj, err := c.compileObject(m, ptr, depth)
		if err != nil {
			return nil, err
		}
		s = obj
	case "array":
		items, err := c.compile(m["items"], ptr+"/items", depth)
		if err != nil {
			return nil, err
		}
		s = checker.Array(items)
	case "string", "number", "integer", "boolean":
		s = checker.Primitive(checker.PrimitiveType(kind))
	default:
		// No type, several types, or a type such as "file".
		s = checker.Any()
	}
	return withNullable(s, nullable), nil
}

func (c *compiler) compileObject(m map[string]any, ptr string, depth int) (*checker.Schema, error) {
	var properties map[string]*checker.Schema
	if raw, ok := m["properties"].(map[string]any); ok && len(raw) > 0 {
		names := make([]string, 0, len(raw))
		for name := range raw {
			names = append(names, name)
		}
		sort.Strings(names)

		properties = make(map[string]*checker.Schema, len(raw))
		for _, name := range names {
			prop, err := c.compile(raw[name], ptr+"/properties/"+escapePointer(name), depth)
			if err != nil {
				return nil, err
			}
			properties[name] = prop
		}
	}
	return checker.Object(properties, stringList(m["required"])...), nil
}

// compileAllOf merges the object members of an allOf, together with any
// properties declared next to it. With no object member, the single
// typed member (if any) is used as is.
func (c *compiler) compileAllOf(m map[string]any, members []any, ptr string, depth int) (*checker.Schema, error) {
	merged := checker.Object(map[string]*checker.Schema{})
	objects := 0
	var single *checker.Schema

	for i, member := range members {
		s, err := c.compile(member, fmt.Sprintf("%s/allOf/%d", ptr, i), depth)
		if err != nil {
			return nil, err
		}
		switch s.Kind {
		case checker.KindObject:
			mergeObject(merged, s)
			objects++
		case checker.KindAny:
		default:
			single = s
		}
	}

	if _, ok := m["properties"]; ok || m["required"] != nil {
		own, err := c.compileObject(m, ptr, depth)
		if err != nil {
			return nil, err
		}
		mergeObject(merged, own)
		objects++
	}

	if objects == 0 {
		if single != nil {
			return single, nil
		}
		return checker.Any(), nil
	}
	if len(merged.Properties) == 0 {
		merged.Properties = nil
	}
	return merged, nil
}

// compileAlternatives handles oneOf and anyOf. Only the common
// "X or null" shape compiles to X; anything else accepts any value.
func (c *compiler) compileAlternatives(members []any, ptr string, depth int) (*checker.Schema, bool, error) {
	hasNull := false
	var candidates []int
	for i, member := range members {
		if mm, ok := member.(map[string]any); ok && mm["type"] == "null" {
			hasNull = true
			continue
		}
		candidates = append(candidates, i)
	}

	if len(candidates) != 1 {
		return checker.Any(), hasNull, nil
	}
	i := candidates[0]
	s, err := c.compile(members[i], fmt.Sprintf("%s/%d", ptr, i), depth)
	if err != nil {
		return nil, false, err
	}
	return s, hasNull, nil
}

// mergeObject copies the properties and required names of src into dst.
// dst must own its Properties map.
func mergeObject(dst, src *checker.Schema) {
	for name, prop := range src.Properties {
		dst.Properties[name] = prop
	}
	for _, name := range src.Required {
		if !slices.Contains(dst.Required, name) {
			dst.Required = append(dst.Required, name)
		}
	}
}

// schemaTypes reads a "type" value, which is a string (OAS 2.0, 3.0) or an
// array of strings (OAS 3.1). "null" is reported separately.
func schemaTypes(v any) ([]string, bool) {
	var types []string
	nullable := false
	add := func(s string) {
		if s == "null" {
			nullable = true
			return
		}
		types = append(types, s)
	}

	switch t := v.(type) {
	case string:
		add(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return types, nullable
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func withNullable(s *checker.Schema, nullable bool) *checker.Schema {
	if !nullable || s.Nullable {
		return s
	}
	return s.OrNull()
}
