package checker

import "sort"

// NullableFields is a set of property names that may be null at any depth of
// a body, regardless of the schema. The nil set is empty.
type NullableFields map[string]struct{}

// NewNullableFields builds a set from names. Empty names are ignored.
func NewNullableFields(names ...string) NullableFields {
	if len(names) == 0 {
		return nil
	}
	set := make(NullableFields, len(names))
	for _, name := range names {
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Contains reports whether name is in the set.
func (n NullableFields) Contains(name string) bool {
	if name == "" {
		return false
	}
	_, ok := n[name]
	return ok
}

// Names returns the names in the set, sorted.
func (n NullableFields) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
