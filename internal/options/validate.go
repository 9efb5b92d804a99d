// Package options provides shared utilities for option validation across packages.
package options

import "fmt"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources maps each source name to whether it is set, and names lists the
// names in the order they are reported in the error message.
func ValidateSingleInputSource(names []string, sources map[string]bool) error {
	count := 0
	for _, name := range names {
		if sources[name] {
			count++
		}
	}
	if count == 1 {
		return nil
	}
	return fmt.Errorf("exactly one of %s must be provided (got %d)", joinNames(names), count)
}

// joinNames renders names as "a, b, or c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	s := ""
	for i, name := range names {
		switch {
		case i == len(names)-1:
			s += ", or " + name
		case i > 0:
			s += ", " + name
		default:
			s += name
		}
	}
	return s
}
