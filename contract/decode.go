package contract

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/studentrecords/conformance/conferrors"
)

// decodeDocument parses YAML or JSON into a generic map with string keys at
// every level.
func decodeDocument(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &conferrors.ParseError{Path: source, Message: "document is empty"}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &conferrors.ParseError{Path: source, Message: "failed to parse YAML/JSON", Cause: err}
	}

	doc, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, &conferrors.ParseError{Path: source, Message: fmt.Sprintf("document root must be an object, got %T", raw)}
	}
	return doc, nil
}

// normalize converts maps with non-string keys (such as unquoted response
// codes) into map[string]any so the document can be re-encoded as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	default:
		return v
	}
}

// detectVersion returns the declared version and its major number.
func detectVersion(doc map[string]any, source string) (string, int, error) {
	if v, ok := doc["swagger"]; ok {
		s, isString := v.(string)
		if !isString {
			return "", 0, &conferrors.ParseError{Path: source, Message: fmt.Sprintf("'swagger' field must be a string, got %v", v)}
		}
		if s != "2.0" {
			return "", 0, &conferrors.ParseError{Path: source, Message: fmt.Sprintf("unsupported swagger version %q: expected \"2.0\"", s)}
		}
		return s, 2, nil
	}

	if v, ok := doc["openapi"]; ok {
		s, isString := v.(string)
		if !isString {
			return "", 0, &conferrors.ParseError{Path: source, Message: fmt.Sprintf("'openapi' field must be a string, got %v", v)}
		}
		if !strings.HasPrefix(s, "3.") {
			return "", 0, &conferrors.ParseError{Path: source, Message: fmt.Sprintf("unsupported openapi version %q: expected 3.x", s)}
		}
		return s, 3, nil
	}

	return "", 0, &conferrors.ParseError{
		Path:    source,
		Message: "unable to detect OpenAPI version: document must contain either 'swagger: \"2.0\"' or 'openapi: \"3.x.x\"' at the root level",
	}
}

// resolveLocal follows a local JSON pointer reference within doc.
func resolveLocal(doc map[string]any, ref string) (any, error) {
	pointer := strings.TrimPrefix(ref, "#")
	if pointer == "" || pointer == "/" {
		return doc, nil
	}

	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	current := any(doc)
	for i, part := range parts {
		part = unescapePointer(part)

		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("missing key %q at #/%s", part, strings.Join(parts[:i+1], "/"))
			}
			current = next
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil, fmt.Errorf("invalid array index %q at #/%s", part, strings.Join(parts[:i+1], "/"))
			}
			current = v[index]
		default:
			return nil, fmt.Errorf("cannot traverse into %T at #/%s", v, strings.Join(parts[:i], "/"))
		}
	}
	return current, nil
}

// unescapePointer decodes a JSON pointer token (RFC 6901).
func unescapePointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// escapePointer encodes a name as a JSON pointer token (RFC 6901).
func escapePointer(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	return strings.ReplaceAll(name, "/", "~1")
}
