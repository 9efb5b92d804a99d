package config

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.yaml.in/yaml/v4"

	"github.com/studentrecords/conformance/conferrors"
)

// Loader is a configuration loader.
type Loader struct {
	cfg         *Config
	filename    string
	fileContent []byte
}

// NewLoader returns a loader that decodes over cfg.
func NewLoader(cfg *Config) *Loader {
	return &Loader{cfg: cfg}
}

// WithFilename sets the file to read. It takes precedence over WithFileContent.
func (l *Loader) WithFilename(filename string) *Loader {
	l.filename = filename
	return l
}

// WithFileContent sets the raw configuration to decode.
func (l *Loader) WithFileContent(content []byte) *Loader {
	l.fileContent = content
	return l
}

// Load decodes the file (JSON or YAML) over the loader's Config, derives
// computed fields and validates the result.
func (l *Loader) Load() error {
	content := l.fileContent
	if l.filename != "" {
		b, err := os.ReadFile(l.filename)
		if err != nil {
			return &conferrors.ConfigError{Option: "config", Value: l.filename, Message: "failed to read file", Cause: err}
		}
		content = b
	}
	if len(content) == 0 {
		return &conferrors.ConfigError{Option: "config", Message: "configuration is empty"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return &conferrors.ConfigError{
			Option:  "config",
			Message: "failed to parse",
			Cause:   &conferrors.ParseError{Path: l.filename, Cause: err},
		}
	}
	if root := documentRoot(&doc); root != nil {
		if tc := mappingValue(root, "test_cases"); tc != nil {
			keepSourceText(tc)
		}
	}
	var raw map[string]any
	if err := doc.Decode(&raw); err != nil {
		return &conferrors.ConfigError{
			Option:  "config",
			Message: "failed to parse",
			Cause:   &conferrors.ParseError{Path: l.filename, Cause: err},
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           l.cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			rejectNumericDuration,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return &conferrors.ConfigError{Option: "config", Cause: err}
	}
	if err := decoder.Decode(raw); err != nil {
		return &conferrors.ConfigError{Option: "config", Message: "failed to decode", Cause: err}
	}

	l.cfg.PostProcess()
	return l.cfg.Validate()
}

// documentRoot returns the top-level mapping of a decoded document, or nil.
func documentRoot(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// keepSourceText retags every numeric scalar under node as a string, so
// identifiers and terms keep their digits as written (leading zeros,
// precision beyond float64).
func keepSourceText(node *yaml.Node) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!int" || node.Tag == "!!float" {
			node.Tag = "!!str"
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			keepSourceText(node.Content[i])
		}
	case yaml.SequenceNode:
		for _, child := range node.Content {
			keepSourceText(child)
		}
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

// rejectNumericDuration refuses bare numbers for durations, which would
// otherwise decode as nanoseconds.
func rejectNumericDuration(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("duration %v has no unit, use a duration string such as \"30s\"", data)
	}
	return data, nil
}

// Load reads the configuration file at filename on top of the defaults.
func Load(filename string) (*Config, error) {
	cfg := New()
	if err := NewLoader(cfg).WithFilename(filename).Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}
