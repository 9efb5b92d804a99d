package contract

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/conferrors"
)

// MaxRefDepth is the default maximum depth of nested $ref resolution.
const MaxRefDepth = 100

// Option configures a load operation.
type Option func(*loadConfig) error

type loadConfig struct {
	logger          *zap.SugaredLogger
	maxRefDepth     int
	skipValidation  bool
	sourceName      string
	validateContext context.Context
}

// WithLogger sets the logger used for debug output during loading.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(cfg *loadConfig) error {
		if logger != nil {
			cfg.logger = logger
		}
		return nil
	}
}

// WithMaxRefDepth sets the maximum $ref nesting depth. It must be positive.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *loadConfig) error {
		if depth <= 0 {
			return &conferrors.ConfigError{Option: "max_ref_depth", Value: depth, Message: "must be positive"}
		}
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithStructuralValidation enables or disables the kin-openapi structural
// validation step. It is enabled by default.
func WithStructuralValidation(enabled bool) Option {
	return func(cfg *loadConfig) error {
		cfg.skipValidation = !enabled
		return nil
	}
}

// WithSourceName sets the name reported in errors for LoadBytes input.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithContext sets the context passed to kin-openapi during validation.
func WithContext(ctx context.Context) Option {
	return func(cfg *loadConfig) error {
		if ctx == nil {
			return &conferrors.ConfigError{Option: "context", Message: "must not be nil"}
		}
		cfg.validateContext = ctx
		return nil
	}
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:          zap.NewNop().Sugar(),
		maxRefDepth:     MaxRefDepth,
		validateContext: context.Background(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Contract is a loaded OpenAPI document with its definitions compiled.
// A Contract is immutable and safe for concurrent use.
type Contract struct {
	source    string
	version   string
	oasMajor  int
	prefix    string
	resources map[string]*checker.Schema
	names     []string
}

// Load reads and compiles the OpenAPI document at path.
func Load(path string, opts ...Option) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &conferrors.ParseError{Path: path, Message: "failed to read file", Cause: err}
	}
	return LoadBytes(data, append([]Option{WithSourceName(path)}, opts...)...)
}

// LoadBytes compiles an OpenAPI document held in memory.
func LoadBytes(data []byte, opts ...Option) (*Contract, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("contract: invalid options: %w", err)
	}

	doc, err := decodeDocument(data, cfg.sourceName)
	if err != nil {
		return nil, err
	}

	version, major, err := detectVersion(doc, cfg.sourceName)
	if err != nil {
		return nil, err
	}
	log := cfg.logger.With("source", cfg.sourceName, "version", version)
	log.Debugw("detected contract version")

	c := &Contract{
		source:   cfg.sourceName,
		version:  version,
		oasMajor: major,
	}

	var defs map[string]any
	if major == 2 {
		c.prefix = "#/definitions/"
		defs, _ = doc["definitions"].(map[string]any)
	} else {
		c.prefix = "#/components/schemas/"
		if components, ok := doc["components"].(map[string]any); ok {
			defs, _ = components["schemas"].(map[string]any)
		}
	}

	comp := newCompiler(doc, cfg.maxRefDepth)
	c.resources = make(map[string]*checker.Schema, len(defs))
	for name := range defs {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	for _, name := range c.names {
		schema, err := comp.compileRef(c.prefix+escapePointer(name), 0)
		if err != nil {
			return nil, err
		}
		c.resources[name] = schema
	}
	log.Debugw("compiled definitions", "count", len(c.names))

	if cfg.skipValidation {
		log.Debugw("structural validation disabled")
		return c, nil
	}
	if err := validateStructure(cfg.validateContext, doc, major, version, cfg.sourceName, log); err != nil {
		return nil, err
	}
	return c, nil
}

// Version returns the version string declared by the document, e.g. "2.0".
func (c *Contract) Version() string {
	return c.version
}

// IsOAS2 reports whether the document is an OAS 2.0 (Swagger) document.
func (c *Contract) IsOAS2() bool {
	return c.oasMajor == 2
}

// Source returns the path or name the contract was loaded from.
func (c *Contract) Source() string {
	return c.source
}

// Resources returns the names of all compiled definitions, sorted.
func (c *Contract) Resources() []string {
	return append([]string(nil), c.names...)
}

// Resource returns the compiled schema of the named definition.
func (c *Contract) Resource(name string) (*checker.Schema, error) {
	schema, ok := c.resources[name]
	if !ok {
		return nil, &conferrors.ReferenceError{
			Ref:     c.prefix + escapePointer(name),
			Message: fmt.Sprintf("resource %q is not defined", name),
		}
	}
	return schema, nil
}

// Resolve returns the compiled schemas for names, keyed by name.
// It fails on the first name the contract does not define.
func (c *Contract) Resolve(names ...string) (map[string]*checker.Schema, error) {
	resolved := make(map[string]*checker.Schema, len(names))
	for _, name := range names {
		schema, err := c.Resource(name)
		if err != nil {
			return nil, err
		}
		resolved[name] = schema
	}
	return resolved, nil
}
