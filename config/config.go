// Package config loads and validates the harness configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
)

// LogLevel is the minimum level of log entries written.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogConfig configures the harness logger.
type LogConfig struct {
	Level  LogLevel  `mapstructure:"level" json:"level" yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format LogFormat `mapstructure:"format" json:"format" yaml:"format" default:"text" validate:"oneof=text json"`
	// File is an output path; empty means stderr.
	File string `mapstructure:"file" json:"file,omitempty" yaml:"file,omitempty"`
}

// APIConfig names the API under test.
type APIConfig struct {
	Name         string `mapstructure:"name" json:"name" yaml:"name"`
	LocalBaseURL string `mapstructure:"local_base_url" json:"local_base_url" yaml:"local_base_url" validate:"omitempty,url"`
}

// BasicAuthConfig holds HTTP basic auth credentials, used for local tests.
type BasicAuthConfig struct {
	Username string `mapstructure:"username" json:"username" yaml:"username" validate:"required"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
}

// OAuth2Config holds OAuth2 client credentials, used for remote tests.
type OAuth2Config struct {
	TokenAPI     string   `mapstructure:"token_api" json:"token_api" yaml:"token_api" validate:"required,url"`
	ClientID     string   `mapstructure:"client_id" json:"client_id" yaml:"client_id" validate:"required"`
	ClientSecret string   `mapstructure:"client_secret" json:"client_secret" yaml:"client_secret" validate:"required"`
	Scopes       []string `mapstructure:"scopes" json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// AuthConfig holds the credentials for each authentication mode.
type AuthConfig struct {
	BasicAuth *BasicAuthConfig `mapstructure:"basic_auth" json:"basic_auth,omitempty" yaml:"basic_auth,omitempty"`
	OAuth2    *OAuth2Config    `mapstructure:"oauth2" json:"oauth2,omitempty" yaml:"oauth2,omitempty"`
}

// AuthMode names the authentication a session uses.
type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthBasic  AuthMode = "basic"
	AuthOAuth2 AuthMode = "oauth2"
)

// TestCases holds the identifiers and terms the suite plugs into requests.
// Keys other than the named ones (valid_gpa, valid_grades, ...) are student
// identifiers keyed by test case name.
type TestCases struct {
	NotFoundID   string   `mapstructure:"not_found_id" json:"not_found_id" yaml:"not_found_id"`
	ValidTerms   []string `mapstructure:"valid_terms" json:"valid_terms" yaml:"valid_terms" validate:"dive,required"`
	InvalidTerms []string `mapstructure:"invalid_terms" json:"invalid_terms" yaml:"invalid_terms"`

	Extra map[string]any `mapstructure:",remain" json:"-" yaml:"-"`

	// IDs is Extra with every scalar value rendered as a string.
	IDs map[string]string `mapstructure:"-" json:"ids,omitempty" yaml:"ids,omitempty"`
}

// ID returns the identifier configured under key.
func (tc TestCases) ID(key string) (string, bool) {
	id, ok := tc.IDs[key]
	return id, ok && id != ""
}

// IDKeys returns the configured identifier keys, sorted.
func (tc TestCases) IDKeys() []string {
	keys := make([]string, 0, len(tc.IDs))
	for k := range tc.IDs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Config is the harness configuration.
type Config struct {
	Hostname  string    `mapstructure:"hostname" json:"hostname" yaml:"hostname"`
	Version   string    `mapstructure:"version" json:"version" yaml:"version"`
	API       APIConfig `mapstructure:"api" json:"api" yaml:"api"`
	LocalTest bool      `mapstructure:"local_test" json:"local_test" yaml:"local_test"`
	// BaseURL overrides the URL derived from the fields above.
	BaseURL       string        `mapstructure:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Auth          AuthConfig    `mapstructure:"auth" json:"auth" yaml:"auth"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" default:"30s" validate:"gte=1ms"`
	Parallel      int           `mapstructure:"parallel" json:"parallel" yaml:"parallel" default:"1" validate:"gte=1,lte=64"`
	ErrorResource string        `mapstructure:"error_resource" json:"error_resource,omitempty" yaml:"error_resource,omitempty"`
	Log           LogConfig     `mapstructure:"log" json:"log" yaml:"log"`
	TestCases     TestCases     `mapstructure:"test_cases" json:"test_cases" yaml:"test_cases"`
}

// New returns a Config with every default applied.
func New() *Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// ResolvedBaseURL returns the URL every request path is appended to,
// without a trailing slash.
func (cfg *Config) ResolvedBaseURL() string {
	switch {
	case cfg.BaseURL != "":
		return strings.TrimRight(cfg.BaseURL, "/")
	case cfg.LocalTest:
		return strings.TrimRight(cfg.API.LocalBaseURL, "/")
	default:
		return strings.TrimRight(cfg.Hostname, "/") + "/" + strings.Trim(cfg.Version, "/") + "/" + strings.Trim(cfg.API.Name, "/")
	}
}

// AuthMode returns the authentication used for the session: basic auth for
// local tests, OAuth2 client credentials otherwise, when configured.
func (cfg *Config) AuthMode() AuthMode {
	if cfg.LocalTest {
		if cfg.Auth.BasicAuth != nil {
			return AuthBasic
		}
		return AuthNone
	}
	if cfg.Auth.OAuth2 != nil {
		return AuthOAuth2
	}
	return AuthNone
}

// PostProcess derives computed fields after decoding.
func (cfg *Config) PostProcess() {
	ids := make(map[string]string, len(cfg.TestCases.Extra))
	for k, v := range cfg.TestCases.Extra {
		if s, ok := scalarString(v); ok {
			ids[k] = s
		}
	}
	cfg.TestCases.IDs = ids
	if cfg.Log.Format == "" {
		cfg.Log.Format = LogFormatText
	}
}

// String renders the configuration as JSON with secrets masked.
func (cfg Config) String() string {
	masked := cfg
	if a := cfg.Auth.BasicAuth; a != nil {
		c := *a
		c.Password = mask(c.Password)
		masked.Auth.BasicAuth = &c
	}
	if o := cfg.Auth.OAuth2; o != nil {
		c := *o
		c.ClientSecret = mask(c.ClientSecret)
		masked.Auth.OAuth2 = &c
	}
	bytes, err := json.Marshal(masked)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "******"
}

// scalarString renders a decoded scalar. Large integers decoded as floats
// keep all their digits.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(t), false
	}
}
