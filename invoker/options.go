package invoker

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/studentrecords/conformance"
	"github.com/studentrecords/conformance/conferrors"
	"github.com/studentrecords/conformance/config"
)

// DefaultTimeout bounds a single request, including reading the body.
const DefaultTimeout = 30 * time.Second

// Option configures a Session.
type Option func(*sessionConfig) error

type sessionConfig struct {
	baseURL    string
	timeout    time.Duration
	userAgent  string
	basicAuth  *config.BasicAuthConfig
	oauth2     *config.OAuth2Config
	logger     *zap.SugaredLogger
	debug      bool
	httpClient *http.Client
}

func applyOptions(opts ...Option) (*sessionConfig, error) {
	cfg := &sessionConfig{
		timeout:   DefaultTimeout,
		userAgent: conformance.UserAgent(),
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.baseURL == "" {
		return nil, &conferrors.ConfigError{Option: "base_url", Message: "a base URL is required"}
	}
	if cfg.basicAuth != nil && cfg.oauth2 != nil {
		return nil, &conferrors.ConfigError{Option: "auth", Message: "basic auth and OAuth2 are mutually exclusive"}
	}
	return cfg, nil
}

// WithBaseURL sets the URL every request path is appended to.
func WithBaseURL(url string) Option {
	return func(cfg *sessionConfig) error {
		cfg.baseURL = url
		return nil
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *sessionConfig) error {
		if d <= 0 {
			return &conferrors.ConfigError{Option: "timeout", Value: d, Message: "must be positive"}
		}
		cfg.timeout = d
		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cfg *sessionConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithBasicAuth authenticates every request with HTTP basic auth.
func WithBasicAuth(username, password string) Option {
	return func(cfg *sessionConfig) error {
		cfg.basicAuth = &config.BasicAuthConfig{Username: username, Password: password}
		return nil
	}
}

// WithOAuth2 authenticates with a bearer token obtained through the OAuth2
// client credentials grant. The token is fetched on first use and renewed
// when it expires.
func WithOAuth2(tokenURL, clientID, clientSecret string, scopes ...string) Option {
	return func(cfg *sessionConfig) error {
		cfg.oauth2 = &config.OAuth2Config{
			TokenAPI:     tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
		}
		return nil
	}
}

// WithLogger sets the logger. resty's own warnings and debug dumps go to it
// too.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(cfg *sessionConfig) error {
		if logger != nil {
			cfg.logger = logger
		}
		return nil
	}
}

// WithDebug logs every request and response at debug level.
func WithDebug(debug bool) Option {
	return func(cfg *sessionConfig) error {
		cfg.debug = debug
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client. The OAuth2 transport, when
// configured, wraps the client's transport.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *sessionConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// FromConfig applies the base URL, timeout and authentication of a harness
// configuration.
func FromConfig(c *config.Config) Option {
	return func(cfg *sessionConfig) error {
		cfg.baseURL = c.ResolvedBaseURL()
		if c.Timeout > 0 {
			cfg.timeout = c.Timeout
		}
		switch c.AuthMode() {
		case config.AuthBasic:
			a := *c.Auth.BasicAuth
			cfg.basicAuth = &a
		case config.AuthOAuth2:
			o := *c.Auth.OAuth2
			cfg.oauth2 = &o
		}
		return nil
	}
}
