package invoker

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/conferrors"
)

// Response is the observable outcome of one request.
type Response struct {
	// StatusCode is the HTTP status.
	StatusCode int
	// Body is the decoded JSON body. It is only meaningful when HasBody is true.
	Body any
	// HasBody is false when the body was empty or not valid JSON.
	HasBody bool
	// Raw is the body as received.
	Raw []byte
	// Duration is the time from sending the request to reading the body.
	Duration time.Duration
}

// CheckerBody returns the body in the form checker.Checker expects:
// checker.NoBody when there was no JSON body.
func (r *Response) CheckerBody() any {
	if !r.HasBody {
		return checker.NoBody
	}
	return r.Body
}

// ErrorMessage extracts a human-readable message from an error body, or "".
func (r *Response) ErrorMessage() string {
	if !r.HasBody {
		return ""
	}
	for _, path := range []string{"message", "errors.0.detail", "errors.0.title", "error_description", "error"} {
		if v := gjson.GetBytes(r.Raw, path); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

// Session is a shared HTTP session bound to one base URL.
type Session struct {
	client    *resty.Client
	baseURL   string
	logger    *zap.SugaredLogger
	closeOnce sync.Once
}

// New creates a Session.
func New(opts ...Option) (*Session, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.oauth2 != nil {
		cc := clientcredentials.Config{
			ClientID:     cfg.oauth2.ClientID,
			ClientSecret: cfg.oauth2.ClientSecret,
			TokenURL:     cfg.oauth2.TokenAPI,
			Scopes:       cfg.oauth2.Scopes,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.timeout})
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: cc.TokenSource(tokenCtx),
				Base:   httpClient.Transport,
			},
			Jar: httpClient.Jar,
		}
	}

	baseURL := strings.TrimRight(cfg.baseURL, "/")
	client := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(cfg.timeout).
		SetHeader("User-Agent", cfg.userAgent).
		SetHeader("Accept", "application/json").
		SetLogger(cfg.logger).
		SetDebug(cfg.debug)
	if cfg.basicAuth != nil {
		client.SetBasicAuth(cfg.basicAuth.Username, cfg.basicAuth.Password)
	}

	return &Session{
		client:  client,
		baseURL: baseURL,
		logger:  cfg.logger,
	}, nil
}

// BaseURL returns the URL request paths are appended to.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Get issues GET path?query. A non-nil error means no response arrived; every
// HTTP status, including 4xx and 5xx, is returned as a Response.
func (s *Session) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	req := s.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, &conferrors.TransportError{Method: http.MethodGet, URL: s.baseURL + path, Cause: err}
	}

	r := &Response{
		StatusCode: resp.StatusCode(),
		Raw:        resp.Body(),
		Duration:   resp.Time(),
	}
	if len(r.Raw) > 0 && gjson.ValidBytes(r.Raw) {
		if err := json.Unmarshal(r.Raw, &r.Body); err == nil {
			r.HasBody = true
		}
	}

	s.logger.Debugw("request finished",
		"path", path,
		"query", query,
		"status", r.StatusCode,
		"duration", r.Duration,
		"json", r.HasBody,
	)
	return r, nil
}

// Close releases idle connections. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.client.GetClient().CloseIdleConnections()
	})
}
