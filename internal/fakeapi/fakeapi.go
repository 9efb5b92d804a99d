// Package fakeapi serves an in-process students API whose success bodies
// are generated from a contract. Tests point the invoker at it.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/suite"
)

// DefaultNotFoundID is the student identifier the API does not know.
const DefaultNotFoundID = "000000000"

var termPattern = regexp.MustCompile(`^\d{6}$`)

// Override replaces the response of one endpoint.
type Override struct {
	Status int
	// Body is written as is. A nil Body writes nothing.
	Body []byte
}

// Option configures an API.
type Option func(*API)

// WithNotFoundID sets the identifier answered with 404.
func WithNotFoundID(id string) Option {
	return func(a *API) { a.notFoundID = id }
}

// WithBasicAuth requires the given credentials on every request.
func WithBasicAuth(username, password string) Option {
	return func(a *API) {
		a.username = username
		a.password = password
	}
}

// WithNullFields returns null for the named properties in success bodies.
func WithNullFields(names ...string) Option {
	return func(a *API) {
		for _, n := range names {
			a.nullFields[n] = struct{}{}
		}
	}
}

// WithOverride answers every request to the endpoint at path with o.
func WithOverride(path string, o Override) Option {
	return func(a *API) { a.overrides[path] = o }
}

type route struct {
	schema     *checker.Schema
	collection bool
}

// API is a fake students API.
type API struct {
	routes     map[string]route
	notFoundID string
	username   string
	password   string
	nullFields map[string]struct{}

	mu        sync.RWMutex
	overrides map[string]Override

	requests atomic.Int64
}

// New builds an API serving every endpoint whose resource c defines.
func New(c *contract.Contract, endpoints []suite.Endpoint, opts ...Option) (*API, error) {
	a := &API{
		routes:     make(map[string]route, len(endpoints)),
		notFoundID: DefaultNotFoundID,
		nullFields: make(map[string]struct{}),
		overrides:  make(map[string]Override),
	}
	for _, ep := range endpoints {
		schema, err := c.Resource(ep.Resource)
		if err != nil {
			return nil, fmt.Errorf("fakeapi: endpoint %s: %w", ep.Name, err)
		}
		a.routes[ep.Path] = route{schema: schema, collection: ep.Collection}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// SetOverride replaces the response of one endpoint while the API is serving.
func (a *API) SetOverride(path string, o Override) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrides[path] = o
}

// ClearOverride restores the generated response for path.
func (a *API) ClearOverride(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.overrides, path)
}

// Requests returns the number of requests served.
func (a *API) Requests() int64 {
	return a.requests.Load()
}

// Handler returns the HTTP handler of the API.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.count)
	if a.username != "" {
		r.Use(a.basicAuth)
	}
	r.HandleFunc("/students/{osuId}/{endpoint}", a.student).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

// Start serves the API on a local port until the returned server is closed.
func (a *API) Start() *httptest.Server {
	return httptest.NewServer(a.Handler())
}

func (a *API) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (a *API) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != a.username || pass != a.password {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) student(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	endpoint := vars["endpoint"]

	rt, ok := a.routes[endpoint]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	a.mu.RLock()
	o, overridden := a.overrides[endpoint]
	a.mu.RUnlock()
	if overridden {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(o.Status)
		if o.Body != nil {
			_, _ = w.Write(o.Body)
		}
		return
	}

	if vars["osuId"] == a.notFoundID {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if term, ok := r.URL.Query()[termParam]; ok && !termPattern.MatchString(term[0]) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid term: %s", term[0]))
		return
	}

	var data any
	if rt.collection {
		data = []any{Sample(rt.schema), Sample(rt.schema)}
	} else {
		data = Sample(rt.schema)
	}
	body := map[string]any{"data": data}
	if len(a.nullFields) > 0 {
		nullify(body, a.nullFields)
	}
	writeJSON(w, http.StatusOK, body)
}

const termParam = "term"

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"code": status, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
