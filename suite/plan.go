package suite

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/config"
	"github.com/studentrecords/conformance/contract"
)

// CaseKind tells which kind of request a case sends.
type CaseKind string

const (
	// CaseValidID requests an endpoint for a known student.
	CaseValidID CaseKind = "valid-id"
	// CaseValidTerm requests an endpoint with a term the API accepts.
	CaseValidTerm CaseKind = "valid-term"
	// CaseInvalidTerm requests an endpoint with a malformed term.
	CaseInvalidTerm CaseKind = "invalid-term"
	// CaseNotFound requests an endpoint for an unknown student.
	CaseNotFound CaseKind = "not-found"
)

// termParam is the query parameter carrying a term.
const termParam = "term"

// Case is one planned request and the contract its response must meet.
type Case struct {
	Name           string            `json:"name" yaml:"name"`
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`
	Kind           CaseKind          `json:"kind" yaml:"kind"`
	Path           string            `json:"path" yaml:"path"`
	Query          map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	ExpectedStatus int               `json:"expected_status" yaml:"expected_status"`

	// Schema is the body schema for success cases and nil for error cases.
	Schema   *checker.Schema        `json:"-" yaml:"-"`
	Nullable checker.NullableFields `json:"-" yaml:"-"`
}

// Skip records an endpoint left out of the plan.
type Skip struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Reason   string `json:"reason" yaml:"reason"`
}

// TestPlan is the full list of cases for one run.
type TestPlan struct {
	Cases   []Case `json:"cases" yaml:"cases"`
	Skipped []Skip `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// ErrorSchema replaces the default error schema when set.
	ErrorSchema *checker.Schema `json:"-" yaml:"-"`

	BaseURL  string `json:"base_url" yaml:"base_url"`
	Contract string `json:"contract" yaml:"contract"`
}

// Plan expands endpoints into cases using the identifiers and terms in cfg.
// Every resource schema is resolved from c before any case is built, so a
// resource missing from the contract fails the whole plan.
func Plan(cfg *config.Config, c *contract.Contract, endpoints []Endpoint) (*TestPlan, error) {
	plan := &TestPlan{
		BaseURL:  cfg.ResolvedBaseURL(),
		Contract: c.Source(),
	}

	var active []Endpoint
	var names []string
	for _, ep := range endpoints {
		if _, ok := cfg.TestCases.ID(ep.IDKey); !ok {
			plan.Skipped = append(plan.Skipped, Skip{
				Endpoint: ep.Name,
				Reason:   fmt.Sprintf("test_cases.%s is not configured", ep.IDKey),
			})
			continue
		}
		active = append(active, ep)
		names = append(names, ep.Resource)
	}

	if cfg.ErrorResource != "" {
		names = append(names, cfg.ErrorResource)
	}

	resources, err := c.Resolve(names...)
	if err != nil {
		return nil, fmt.Errorf("suite: resolving resources: %w", err)
	}
	if cfg.ErrorResource != "" {
		plan.ErrorSchema = resources[cfg.ErrorResource]
	}

	for _, ep := range active {
		id, _ := cfg.TestCases.ID(ep.IDKey)
		schema := Envelope(resources[ep.Resource], ep.Collection)
		nullable := checker.NewNullableFields(ep.NullableFields...)

		plan.Cases = append(plan.Cases, Case{
			Name:           ep.Name + "/" + string(CaseValidID),
			Endpoint:       ep.Name,
			Kind:           CaseValidID,
			Path:           studentPath(id, ep.Path),
			ExpectedStatus: http.StatusOK,
			Schema:         schema,
			Nullable:       nullable,
		})

		if ep.Terms {
			for _, term := range cfg.TestCases.ValidTerms {
				plan.Cases = append(plan.Cases, Case{
					Name:           ep.Name + "/" + termParam + "=" + term,
					Endpoint:       ep.Name,
					Kind:           CaseValidTerm,
					Path:           studentPath(id, ep.Path),
					Query:          map[string]string{termParam: term},
					ExpectedStatus: http.StatusOK,
					Schema:         schema,
					Nullable:       nullable,
				})
			}
			for _, term := range cfg.TestCases.InvalidTerms {
				plan.Cases = append(plan.Cases, Case{
					Name:           ep.Name + "/" + termParam + "=" + term,
					Endpoint:       ep.Name,
					Kind:           CaseInvalidTerm,
					Path:           studentPath(id, ep.Path),
					Query:          map[string]string{termParam: term},
					ExpectedStatus: http.StatusBadRequest,
				})
			}
		}

		if cfg.TestCases.NotFoundID != "" {
			plan.Cases = append(plan.Cases, Case{
				Name:           ep.Name + "/" + string(CaseNotFound),
				Endpoint:       ep.Name,
				Kind:           CaseNotFound,
				Path:           studentPath(cfg.TestCases.NotFoundID, ep.Path),
				ExpectedStatus: http.StatusNotFound,
			})
		}
	}

	return plan, nil
}

// Envelope wraps a resource schema in the JSON:API top level document:
// an object whose required "data" member is the resource, or an array of
// resources for collections.
func Envelope(resource *checker.Schema, collection bool) *checker.Schema {
	data := resource
	if collection {
		data = checker.Array(resource)
	}
	return checker.Object(map[string]*checker.Schema{"data": data}, "data")
}

func studentPath(id, sub string) string {
	return "/students/" + url.PathEscape(id) + "/" + sub
}
