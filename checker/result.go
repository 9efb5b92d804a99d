package checker

import (
	"fmt"
	"strings"
)

// Result is the outcome of one Validate call.
type Result struct {
	// Valid is true if no violation was found.
	Valid bool `json:"valid" yaml:"valid"`

	// StatusCode is the status the API returned.
	StatusCode int `json:"status_code" yaml:"status_code"`

	// ExpectedStatus is the status the caller required.
	ExpectedStatus int `json:"expected_status" yaml:"expected_status"`

	// Violations lists every violation in traversal order.
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
}

func newResult(status, expected int) *Result {
	return &Result{
		Valid:          true,
		StatusCode:     status,
		ExpectedStatus: expected,
	}
}

func (r *Result) add(v Violation) {
	r.Valid = false
	r.Violations = append(r.Violations, v)
}

// Count returns the number of violations of the given kind.
func (r *Result) Count(kind ViolationKind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns nil for a valid result and a *ResultError otherwise.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ResultError{Violations: r.Violations}
}

// ResultError carries the violations of a failed check as an error.
type ResultError struct {
	Violations []Violation
}

// Error joins the violations into a single message.
func (e *ResultError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d contract violation(s)", len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  ")
		sb.WriteString(v.String())
	}
	return sb.String()
}
