package suite

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/internal/cliutil"
)

// Outcome is the verdict on one case.
type Outcome string

const (
	// OutcomePassed means the response met its contract.
	OutcomePassed Outcome = "passed"
	// OutcomeFailed means the response broke its contract.
	OutcomeFailed Outcome = "failed"
	// OutcomeErrored means no response was received.
	OutcomeErrored Outcome = "errored"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name           string              `json:"name" yaml:"name"`
	Endpoint       string              `json:"endpoint" yaml:"endpoint"`
	Kind           CaseKind            `json:"kind" yaml:"kind"`
	Path           string              `json:"path" yaml:"path"`
	Query          map[string]string   `json:"query,omitempty" yaml:"query,omitempty"`
	Outcome        Outcome             `json:"outcome" yaml:"outcome"`
	StatusCode     int                 `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ExpectedStatus int                 `json:"expected_status" yaml:"expected_status"`
	Duration       time.Duration       `json:"duration" yaml:"duration"`
	Violations     []checker.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	// APIMessage is the message found in an error body, if any.
	APIMessage string `json:"api_message,omitempty" yaml:"api_message,omitempty"`
	// Error is set when the request itself failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary counts outcomes.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Passed  int `json:"passed" yaml:"passed"`
	Failed  int `json:"failed" yaml:"failed"`
	Errored int `json:"errored" yaml:"errored"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Report is the outcome of one run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	BaseURL   string        `json:"base_url" yaml:"base_url"`
	Contract  string        `json:"contract" yaml:"contract"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Summary   Summary       `json:"summary" yaml:"summary"`
	Cases     []CaseResult  `json:"cases" yaml:"cases"`
	Skipped   []Skip        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// OK reports whether no case failed or errored.
func (r *Report) OK() bool {
	return r.Summary.Failed == 0 && r.Summary.Errored == 0
}

func (r *Report) tally() {
	s := Summary{Total: len(r.Cases), Skipped: len(r.Skipped)}
	for _, c := range r.Cases {
		switch c.Outcome {
		case OutcomePassed:
			s.Passed++
		case OutcomeFailed:
			s.Failed++
		case OutcomeErrored:
			s.Errored++
		}
	}
	r.Summary = s
}

// Write renders the report in format: text, json or yaml.
func (r *Report) Write(w io.Writer, format string) error {
	if err := cliutil.ValidateOutputFormat(format); err != nil {
		return err
	}
	if format != cliutil.FormatText {
		return cliutil.WriteStructured(w, r, format)
	}
	r.writeText(w)
	return nil
}

func (r *Report) writeText(w io.Writer) {
	title := cases.Title(language.English)

	cliutil.Writef(w, "Run:      %s\n", r.RunID)
	cliutil.Writef(w, "Base URL: %s\n", r.BaseURL)
	if r.Contract != "" {
		cliutil.Writef(w, "Contract: %s\n", r.Contract)
	}

	endpoint := ""
	for _, c := range r.Cases {
		if c.Endpoint != endpoint {
			endpoint = c.Endpoint
			cliutil.Writef(w, "\n%s\n", title.String(strings.ReplaceAll(endpoint, "-", " ")))
		}
		cliutil.Writef(w, "  %s %s (%s)%s\n", statusLabel(c.Outcome), c.Name, formatDuration(c.Duration), statusDetail(c))
		if c.Error != "" {
			cliutil.Writef(w, "      Error: %s\n", c.Error)
		}
		for _, v := range c.Violations {
			cliutil.Writef(w, "      %s\n", v)
		}
		if c.Outcome == OutcomeFailed && c.APIMessage != "" {
			cliutil.Writef(w, "      API message: %s\n", c.APIMessage)
		}
	}

	if len(r.Skipped) > 0 {
		cliutil.Writef(w, "\nSkipped endpoints:\n")
		for _, s := range r.Skipped {
			cliutil.Writef(w, "  - %s: %s\n", s.Endpoint, s.Reason)
		}
	}

	rule := strings.Repeat("=", 80)
	cliutil.Writef(w, "\n%s\n", rule)
	cliutil.Writef(w, "CONFORMANCE SUMMARY\n")
	cliutil.Writef(w, "%s\n", rule)
	cliutil.Writef(w, "Cases:      %d passed, %d failed, %d errored\n", r.Summary.Passed, r.Summary.Failed, r.Summary.Errored)
	cliutil.Writef(w, "Endpoints:  %d skipped\n", r.Summary.Skipped)
	cliutil.Writef(w, "Duration:   %s\n", formatDuration(r.Duration))
	cliutil.Writef(w, "%s\n", rule)
}

func statusLabel(o Outcome) string {
	switch o {
	case OutcomePassed:
		return "PASS"
	case OutcomeFailed:
		return "FAIL"
	default:
		return "ERROR"
	}
}

func statusDetail(c CaseResult) string {
	if c.StatusCode == 0 {
		return ""
	}
	return fmt.Sprintf(" - status %d", c.StatusCode)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
