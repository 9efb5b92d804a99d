package mcpserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/suite"
)

type checkBodyInput struct {
	Contract       contractInput `json:"contract"                  jsonschema:"The OpenAPI contract that defines the resource"`
	Resource       string        `json:"resource,omitempty"        jsonschema:"Name of the resource the body must match. Required unless the expected status is 400 or above"`
	Body           string        `json:"body,omitempty"            jsonschema:"The raw response body. Empty or invalid JSON counts as a missing body"`
	Status         int           `json:"status,omitempty"          jsonschema:"HTTP status the API returned (default 200)"`
	ExpectedStatus int           `json:"expected_status,omitempty" jsonschema:"HTTP status the contract requires (default: same as status)"`
	Envelope       bool          `json:"envelope,omitempty"        jsonschema:"Wrap the resource in a JSON:API document whose required data member holds it"`
	Collection     bool          `json:"collection,omitempty"      jsonschema:"With envelope, expect data to be an array of resources"`
	Nullable       []string      `json:"nullable,omitempty"        jsonschema:"Property names that may be null at any depth"`
	ErrorResource  string        `json:"error_resource,omitempty"  jsonschema:"Resource checked for error statuses instead of the default {code, message} object"`
}

type violationOutput struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Message  string `json:"message"`
}

type checkBodyOutput struct {
	Valid          bool              `json:"valid"`
	StatusCode     int               `json:"status_code"`
	ExpectedStatus int               `json:"expected_status"`
	ViolationCount int               `json:"violation_count"`
	Violations     []violationOutput `json:"violations,omitempty"`
}

func handleCheckBody(ctx context.Context, _ *mcp.CallToolRequest, input checkBodyInput) (*mcp.CallToolResult, checkBodyOutput, error) {
	status := input.Status
	if status == 0 {
		status = http.StatusOK
	}
	expected := input.ExpectedStatus
	if expected == 0 {
		expected = status
	}
	if expected < http.StatusBadRequest && input.Resource == "" {
		return errResult(fmt.Errorf("resource is required for expected status %d", expected)), checkBodyOutput{}, nil
	}
	if int64(len(input.Body)) > cfg.MaxBodySize {
		return errResult(fmt.Errorf("body size %d bytes exceeds maximum %d bytes; set CONFORMANCE_MAX_BODY_SIZE to increase",
			len(input.Body), cfg.MaxBodySize)), checkBodyOutput{}, nil
	}

	c, err := input.Contract.resolve(ctx)
	if err != nil {
		return errResult(err), checkBodyOutput{}, nil
	}

	var opts []checker.Option
	if input.ErrorResource != "" {
		errSchema, err := c.Resource(input.ErrorResource)
		if err != nil {
			return errResult(err), checkBodyOutput{}, nil
		}
		opts = append(opts, checker.WithErrorSchema(errSchema))
	}

	var schema *checker.Schema
	if input.Resource != "" {
		schema, err = c.Resource(input.Resource)
		if err != nil {
			return errResult(err), checkBodyOutput{}, nil
		}
		if input.Envelope {
			schema = suite.Envelope(schema, input.Collection)
		}
	}

	result := checker.New(opts...).Validate(status, expected, checker.DecodeBody([]byte(input.Body)), schema, checker.NewNullableFields(input.Nullable...))

	output := checkBodyOutput{
		Valid:          result.Valid,
		StatusCode:     result.StatusCode,
		ExpectedStatus: result.ExpectedStatus,
		ViolationCount: len(result.Violations),
		Violations:     makeSlice[violationOutput](len(result.Violations)),
	}
	for _, v := range result.Violations {
		output.Violations = append(output.Violations, violationOutput{
			Kind:     v.Kind.String(),
			Path:     v.Path,
			Field:    v.Field,
			Expected: v.Expected,
			Actual:   v.Actual,
			Message:  v.Message,
		})
	}
	return nil, output, nil
}
