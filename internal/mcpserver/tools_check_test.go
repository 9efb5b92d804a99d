package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBodyTool(t *testing.T) {
	pets := contractInput{Content: petsContract}

	tests := []struct {
		name       string
		input      checkBodyInput
		valid      bool
		violations []string
	}{
		{
			name:  "valid resource",
			input: checkBodyInput{Contract: pets, Resource: "Pet", Body: `{"id": 1, "name": "Rex", "tag": null}`},
			valid: true,
		},
		{
			name:       "missing and mistyped fields",
			input:      checkBodyInput{Contract: pets, Resource: "Pet", Body: `{"id": "1"}`},
			violations: []string{"MissingRequiredField $.name", "TypeMismatch $.id"},
		},
		{
			name:  "nullable override",
			input: checkBodyInput{Contract: pets, Resource: "Pet", Body: `{"id": 1, "name": null}`, Nullable: []string{"name"}},
			valid: true,
		},
		{
			name:  "collection envelope",
			input: checkBodyInput{Contract: pets, Resource: "Pet", Envelope: true, Collection: true, Body: `{"data": [{"id": 1, "name": "a"}, {"id": 2.5, "name": "b"}]}`},
			violations: []string{
				"TypeMismatch $.data[1].id",
			},
		},
		{
			name:       "missing body",
			input:      checkBodyInput{Contract: pets, Resource: "Pet", Body: "<html>"},
			violations: []string{"MissingBody $"},
		},
		{
			name:       "status mismatch",
			input:      checkBodyInput{Contract: pets, Resource: "Pet", Status: 500, ExpectedStatus: 200, Body: `{}`},
			violations: []string{"StatusMismatch status"},
		},
		{
			name:  "default error schema",
			input: checkBodyInput{Contract: pets, Status: 404, Body: `{"code": 404, "message": "Not Found"}`},
			valid: true,
		},
		{
			name:       "error resource",
			input:      checkBodyInput{Contract: pets, Status: 404, ErrorResource: "Error", Body: `{"code": 404, "message": "Not Found"}`},
			violations: []string{"MissingRequiredField $.status", "MissingRequiredField $.detail"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, output, err := handleCheckBody(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.Nil(t, result)
			assert.Equal(t, tt.valid, output.Valid)

			got := make([]string, 0, len(output.Violations))
			for _, v := range output.Violations {
				got = append(got, v.Kind+" "+v.Path)
			}
			if len(tt.violations) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.violations, got)
			}
			assert.Equal(t, len(output.Violations), output.ViolationCount)
		})
	}
}

func TestCheckBodyTool_Defaults(t *testing.T) {
	_, output, err := handleCheckBody(context.Background(), &mcp.CallToolRequest{}, checkBodyInput{
		Contract: contractInput{Content: petsContract},
		Resource: "Pet",
		Status:   201,
		Body:     `{"id": 1, "name": "Rex"}`,
	})
	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Equal(t, 201, output.StatusCode)
	assert.Equal(t, 201, output.ExpectedStatus)
}

func TestCheckBodyTool_Errors(t *testing.T) {
	pets := contractInput{Content: petsContract}

	tests := []struct {
		name    string
		input   checkBodyInput
		message string
	}{
		{"no resource", checkBodyInput{Contract: pets, Body: `{}`}, "resource is required"},
		{"unknown resource", checkBodyInput{Contract: pets, Resource: "Cat"}, `resource "Cat" is not defined`},
		{"unknown error resource", checkBodyInput{Contract: pets, Status: 400, ErrorResource: "Problem"}, `resource "Problem" is not defined`},
		{"no contract", checkBodyInput{Resource: "Pet"}, "exactly one of file, url, or content"},
		{"broken contract", checkBodyInput{Contract: contractInput{Content: "swagger: '1.2'"}, Resource: "Pet"}, "1.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleCheckBody(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
			text := result.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.message)
		})
	}
}

func TestCheckBodyTool_BodySizeLimit(t *testing.T) {
	saved := cfg.MaxBodySize
	cfg.MaxBodySize = 4
	t.Cleanup(func() { cfg.MaxBodySize = saved })

	result, _, err := handleCheckBody(context.Background(), &mcp.CallToolRequest{}, checkBodyInput{
		Contract: contractInput{Content: petsContract},
		Resource: "Pet",
		Body:     `{"id": 1}`,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestCheckBodyTool_StudentsContract(t *testing.T) {
	body := `{"data": [{"id": "1", "type": "grades", "attributes": {"courseReferenceNumber": "12345", "term": "201901", "creditHours": 4}}]}`
	_, output, err := handleCheckBody(context.Background(), &mcp.CallToolRequest{}, checkBodyInput{
		Contract:   contractInput{File: studentsContract},
		Resource:   "GradesResource",
		Envelope:   true,
		Collection: true,
		Body:       body,
	})
	require.NoError(t, err)
	assert.True(t, output.Valid, "violations: %v", output.Violations)
}
