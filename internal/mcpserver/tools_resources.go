package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listResourcesInput struct {
	Contract contractInput `json:"contract"          jsonschema:"The OpenAPI contract to list"`
	Name     string        `json:"name,omitempty"    jsonschema:"Filter by resource name. Supports glob patterns (e.g. *Resource)"`
	Offset   int           `json:"offset,omitempty"  jsonschema:"Skip the first N resources (for pagination)"`
	Limit    int           `json:"limit,omitempty"   jsonschema:"Maximum number of resources to return (default 100)"`
}

type resourceSummary struct {
	Name          string   `json:"name"`
	Kind          string   `json:"kind"`
	Required      []string `json:"required,omitempty"`
	PropertyCount int      `json:"property_count,omitempty"`
	Nullable      bool     `json:"nullable,omitempty"`
}

type listResourcesOutput struct {
	Version   string            `json:"version"`
	Total     int               `json:"total"`
	Returned  int               `json:"returned"`
	Resources []resourceSummary `json:"resources,omitempty"`
}

func handleListResources(ctx context.Context, _ *mcp.CallToolRequest, input listResourcesInput) (*mcp.CallToolResult, listResourcesOutput, error) {
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}

	c, err := input.Contract.resolve(ctx)
	if err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}

	var matched []resourceSummary
	for _, name := range c.Resources() {
		if !matchName(input.Name, name) {
			continue
		}
		schema, err := c.Resource(name)
		if err != nil {
			return errResult(err), listResourcesOutput{}, nil
		}
		matched = append(matched, resourceSummary{
			Name:          name,
			Kind:          schema.Kind.String(),
			Required:      schema.Required,
			PropertyCount: len(schema.Properties),
			Nullable:      schema.Nullable,
		})
	}

	page := paginate(matched, input.Offset, input.Limit)
	return nil, listResourcesOutput{
		Version:   c.Version(),
		Total:     len(matched),
		Returned:  len(page),
		Resources: page,
	}, nil
}
