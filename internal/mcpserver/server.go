// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the conformance checker as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/studentrecords/conformance"
)

const serverInstructions = `conformance MCP server: checks JSON response bodies against the resources of an OpenAPI 2.0 or 3.x contract.

Tools:
- list_resources: the named resources (definitions or components.schemas) a contract defines
- check_body: check one status and body against a resource, reporting every violation with its JSON path

Configuration: defaults are configurable via CONFORMANCE_* environment variables set in your MCP client config.

Key settings:
- CONFORMANCE_CACHE_TTL (default: 15m): cache TTL for compiled contracts
- CONFORMANCE_CACHE_ENABLED (default: true): disable contract caching entirely
- CONFORMANCE_MAX_BODY_SIZE (default: 5MiB): largest body check_body accepts
- CONFORMANCE_RESOURCE_LIMIT (default: 100): default result limit for list_resources

Caching: compiled contracts are cached per session. File entries use path+mtime as key (auto-invalidated on change).`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cfg = loadConfig(logger)
	logger.Debugw("starting MCP server", "cache_enabled", cfg.CacheEnabled, "cache_ttl", cfg.CacheTTL)

	server := mcp.NewServer(
		&mcp.Implementation{Name: "conformance", Version: conformance.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_body",
		Description: "Check an HTTP status and JSON response body against a resource of an OpenAPI contract. The body is walked against the resource schema and every violation is returned with its JSON path (missing required field, type mismatch, unexpected null, missing body, status mismatch). Set envelope to wrap the resource in a JSON:API document ({data: resource}) and collection to expect an array of resources. Expected statuses of 400 and above check the body against the error schema instead. Use nullable to allow null for named properties at any depth.",
	}, handleCheckBody)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List the named resources an OpenAPI contract defines, with their kind, required properties and property count. Filter names with a glob pattern (e.g. *Resource). Use offset/limit to paginate. Default limit is configurable via CONFORMANCE_RESOURCE_LIMIT (default 100).",
	}, handleListResources)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResourceLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResourceLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so they can be stripped
// from error messages sent to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchName reports whether name matches pattern. A pattern without glob
// characters must match exactly; an empty pattern matches everything.
func matchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return pattern == name
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}
