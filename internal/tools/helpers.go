// Package tools implements the MCP tool handlers exposed to the agent.
//
// Each tool is a struct that receives the Jira client via its constructor
// and returns a handler compatible with mcp-go's CallToolRequest
// signature. Tools validate their arguments, delegate to the client, and
// render the typed result as JSON. Domain failures come back as tool
// error results, never as Go errors crossing the protocol layer.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers arrive as float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// stringSliceArg extracts a string-array argument; non-string elements
// are skipped. Returns nil when the key is absent.
func stringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// mapArg extracts an object argument as a raw map. Returns nil when the
// key is absent.
func mapArg(req mcp.CallToolRequest, key string) map[string]any {
	m, ok := req.GetArguments()[key].(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// optionalStringArg distinguishes an absent string argument from one that
// is explicitly set (possibly to ""): nil means "not provided".
func optionalStringArg(req mcp.CallToolRequest, key string) *string {
	v, ok := req.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

// normalizeIssueKey uppercases an issue key and checks its basic shape.
func normalizeIssueKey(field, key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" || !strings.Contains(key, "-") {
		return "", fmt.Errorf("'%s' must be in PROJECT-123 form", field)
	}
	return key, nil
}

// jsonResult marshals a success payload into a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult maps the client's typed errors onto tool error results so
// the caller can tell validation failures, tracker rejections, and
// transport faults apart.
func errorResult(err error) *mcp.CallToolResult {
	var (
		vErr   *jira.ValidationError
		apiErr *jira.APIError
		tErr   *jira.TransportError
	)
	switch {
	case errors.As(err, &vErr):
		return mcp.NewToolResultError("validation error: " + vErr.Error())
	case errors.As(err, &apiErr):
		return mcp.NewToolResultError(apiErr.Error())
	case errors.As(err, &tErr):
		return mcp.NewToolResultError("transport error: " + tErr.Error())
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
