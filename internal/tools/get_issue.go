package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// GetIssueTool handles the get_issue MCP tool.
type GetIssueTool struct {
	client *jira.Client
}

// NewGetIssueTool creates a GetIssueTool backed by the given client.
func NewGetIssueTool(client *jira.Client) *GetIssueTool {
	return &GetIssueTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("get_issue",
		mcp.WithDescription("Get a JIRA issue by key."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The JIRA issue key (e.g. PROJ-123)"),
		),
		mcp.WithArray("fields",
			mcp.Description("Optional list of fields to return; defaults to the full field set"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the get_issue tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := normalizeIssueKey("issue_key", req.GetString("issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issue, err := t.client.GetIssue(ctx, key, stringSliceArg(req, "fields"))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(issue)
}
