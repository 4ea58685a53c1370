package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// GetProjectsTool handles the get_projects MCP tool.
type GetProjectsTool struct {
	client *jira.Client
}

// NewGetProjectsTool creates a GetProjectsTool backed by the given client.
func NewGetProjectsTool(client *jira.Client) *GetProjectsTool {
	return &GetProjectsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_projects",
		mcp.WithDescription("Get the list of JIRA projects."),
		mcp.WithBoolean("include_archived",
			mcp.Description("Whether to include archived projects (default false)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default 50, max 100)"),
		),
		mcp.WithNumber("start_at",
			mcp.Description("Index of the first result to return (default 0)"),
		),
	)
}

// Handle processes the get_projects tool call.
func (t *GetProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.client.GetProjects(ctx,
		boolArg(req, "include_archived", false),
		intArg(req, "max_results", jira.DefaultMaxResults),
		intArg(req, "start_at", 0),
	)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list)
}
