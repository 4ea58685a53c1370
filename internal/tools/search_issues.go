package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// SearchIssuesTool handles the search_issues MCP tool.
type SearchIssuesTool struct {
	client *jira.Client
}

// NewSearchIssuesTool creates a SearchIssuesTool backed by the given client.
func NewSearchIssuesTool(client *jira.Client) *SearchIssuesTool {
	return &SearchIssuesTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_issues",
		mcp.WithDescription(
			"Search for JIRA issues using JQL (JIRA Query Language). "+
				"Returns one result page; page manually with start_at and the returned total. "+
				`Example queries: "project = PROJ AND status = 'In Progress'", `+
				`"assignee = currentUser() ORDER BY created DESC".`,
		),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query to search for issues"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default 50, max 100)"),
		),
		mcp.WithNumber("start_at",
			mcp.Description("Index of the first result to return (default 0)"),
		),
		mcp.WithArray("fields",
			mcp.Description("List of fields to return for each issue"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the search_issues tool call.
func (t *SearchIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := strings.TrimSpace(req.GetString("jql", ""))
	if jql == "" {
		return mcp.NewToolResultError("'jql' is required and must not be empty"), nil
	}

	page, err := t.client.SearchIssues(ctx, jql,
		stringSliceArg(req, "fields"),
		intArg(req, "max_results", jira.DefaultMaxResults),
		intArg(req, "start_at", 0),
	)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(page)
}
