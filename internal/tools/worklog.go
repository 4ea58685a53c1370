package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// LogWorkTool handles the log_work MCP tool.
type LogWorkTool struct {
	client *jira.Client
}

// NewLogWorkTool creates a LogWorkTool backed by the given client.
func NewLogWorkTool(client *jira.Client) *LogWorkTool {
	return &LogWorkTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *LogWorkTool) Definition() mcp.Tool {
	return mcp.NewTool("log_work",
		mcp.WithDescription("Log work time on a JIRA issue."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The JIRA issue key (e.g. PROJ-123)"),
		),
		mcp.WithString("time_spent",
			mcp.Required(),
			mcp.Description("Time spent in JIRA format (e.g. '2h 30m', '1d', '30m')"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment for the work log"),
		),
		mcp.WithString("started_at",
			mcp.Description("When the work was started, in JIRA timestamp format (defaults to now)"),
		),
	)
}

// Handle processes the log_work tool call.
func (t *LogWorkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := normalizeIssueKey("issue_key", req.GetString("issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeSpent := req.GetString("time_spent", "")
	if !jira.ValidTimeSpent(timeSpent) {
		return mcp.NewToolResultError(
			"'time_spent' must be numbers with w/d/h/m units, e.g. '2h 30m'",
		), nil
	}

	worklog, err := t.client.LogWork(ctx, key, timeSpent,
		req.GetString("comment", ""),
		req.GetString("started_at", ""),
	)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(worklog)
}
