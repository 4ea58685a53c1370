package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// CreateIssueTool handles the create_issue MCP tool.
type CreateIssueTool struct {
	client *jira.Client
}

// NewCreateIssueTool creates a CreateIssueTool backed by the given client.
func NewCreateIssueTool(client *jira.Client) *CreateIssueTool {
	return &CreateIssueTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("create_issue",
		mcp.WithDescription("Create a new JIRA issue."),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("The project key (e.g. PROJ)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Issue summary/title"),
		),
		mcp.WithString("description",
			mcp.Description("Issue description"),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type (e.g. Bug, Task, Story)"),
			mcp.DefaultString("Task"),
		),
		mcp.WithString("priority",
			mcp.Description("Issue priority"),
		),
		mcp.WithString("assignee",
			mcp.Description("Username of the assignee"),
		),
		mcp.WithArray("labels",
			mcp.Description("List of labels to add to the issue"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithObject("custom_fields",
			mcp.Description("Custom field values keyed by field id (e.g. customfield_10010)"),
		),
	)
}

// Handle processes the create_issue tool call.
func (t *CreateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey := strings.TrimSpace(req.GetString("project_key", ""))
	if projectKey == "" {
		return mcp.NewToolResultError("'project_key' is required"), nil
	}
	summary := strings.TrimSpace(req.GetString("summary", ""))
	if summary == "" {
		return mcp.NewToolResultError("'summary' is required"), nil
	}

	issue, err := t.client.CreateIssue(ctx, jira.CreateRequest{
		ProjectKey:   projectKey,
		Summary:      summary,
		Description:  req.GetString("description", ""),
		IssueType:    req.GetString("issue_type", "Task"),
		Priority:     req.GetString("priority", ""),
		Assignee:     req.GetString("assignee", ""),
		Labels:       stringSliceArg(req, "labels"),
		CustomFields: mapArg(req, "custom_fields"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(issue)
}
