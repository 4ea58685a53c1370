package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// UpdateIssueTool handles the update_issue MCP tool.
//
// The update is sparse: only arguments actually present in the request
// are sent to Jira. The optional comment is a second independent call,
// and the result reports the two outcomes distinctly.
type UpdateIssueTool struct {
	client *jira.Client
}

// NewUpdateIssueTool creates an UpdateIssueTool backed by the given client.
func NewUpdateIssueTool(client *jira.Client) *UpdateIssueTool {
	return &UpdateIssueTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("update_issue",
		mcp.WithDescription(
			"Update an existing JIRA issue. Only the provided fields are changed. "+
				"If a comment is given it is added in a separate call, and the result "+
				"reports field update and comment outcomes independently.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The JIRA issue key (e.g. PROJ-123)"),
		),
		mcp.WithString("summary",
			mcp.Description("New issue summary/title"),
		),
		mcp.WithString("description",
			mcp.Description("New issue description"),
		),
		mcp.WithString("priority",
			mcp.Description("New issue priority"),
		),
		mcp.WithString("assignee",
			mcp.Description("New assignee username"),
		),
		mcp.WithArray("labels",
			mcp.Description("New list of labels (replaces the existing set)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("comment",
			mcp.Description("Comment to add to the issue"),
		),
		mcp.WithObject("custom_fields",
			mcp.Description("Custom field values to update"),
		),
	)
}

// Handle processes the update_issue tool call.
func (t *UpdateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := normalizeIssueKey("issue_key", req.GetString("issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := jira.UpdateRequest{
		IssueKey:     key,
		Summary:      optionalStringArg(req, "summary"),
		Description:  optionalStringArg(req, "description"),
		Priority:     optionalStringArg(req, "priority"),
		Assignee:     optionalStringArg(req, "assignee"),
		Comment:      req.GetString("comment", ""),
		CustomFields: mapArg(req, "custom_fields"),
	}
	if _, ok := req.GetArguments()["labels"]; ok {
		labels := stringSliceArg(req, "labels")
		if labels == nil {
			labels = []string{}
		}
		update.Labels = labels
	}

	result, err := t.client.UpdateIssue(ctx, update)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}
