package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// CloneIssueTool handles the clone_issue MCP tool. Cloning inherits the
// source issue's field set — including mandatory custom fields that are
// awkward to populate from scratch — and lets explicit overrides win.
type CloneIssueTool struct {
	client *jira.Client
}

// NewCloneIssueTool creates a CloneIssueTool backed by the given client.
func NewCloneIssueTool(client *jira.Client) *CloneIssueTool {
	return &CloneIssueTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *CloneIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("clone_issue",
		mcp.WithDescription(
			"Clone an existing JIRA issue. Field values are seeded from the source "+
				"issue; any provided overrides win. Attachment copying and the "+
				"'cloned from' link are best-effort: their failures are reported in "+
				"the result without undoing the created issue.",
		),
		mcp.WithString("source_issue_key",
			mcp.Required(),
			mcp.Description("The source JIRA issue key to clone from (e.g. PROJ-123)"),
		),
		mcp.WithString("project_key",
			mcp.Description("The target project key if different from source"),
		),
		mcp.WithString("summary",
			mcp.Description("New summary (defaults to 'Clone of [ORIGINAL-SUMMARY]')"),
		),
		mcp.WithString("description",
			mcp.Description("New description (defaults to original description)"),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type (defaults to original issue type)"),
		),
		mcp.WithString("priority",
			mcp.Description("Issue priority (defaults to original priority)"),
		),
		mcp.WithString("assignee",
			mcp.Description("Username of the assignee (defaults to original assignee)"),
		),
		mcp.WithArray("labels",
			mcp.Description("List of labels (defaults to original labels)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithObject("custom_fields",
			mcp.Description("Custom field values to override"),
		),
		mcp.WithBoolean("copy_attachments",
			mcp.Description("Whether to copy attachments from the source issue (default false)"),
		),
		mcp.WithBoolean("add_link_to_source",
			mcp.Description("Whether to add a 'cloned from' link to the source issue (default true)"),
		),
	)
}

// Handle processes the clone_issue tool call.
func (t *CloneIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceKey, err := normalizeIssueKey("source_issue_key", req.GetString("source_issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.client.CloneIssue(ctx, jira.CloneRequest{
		SourceKey:       sourceKey,
		ProjectKey:      req.GetString("project_key", ""),
		Summary:         req.GetString("summary", ""),
		Description:     req.GetString("description", ""),
		IssueType:       req.GetString("issue_type", ""),
		Priority:        req.GetString("priority", ""),
		Assignee:        req.GetString("assignee", ""),
		Labels:          stringSliceArg(req, "labels"),
		CustomFields:    mapArg(req, "custom_fields"),
		CopyAttachments: boolArg(req, "copy_attachments", false),
		LinkToSource:    boolArg(req, "add_link_to_source", true),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}
