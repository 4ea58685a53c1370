package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/simplejira/jira-mcp/internal/jira"
)

// AddCommentTool handles the add_comment MCP tool.
type AddCommentTool struct {
	client *jira.Client
}

// NewAddCommentTool creates an AddCommentTool backed by the given client.
func NewAddCommentTool(client *jira.Client) *AddCommentTool {
	return &AddCommentTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a JIRA issue."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The JIRA issue key (e.g. PROJ-123)"),
		),
		mcp.WithString("comment",
			mcp.Required(),
			mcp.Description("Comment text to add to the issue"),
		),
		mcp.WithObject("visibility",
			mcp.Description("Visibility settings (e.g. {\"type\": \"role\", \"value\": \"Administrators\"})"),
		),
	)
}

// Handle processes the add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := normalizeIssueKey("issue_key", req.GetString("issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := strings.TrimSpace(req.GetString("comment", ""))
	if body == "" {
		return mcp.NewToolResultError("'comment' is required and must not be empty"), nil
	}

	var visibility map[string]string
	if raw := mapArg(req, "visibility"); raw != nil {
		visibility = make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				visibility[k] = s
			}
		}
	}

	comment, err := t.client.AddComment(ctx, key, body, visibility)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(comment)
}

// GetCommentsTool handles the get_comments MCP tool.
type GetCommentsTool struct {
	client *jira.Client
}

// NewGetCommentsTool creates a GetCommentsTool backed by the given client.
func NewGetCommentsTool(client *jira.Client) *GetCommentsTool {
	return &GetCommentsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetCommentsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_comments",
		mcp.WithDescription("Get comments for a JIRA issue, one page at a time."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The JIRA issue key (e.g. PROJ-123)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of comments to return (default 50, max 100)"),
		),
		mcp.WithNumber("start_at",
			mcp.Description("Index of the first comment to return (default 0)"),
		),
	)
}

// Handle processes the get_comments tool call.
func (t *GetCommentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := normalizeIssueKey("issue_key", req.GetString("issue_key", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := t.client.GetComments(ctx, key,
		intArg(req, "max_results", jira.DefaultMaxResults),
		intArg(req, "start_at", 0),
	)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(list)
}
