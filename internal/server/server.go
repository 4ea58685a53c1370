// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates the Jira client and
// injects it into the tools that depend on it. No business logic lives
// here — only wiring.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/simplejira/jira-mcp/internal/config"
	"github.com/simplejira/jira-mcp/internal/jira"
	"github.com/simplejira/jira-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, error) {
	client, err := jira.NewClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("creating jira client: %w", err)
	}

	// Startup probe. A failure here is a warning, not a fatal error:
	// credentials may become valid later, and every tool call surfaces
	// authentication problems on its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()
		if err := client.CheckConnection(ctx); err != nil {
			log.Warn("jira connection check failed",
				zap.String("url", cfg.BaseURL),
				zap.Error(err))
		}
	}()

	s := server.NewMCPServer(
		"jira-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(cfg)),
	)

	// --- Register issue tools ---

	getIssue := tools.NewGetIssueTool(client)
	s.AddTool(getIssue.Definition(), getIssue.Handle)

	searchIssues := tools.NewSearchIssuesTool(client)
	s.AddTool(searchIssues.Definition(), searchIssues.Handle)

	createIssue := tools.NewCreateIssueTool(client)
	s.AddTool(createIssue.Definition(), createIssue.Handle)

	updateIssue := tools.NewUpdateIssueTool(client)
	s.AddTool(updateIssue.Definition(), updateIssue.Handle)

	cloneIssue := tools.NewCloneIssueTool(client)
	s.AddTool(cloneIssue.Definition(), cloneIssue.Handle)

	// --- Register collaboration tools ---

	addComment := tools.NewAddCommentTool(client)
	s.AddTool(addComment.Definition(), addComment.Handle)

	getComments := tools.NewGetCommentsTool(client)
	s.AddTool(getComments.Definition(), getComments.Handle)

	logWork := tools.NewLogWorkTool(client)
	s.AddTool(logWork.Definition(), logWork.Handle)

	// --- Register project tools ---

	getProjects := tools.NewGetProjectsTool(client)
	s.AddTool(getProjects.Definition(), getProjects.Handle)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use the Jira tools effectively.
func serverInstructions(cfg *config.Config) string {
	return fmt.Sprintf(`You have access to a Jira issue tracker at %s.

## Rate limiting
All Jira calls share a token bucket of %d requests per %s. When the
budget is exhausted, calls wait for the next token instead of failing —
a slow response is normal under heavy use, never retry in a loop.

## Tools
- get_issue: fetch one issue by key (e.g. PROJ-123). Use the fields
  parameter to limit the response to what you need.
- search_issues: JQL search with pagination (start_at/max_results,
  page size capped at 100). Check has_more to know whether to page.
- create_issue: create an issue. project_key and summary are required;
  issue_type defaults to Task.
- update_issue: sparse update — only the fields you pass are changed.
  An optional comment is added after the field update; if the comment
  fails the field changes still stand (check comment_error).
- clone_issue: duplicate an existing issue, optionally into another
  project, with overrides for summary, type, priority, assignee and
  labels. Server-managed fields (status, reporter, timestamps) are
  never copied. Attachment copying and the "Cloners" link to the
  source are best-effort: the clone succeeds even if they fail, and
  failures are listed in the result.
- add_comment / get_comments: issue comments, with optional visibility
  restriction and pagination.
- log_work: record time spent in Jira duration format, e.g. "2h 30m",
  "1d 4h". Weeks/days/hours/minutes only.
- get_projects: list visible projects (archived ones only when asked).

## Issue keys
Keys are case-insensitive on input ("proj-1" works) but always
PROJECT-NUMBER. Tools reject keys without a dash before calling Jira.`,
		cfg.BaseURL, cfg.RateLimitCalls, formatPeriod(cfg.RateLimitPeriod))
}

func formatPeriod(d time.Duration) string {
	if d == time.Minute {
		return "minute"
	}
	return d.String()
}
