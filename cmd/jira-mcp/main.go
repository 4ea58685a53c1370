// jira-mcp: Rate-Limited Jira MCP Server
//
// An MCP server that exposes Jira issue operations (read, search,
// create, update, clone, comments, worklogs, projects) as tools for
// AI assistants, with a shared client-side rate limit so the
// assistant can never hammer the Jira API.
//
// Usage:
//
//	jira-mcp serve    # Start MCP server (stdio transport)
//
// Configuration is read from JIRA_* environment variables; see
// printUsage for the full list.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/simplejira/jira-mcp/internal/config"
	"github.com/simplejira/jira-mcp/internal/logging"
	jiraserver "github.com/simplejira/jira-mcp/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("jira-mcp v%s\n", jiraserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Logs go to stderr only — stdout carries the MCP transport.
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	s, err := jiraserver.New(cfg, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `jira-mcp v%s — Rate-Limited Jira MCP Server

Usage:
  jira-mcp serve    Start the MCP server (stdio transport)

Environment:
  JIRA_URL                Base URL of the Jira instance (required)
  JIRA_USERNAME           Account email for basic auth (required)
  JIRA_API_TOKEN          API token for basic auth (required)
  JIRA_RATE_LIMIT_CALLS   Requests allowed per period (default 30)
  JIRA_RATE_LIMIT_PERIOD  Rate limit window (default 60s)
  JIRA_HTTP_TIMEOUT       Per-request HTTP timeout (default 30s)
  JIRA_LOG_LEVEL          Log level: debug, info, warn, error (default info)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "jira": {
        "command": "jira-mcp",
        "args": ["serve"],
        "env": {
          "JIRA_URL": "https://your-company.atlassian.net",
          "JIRA_USERNAME": "you@company.com",
          "JIRA_API_TOKEN": "..."
        }
      }
    }
  }
`, jiraserver.Version)
}
