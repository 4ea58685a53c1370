package jira

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

// timeSpentToken matches one component of Jira's duration grammar:
// a number followed by weeks, days, hours, or minutes.
var timeSpentToken = regexp.MustCompile(`^\d+[wdhm]$`)

// ValidTimeSpent reports whether s is a Jira-recognized duration like
// "2h 30m", "1d", or "30m". Validated locally so malformed input never
// costs a network round trip.
func ValidTimeSpent(s string) bool {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !timeSpentToken.MatchString(p) {
			return false
		}
	}
	return true
}

// LogWork appends a work log entry to an issue. startedAt, when set, must
// be in Jira's timestamp format (e.g. "2024-03-05T14:30:00.000+0000");
// empty means now (server-side default).
func (c *Client) LogWork(ctx context.Context, issueKey, timeSpent, comment, startedAt string) (*Worklog, error) {
	if strings.TrimSpace(issueKey) == "" {
		return nil, &ValidationError{Field: "issue_key", Reason: "must not be empty"}
	}
	if !ValidTimeSpent(timeSpent) {
		return nil, &ValidationError{
			Field:  "time_spent",
			Reason: "must be numbers with w/d/h/m units, e.g. '2h 30m'",
		}
	}

	payload := map[string]any{
		"timeSpent": strings.ToLower(strings.TrimSpace(timeSpent)),
	}
	if comment != "" {
		payload["comment"] = comment
	}
	if startedAt != "" {
		payload["started"] = startedAt
	}

	var w wireWorklog
	if err := c.do(ctx, http.MethodPost, issuePath(issueKey, "worklog"), nil, payload, &w); err != nil {
		return nil, err
	}
	return &Worklog{
		ID:        w.ID,
		IssueKey:  issueKey,
		TimeSpent: w.TimeSpent,
		Comment:   comment,
		Started:   w.Started,
	}, nil
}
