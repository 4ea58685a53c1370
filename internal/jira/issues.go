package jira

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultMaxResults is the page size used when the caller doesn't
	// specify one. MaxPageSize caps what a single call may request.
	DefaultMaxResults = 50
	MaxPageSize       = 100
)

// clampPage normalizes pagination inputs.
func clampPage(maxResults, startAt int) (int, int) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}
	if startAt < 0 {
		startAt = 0
	}
	return maxResults, startAt
}

// GetIssue fetches one issue by key. fields, when non-empty, is passed
// through verbatim as a projection — no client-side existence check.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (*Issue, error) {
	w, err := c.getIssueRaw(ctx, key, fields)
	if err != nil {
		return nil, err
	}
	issue := issueView(*w)
	return &issue, nil
}

// getIssueRaw fetches an issue keeping the raw field map, which the clone
// operation needs to compose its create payload.
func (c *Client) getIssueRaw(ctx context.Context, key string, fields []string) (*wireIssue, error) {
	if strings.TrimSpace(key) == "" {
		return nil, &ValidationError{Field: "issue_key", Reason: "must not be empty"}
	}
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}
	var w wireIssue
	if err := c.do(ctx, http.MethodGet, issuePath(key), query, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// SearchIssues runs one JQL search call and returns the result page.
// It never aggregates pages — the caller pages manually using Total and
// HasMore. An empty query is rejected before any network call.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, maxResults, startAt int) (*SearchResult, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, &ValidationError{Field: "jql", Reason: "query must not be empty"}
	}
	maxResults, startAt = clampPage(maxResults, startAt)

	body := map[string]any{
		"jql":        jql,
		"startAt":    startAt,
		"maxResults": maxResults,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}

	var page wireSearch
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/search", nil, body, &page); err != nil {
		return nil, err
	}

	result := &SearchResult{
		Total:      page.Total,
		StartAt:    startAt,
		MaxResults: maxResults,
		HasMore:    startAt+len(page.Issues) < page.Total,
		Issues:     make([]Issue, 0, len(page.Issues)),
	}
	for _, w := range page.Issues {
		result.Issues = append(result.Issues, issueView(w))
	}
	c.log.Debug("search completed",
		zap.Int("total", page.Total),
		zap.Int("returned", len(result.Issues)))
	return result, nil
}

// CreateIssue creates a new issue and returns its identity plus the
// fields that were submitted. One network call; no read-back.
func (c *Client) CreateIssue(ctx context.Context, req CreateRequest) (*Issue, error) {
	if strings.TrimSpace(req.ProjectKey) == "" {
		return nil, &ValidationError{Field: "project_key", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.Summary) == "" {
		return nil, &ValidationError{Field: "summary", Reason: "must not be empty"}
	}
	issueType := req.IssueType
	if issueType == "" {
		issueType = "Task"
	}

	fields := map[string]any{
		"project":   map[string]string{"key": strings.ToUpper(strings.TrimSpace(req.ProjectKey))},
		"summary":   req.Summary,
		"issuetype": map[string]string{"name": issueType},
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Priority != "" {
		fields["priority"] = map[string]string{"name": req.Priority}
	}
	if req.Assignee != "" {
		fields["assignee"] = map[string]string{"name": req.Assignee}
	}
	if len(req.Labels) > 0 {
		fields["labels"] = req.Labels
	}
	for k, v := range req.CustomFields {
		fields[k] = v
	}

	created, err := c.createFromFields(ctx, fields)
	if err != nil {
		return nil, err
	}
	c.log.Info("issue created", zap.String("key", created.Key))

	return &Issue{
		Key:         created.Key,
		Summary:     req.Summary,
		Description: req.Description,
		IssueType:   issueType,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Labels:      req.Labels,
	}, nil
}

// createFromFields posts a pre-composed field map. Shared by CreateIssue
// and CloneIssue.
func (c *Client) createFromFields(ctx context.Context, fields map[string]any) (*wireCreated, error) {
	var created wireCreated
	err := c.do(ctx, http.MethodPost, apiPrefix+"/issue", nil, map[string]any{"fields": fields}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIssue applies a sparse field update and, when a comment is
// present, adds it in a second independent call. The two calls may fail
// independently: a field-update failure aborts the operation, while a
// comment failure after a successful update is reported in the result
// rather than as an error.
func (c *Client) UpdateIssue(ctx context.Context, req UpdateRequest) (*UpdateResult, error) {
	if strings.TrimSpace(req.IssueKey) == "" {
		return nil, &ValidationError{Field: "issue_key", Reason: "must not be empty"}
	}

	fields := map[string]any{}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Priority != nil {
		fields["priority"] = map[string]string{"name": *req.Priority}
	}
	if req.Assignee != nil {
		fields["assignee"] = map[string]string{"name": *req.Assignee}
	}
	if req.Labels != nil {
		fields["labels"] = req.Labels
	}
	for k, v := range req.CustomFields {
		fields[k] = v
	}

	result := &UpdateResult{Key: req.IssueKey}

	if len(fields) > 0 {
		err := c.do(ctx, http.MethodPut, issuePath(req.IssueKey), nil, map[string]any{"fields": fields}, nil)
		if err != nil {
			return nil, err
		}
		result.FieldsUpdated = true
	}

	if req.Comment != "" {
		if _, err := c.AddComment(ctx, req.IssueKey, req.Comment, nil); err != nil {
			result.CommentError = err.Error()
			c.log.Warn("comment add failed after field update",
				zap.String("key", req.IssueKey),
				zap.Error(err))
		} else {
			result.CommentAdded = true
		}
	}

	c.log.Info("issue updated",
		zap.String("key", req.IssueKey),
		zap.Bool("fields_updated", result.FieldsUpdated),
		zap.Bool("comment_added", result.CommentAdded))
	return result, nil
}

// GetProjects lists projects with client-side pagination: the v2 endpoint
// returns the full set in one call, so this paginates locally to keep the
// interface symmetrical with search.
func (c *Client) GetProjects(ctx context.Context, includeArchived bool, maxResults, startAt int) (*ProjectList, error) {
	maxResults, startAt = clampPage(maxResults, startAt)

	query := url.Values{}
	if includeArchived {
		query.Set("includeArchived", strconv.FormatBool(true))
	}

	var all []wireProject
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/project", query, nil, &all); err != nil {
		return nil, err
	}

	list := &ProjectList{
		Total:      len(all),
		StartAt:    startAt,
		MaxResults: maxResults,
		Projects:   []Project{},
	}
	if startAt < len(all) {
		end := startAt + maxResults
		if end > len(all) {
			end = len(all)
		}
		for _, p := range all[startAt:end] {
			list.Projects = append(list.Projects, Project{ID: p.ID, Key: p.Key, Name: p.Name})
		}
	}
	return list, nil
}
