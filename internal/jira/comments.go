package jira

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AddComment adds a comment to an issue. visibility, when non-nil, is
// passed through as Jira's visibility object (e.g. {"type": "role",
// "value": "Administrators"}).
func (c *Client) AddComment(ctx context.Context, issueKey, body string, visibility map[string]string) (*Comment, error) {
	if strings.TrimSpace(issueKey) == "" {
		return nil, &ValidationError{Field: "issue_key", Reason: "must not be empty"}
	}
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "comment", Reason: "must not be empty"}
	}

	payload := map[string]any{"body": body}
	if len(visibility) > 0 {
		payload["visibility"] = visibility
	}

	var w wireComment
	if err := c.do(ctx, http.MethodPost, issuePath(issueKey, "comment"), nil, payload, &w); err != nil {
		return nil, err
	}
	return &Comment{
		ID:      w.ID,
		Author:  w.Author.DisplayName,
		Body:    w.Body,
		Created: w.Created,
	}, nil
}

// GetComments lists an issue's comments with pagination symmetrical to
// search.
func (c *Client) GetComments(ctx context.Context, issueKey string, maxResults, startAt int) (*CommentList, error) {
	if strings.TrimSpace(issueKey) == "" {
		return nil, &ValidationError{Field: "issue_key", Reason: "must not be empty"}
	}
	maxResults, startAt = clampPage(maxResults, startAt)

	query := url.Values{}
	query.Set("startAt", strconv.Itoa(startAt))
	query.Set("maxResults", strconv.Itoa(maxResults))

	var page wireCommentPage
	if err := c.do(ctx, http.MethodGet, issuePath(issueKey, "comment"), query, nil, &page); err != nil {
		return nil, err
	}

	list := &CommentList{
		Total:      page.Total,
		StartAt:    startAt,
		MaxResults: maxResults,
		Comments:   make([]Comment, 0, len(page.Comments)),
	}
	for _, w := range page.Comments {
		list.Comments = append(list.Comments, Comment{
			ID:      w.ID,
			Author:  w.Author.DisplayName,
			Body:    w.Body,
			Created: w.Created,
		})
	}
	return list, nil
}
