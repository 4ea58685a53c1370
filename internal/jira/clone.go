package jira

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// serverManagedFields are never copied into a clone's create payload:
// Jira owns them (identity, timestamps, computed aggregates) and rejects
// or silently ignores them on create.
var serverManagedFields = map[string]bool{
	"created":                       true,
	"updated":                       true,
	"creator":                       true,
	"reporter":                      true,
	"status":                        true,
	"statuscategorychangedate":      true,
	"resolution":                    true,
	"resolutiondate":                true,
	"lastViewed":                    true,
	"votes":                         true,
	"watches":                       true,
	"worklog":                       true,
	"comment":                       true,
	"attachment":                    true,
	"subtasks":                      true,
	"issuelinks":                    true,
	"progress":                      true,
	"aggregateprogress":             true,
	"timespent":                     true,
	"aggregatetimespent":            true,
	"aggregatetimeestimate":         true,
	"aggregatetimeoriginalestimate": true,
	"timetracking":                  true,
	"workratio":                     true,
}

// CloneIssue creates a new issue seeded from an existing one: projects
// often enforce mandatory custom fields that are awkward to populate from
// scratch, and cloning inherits a known-valid field set.
//
// The operation composes one read and up to several writes:
//
//  1. fetch the source issue with its full field set;
//  2. build the create payload from copyable source fields, the target
//     project (defaulting to the source's), and explicit overrides, which
//     always win;
//  3. create the new issue;
//  4. optionally copy attachments and link back to the source — failures
//     in these sub-steps are collected in the result, never rolled back.
func (c *Client) CloneIssue(ctx context.Context, req CloneRequest) (*CloneResult, error) {
	key := strings.ToUpper(strings.TrimSpace(req.SourceKey))
	if key == "" || !strings.Contains(key, "-") {
		return nil, &ValidationError{Field: "source_issue_key", Reason: "must be in PROJECT-123 form"}
	}

	source, err := c.getIssueRaw(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching source issue %s: %w", key, err)
	}

	fields := c.composeCloneFields(source, req)

	created, err := c.createFromFields(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("creating clone of %s: %w", key, err)
	}
	c.log.Info("issue cloned",
		zap.String("source", key),
		zap.String("clone", created.Key))

	result := &CloneResult{
		Issue: issueView(wireIssue{Key: created.Key, Fields: fields}),
	}

	if req.CopyAttachments {
		result.Failures = append(result.Failures, c.copyAttachments(ctx, source, created.Key)...)
	}

	if req.LinkToSource {
		if err := c.linkClone(ctx, created.Key, key); err != nil {
			result.Failures = append(result.Failures,
				StepFailure{Step: "link", Detail: err.Error()})
		}
	}

	return result, nil
}

// composeCloneFields reconciles the three field sources: copyable source
// fields first, then the target project, then explicit overrides last so
// they win over carried-over values. Fields absent from both the source
// and the overrides are simply omitted.
func (c *Client) composeCloneFields(source *wireIssue, req CloneRequest) map[string]any {
	fields := make(map[string]any, len(source.Fields))
	for name, value := range source.Fields {
		if serverManagedFields[name] || value == nil {
			continue
		}
		fields[name] = value
	}

	// Target project: explicit override or the source's own project.
	projectKey := strings.ToUpper(strings.TrimSpace(req.ProjectKey))
	if projectKey == "" {
		projectKey = namedField(source.Fields, "project", "key")
	}
	// Override values use the same shapes the JSON decoder produces, so
	// the composed map converts back to an Issue view uniformly.
	fields["project"] = map[string]any{"key": projectKey}

	if req.Summary != "" {
		fields["summary"] = req.Summary
	} else {
		fields["summary"] = "Clone of " + stringField(source.Fields, "summary")
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.IssueType != "" {
		fields["issuetype"] = map[string]any{"name": req.IssueType}
	}
	if req.Priority != "" {
		fields["priority"] = map[string]any{"name": req.Priority}
	}
	if req.Assignee != "" {
		fields["assignee"] = map[string]any{"name": req.Assignee}
	}
	if req.Labels != nil {
		labels := make([]any, len(req.Labels))
		for i, l := range req.Labels {
			labels[i] = l
		}
		fields["labels"] = labels
	}
	for k, v := range req.CustomFields {
		fields[k] = v
	}
	return fields
}

// copyAttachments downloads each source attachment and re-uploads it
// against the new issue. Each attachment fails independently; the clone
// stands regardless.
func (c *Client) copyAttachments(ctx context.Context, source *wireIssue, newKey string) []StepFailure {
	raw, ok := source.Fields["attachment"].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	var failures []StepFailure
	for i, entry := range raw {
		att, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		filename, _ := att["filename"].(string)
		contentURL, _ := att["content"].(string)
		if filename == "" {
			filename = fmt.Sprintf("attachment-%d", i+1)
		}
		if contentURL == "" {
			failures = append(failures, StepFailure{
				Step:   "attachment:" + filename,
				Detail: "source attachment has no content URL",
			})
			continue
		}

		data, err := c.getRaw(ctx, contentURL)
		if err != nil {
			failures = append(failures, StepFailure{
				Step:   "attachment:" + filename,
				Detail: "download: " + err.Error(),
			})
			continue
		}
		if err := c.uploadAttachment(ctx, newKey, filename, data); err != nil {
			failures = append(failures, StepFailure{
				Step:   "attachment:" + filename,
				Detail: "upload: " + err.Error(),
			})
			continue
		}
		c.log.Debug("attachment copied",
			zap.String("clone", newKey),
			zap.String("filename", filename))
	}
	return failures
}

// linkClone records the "cloned from" relationship between the new issue
// and its source.
func (c *Client) linkClone(ctx context.Context, newKey, sourceKey string) error {
	body := map[string]any{
		"type":         map[string]string{"name": "Cloners"},
		"inwardIssue":  map[string]string{"key": newKey},
		"outwardIssue": map[string]string{"key": sourceKey},
	}
	return c.do(ctx, http.MethodPost, apiPrefix+"/issueLink", nil, body, nil)
}
