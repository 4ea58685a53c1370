package jira

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed operation input caught locally,
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a network-level failure (connection refused,
// DNS failure, transport timeout). The core never retries these.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jira request failed (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-2xx Jira response. The status code and the
// tracker-provided messages are carried verbatim so callers can tell a
// permission error from a missing issue.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("jira API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("jira API error: status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// jiraErrorBody is the error envelope Jira returns with non-2xx responses.
type jiraErrorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// parseAPIError maps a non-2xx status and body to an APIError. Bodies
// that don't match Jira's error envelope are carried as-is, truncated.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope jiraErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Messages = append(apiErr.Messages, envelope.ErrorMessages...)
		fields := make([]string, 0, len(envelope.Errors))
		for field, msg := range envelope.Errors {
			fields = append(fields, field+": "+msg)
		}
		sort.Strings(fields)
		apiErr.Messages = append(apiErr.Messages, fields...)
	}

	if len(apiErr.Messages) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" {
			const maxLen = 512
			if len(text) > maxLen {
				text = text[:maxLen]
			}
			apiErr.Messages = []string{text}
		}
	}
	return apiErr
}
