package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIssue_NormalizesView(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PROJ-7", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"key": "PROJ-7",
			"fields": map[string]any{
				"summary":     "Fix login",
				"description": "Users cannot log in",
				"status":      map[string]any{"name": "In Progress"},
				"assignee":    map[string]any{"displayName": "Jordan Lee"},
				"reporter":    map[string]any{"displayName": "Sam Roe"},
				"issuetype":   map[string]any{"name": "Bug"},
				"priority":    map[string]any{"name": "High"},
				"labels":      []string{"auth", "urgent"},
				"created":     "2024-01-02T10:00:00.000+0000",
			},
		})
	}))

	issue, err := client.GetIssue(context.Background(), "PROJ-7", nil)
	require.NoError(t, err)

	assert.Equal(t, "PROJ-7", issue.Key)
	assert.Equal(t, "Fix login", issue.Summary)
	assert.Equal(t, "In Progress", issue.Status)
	assert.Equal(t, "Jordan Lee", issue.Assignee)
	assert.Equal(t, "Bug", issue.IssueType)
	assert.Equal(t, "High", issue.Priority)
	assert.Equal(t, []string{"auth", "urgent"}, issue.Labels)
}

func TestGetIssue_FieldProjectionPassedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "summary,customfield_10010", r.URL.Query().Get("fields"))
		writeJSON(t, w, http.StatusOK, wireIssue{Key: "PROJ-7"})
	}))

	_, err := client.GetIssue(context.Background(), "PROJ-7", []string{"summary", "customfield_10010"})
	require.NoError(t, err)
}

func TestSearchIssues_EmptyJQLRejectedBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	for _, jql := range []string{"", "   "} {
		_, err := client.SearchIssues(context.Background(), jql, nil, 50, 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	}
	assert.Equal(t, int32(0), calls.Load(), "no network call may happen on validation failure")
}

func TestSearchIssues_PageMetadata(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/search", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "project = PROJ", body["jql"])
		assert.EqualValues(t, 2, body["maxResults"])
		assert.EqualValues(t, 1, body["startAt"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"startAt": 1, "maxResults": 2, "total": 5,
			"issues": []map[string]any{
				{"key": "PROJ-2", "fields": map[string]any{"summary": "two"}},
				{"key": "PROJ-3", "fields": map[string]any{"summary": "three"}},
			},
		})
	}))

	page, err := client.SearchIssues(context.Background(), "project = PROJ", nil, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.StartAt)
	assert.True(t, page.HasMore)
	require.Len(t, page.Issues, 2)
	assert.Equal(t, "PROJ-2", page.Issues[0].Key)
}

func TestSearchIssues_ClampsPageSize(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, MaxPageSize, body["maxResults"])
		writeJSON(t, w, http.StatusOK, wireSearch{})
	}))

	_, err := client.SearchIssues(context.Background(), "project = PROJ", nil, 5000, 0)
	require.NoError(t, err)
}

func TestCreateIssue_Payload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/2/issue", r.URL.Path)

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"key": "PROJ"}, body.Fields["project"])
		assert.Equal(t, "Implement feature", body.Fields["summary"])
		assert.Equal(t, map[string]any{"name": "Task"}, body.Fields["issuetype"], "issue type defaults to Task")
		assert.Equal(t, "custom-value", body.Fields["customfield_10010"])
		_, hasPriority := body.Fields["priority"]
		assert.False(t, hasPriority, "empty optional fields are omitted")

		writeJSON(t, w, http.StatusCreated, wireCreated{ID: "10001", Key: "PROJ-42"})
	}))

	issue, err := client.CreateIssue(context.Background(), CreateRequest{
		ProjectKey:   "proj",
		Summary:      "Implement feature",
		CustomFields: map[string]any{"customfield_10010": "custom-value"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PROJ-42", issue.Key)
}

func TestCreateIssue_LocalValidation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected")
	}))

	_, err := client.CreateIssue(context.Background(), CreateRequest{ProjectKey: "PROJ"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "summary", vErr.Field)
}

func TestUpdateIssue_FieldsSucceedCommentFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut:
			var body struct {
				Fields map[string]any `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "New title", body.Fields["summary"])
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost:
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{
				"errorMessages": []string{"comment service unavailable"},
			})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	summary := "New title"
	result, err := client.UpdateIssue(context.Background(), UpdateRequest{
		IssueKey: "PROJ-9",
		Summary:  &summary,
		Comment:  "updated the plan",
	})
	require.NoError(t, err, "a comment failure after a successful update is partial, not fatal")

	assert.True(t, result.FieldsUpdated)
	assert.False(t, result.CommentAdded)
	assert.Contains(t, result.CommentError, "comment service unavailable")
}

func TestUpdateIssue_FieldFailureIsFatal(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]any{
			"errorMessages": []string{"you do not have permission"},
		})
	}))

	summary := "x"
	_, err := client.UpdateIssue(context.Background(), UpdateRequest{
		IssueKey: "PROJ-9",
		Summary:  &summary,
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestUpdateIssue_CommentOnly(t *testing.T) {
	var putCalls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			putCalls.Add(1)
		}
		writeJSON(t, w, http.StatusCreated, wireComment{ID: "1", Body: "note"})
	}))

	result, err := client.UpdateIssue(context.Background(), UpdateRequest{
		IssueKey: "PROJ-9",
		Comment:  "note",
	})
	require.NoError(t, err)
	assert.False(t, result.FieldsUpdated)
	assert.True(t, result.CommentAdded)
	assert.Equal(t, int32(0), putCalls.Load(), "no field call when nothing changed")
}

func TestGetProjects_ClientSidePagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/project", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []wireProject{
			{ID: "1", Key: "AAA", Name: "Alpha"},
			{ID: "2", Key: "BBB", Name: "Beta"},
			{ID: "3", Key: "CCC", Name: "Gamma"},
		})
	}))

	list, err := client.GetProjects(context.Background(), false, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Projects, 2)
	assert.Equal(t, "BBB", list.Projects[0].Key)
	assert.Equal(t, "CCC", list.Projects[1].Key)
}

func TestGetProjects_IncludeArchivedFlag(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("includeArchived"))
		writeJSON(t, w, http.StatusOK, []wireProject{})
	}))

	_, err := client.GetProjects(context.Background(), true, 50, 0)
	require.NoError(t, err)
}

func TestGetComments_Pagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PROJ-1/comment", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "5", r.URL.Query().Get("startAt"))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"startAt": 5, "maxResults": 10, "total": 6,
			"comments": []map[string]any{
				{"id": "100", "body": "looks good", "author": map[string]any{"displayName": "Rev"}},
			},
		})
	}))

	list, err := client.GetComments(context.Background(), "PROJ-1", 10, 5)
	require.NoError(t, err)

	assert.Equal(t, 6, list.Total)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, "looks good", list.Comments[0].Body)
	assert.Equal(t, "Rev", list.Comments[0].Author)
}

func TestAddComment_Visibility(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "restricted note", body["body"])
		assert.Equal(t, map[string]any{"type": "role", "value": "Administrators"}, body["visibility"])
		writeJSON(t, w, http.StatusCreated, wireComment{ID: "55", Body: "restricted note"})
	}))

	comment, err := client.AddComment(context.Background(), "PROJ-1", "restricted note",
		map[string]string{"type": "role", "value": "Administrators"})
	require.NoError(t, err)
	assert.Equal(t, "55", comment.ID)
}
