package jira

// Issue is the normalized issue view returned to callers. Field names
// match the JSON payloads the tools emit.
type Issue struct {
	Key         string   `json:"key"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	Reporter    string   `json:"reporter,omitempty"`
	Created     string   `json:"created,omitempty"`
	Updated     string   `json:"updated,omitempty"`
	IssueType   string   `json:"issue_type,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// SearchResult is one page of a JQL search. Pagination control stays
// with the caller: HasMore plus Total are enough to page manually.
type SearchResult struct {
	Total      int     `json:"total"`
	StartAt    int     `json:"start_at"`
	MaxResults int     `json:"max_results"`
	HasMore    bool    `json:"has_more"`
	Issues     []Issue `json:"issues"`
}

// CreateRequest carries the fields for a new issue. Zero values are
// omitted from the create payload.
type CreateRequest struct {
	ProjectKey   string
	Summary      string
	Description  string
	IssueType    string // defaults to "Task"
	Priority     string
	Assignee     string
	Labels       []string
	CustomFields map[string]any
}

// UpdateRequest is a sparse update: nil pointers mean "leave unchanged",
// so an explicit empty string can clear a field. An optional comment is
// added in a second, independent call.
type UpdateRequest struct {
	IssueKey     string
	Summary      *string
	Description  *string
	Priority     *string
	Assignee     *string
	Labels       []string // nil = unchanged
	Comment      string
	CustomFields map[string]any
}

// UpdateResult tells the caller which of the two independent update calls
// succeeded.
type UpdateResult struct {
	Key           string `json:"key"`
	FieldsUpdated bool   `json:"fields_updated"`
	CommentAdded  bool   `json:"comment_added"`
	CommentError  string `json:"comment_error,omitempty"`
}

// CloneRequest describes a clone of an existing issue. Empty/nil override
// fields inherit the source value; explicit overrides always win.
type CloneRequest struct {
	SourceKey    string
	ProjectKey   string // target project, defaults to the source's
	Summary      string // defaults to "Clone of <source summary>"
	Description  string
	IssueType    string
	Priority     string
	Assignee     string
	Labels       []string // nil = inherit
	CustomFields map[string]any

	CopyAttachments bool
	LinkToSource    bool
}

// StepFailure records a non-fatal clone sub-step failure (attachment copy
// or link creation). The created issue is never rolled back.
type StepFailure struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

// CloneResult is the new issue's identity plus any sub-step failures the
// caller may want to retry.
type CloneResult struct {
	Issue    Issue         `json:"issue"`
	Failures []StepFailure `json:"failures,omitempty"`
}

// Comment is a normalized issue comment.
type Comment struct {
	ID      string `json:"id"`
	Author  string `json:"author,omitempty"`
	Body    string `json:"body"`
	Created string `json:"created,omitempty"`
}

// CommentList is one page of an issue's comments.
type CommentList struct {
	Total      int       `json:"total"`
	StartAt    int       `json:"start_at"`
	MaxResults int       `json:"max_results"`
	Comments   []Comment `json:"comments"`
}

// Worklog is the record returned after logging work on an issue.
type Worklog struct {
	ID        string `json:"id"`
	IssueKey  string `json:"issue_key"`
	TimeSpent string `json:"time_spent"`
	Comment   string `json:"comment,omitempty"`
	Started   string `json:"started,omitempty"`
}

// Project is a normalized Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ProjectList is one page of the project listing.
type ProjectList struct {
	Total      int       `json:"total"`
	StartAt    int       `json:"start_at"`
	MaxResults int       `json:"max_results"`
	Projects   []Project `json:"projects"`
}

// --- Jira REST wire shapes ---

type wireIssue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

type wireSearch struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []wireIssue `json:"issues"`
}

type wireCreated struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type wireComment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	Created string `json:"created"`
	Author  struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
}

type wireCommentPage struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Comments   []wireComment `json:"comments"`
}

type wireWorklog struct {
	ID        string `json:"id"`
	TimeSpent string `json:"timeSpent"`
	Started   string `json:"started"`
}

type wireProject struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// --- field extraction helpers ---

// stringField reads a plain string field from a raw fields map.
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// namedField reads sub from a nested object field, e.g. status.name or
// assignee.displayName. Missing levels yield "".
func namedField(fields map[string]any, key, sub string) string {
	obj, ok := fields[key].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[sub].(string)
	return s
}

// stringsField reads a string-array field, tolerating mixed JSON arrays.
func stringsField(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// issueView converts a raw wire issue into the normalized view.
func issueView(w wireIssue) Issue {
	return Issue{
		Key:         w.Key,
		Summary:     stringField(w.Fields, "summary"),
		Description: stringField(w.Fields, "description"),
		Status:      namedField(w.Fields, "status", "name"),
		Assignee:    namedField(w.Fields, "assignee", "displayName"),
		Reporter:    namedField(w.Fields, "reporter", "displayName"),
		Created:     stringField(w.Fields, "created"),
		Updated:     stringField(w.Fields, "updated"),
		IssueType:   namedField(w.Fields, "issuetype", "name"),
		Priority:    namedField(w.Fields, "priority", "name"),
		Labels:      stringsField(w.Fields, "labels"),
	}
}
