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

func TestValidTimeSpent(t *testing.T) {
	valid := []string{"2h 30m", "1d", "30m", "1w 2d 3h 4m", "  2H  ", "120m"}
	for _, s := range valid {
		assert.True(t, ValidTimeSpent(s), "%q should be valid", s)
	}

	invalid := []string{"", "   ", "2 hours", "h", "2x", "2h30m extra-", "-1h", "2.5h"}
	for _, s := range invalid {
		assert.False(t, ValidTimeSpent(s), "%q should be invalid", s)
	}
}

func TestLogWork_BadFormatRejectedBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.LogWork(context.Background(), "PROJ-1", "two hours", "", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "time_spent", vErr.Field)
	assert.Equal(t, int32(0), calls.Load())
}

func TestLogWork_Payload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/2/issue/PROJ-1/worklog", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2h 30m", body["timeSpent"])
		assert.Equal(t, "reviewed the fix", body["comment"])
		_, hasStarted := body["started"]
		assert.False(t, hasStarted, "started defaults server-side")

		writeJSON(t, w, http.StatusCreated, wireWorklog{
			ID: "7", TimeSpent: "2h 30m", Started: "2024-03-05T14:30:00.000+0000",
		})
	}))

	wl, err := client.LogWork(context.Background(), "PROJ-1", "2H 30M", "reviewed the fix", "")
	require.NoError(t, err)

	assert.Equal(t, "7", wl.ID)
	assert.Equal(t, "PROJ-1", wl.IssueKey)
	assert.Equal(t, "2h 30m", wl.TimeSpent)
}
