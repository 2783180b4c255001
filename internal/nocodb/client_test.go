// ABOUTME: Tests for the operation dispatcher against a fake NocoDB backend.
// ABOUTME: Covers routing, defaults, pre-flight failures, and error mapping.

package nocodb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/nocodb-mcp/internal/analytics"
)

// capturedRequest records what the fake backend saw.
type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Token  string
	Body   []byte
}

// newTestClient points a Client at a fake backend and captures each request.
func newTestClient(t *testing.T, status int, responseBody string) (*Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = make(map[string]string)
		for key := range r.URL.Query() {
			captured.Query[key] = r.URL.Query().Get(key)
		}
		captured.Token = r.Header.Get("xc-token")
		captured.Body, _ = io.ReadAll(r.Body)

		w.WriteHeader(status)
		w.Write([]byte(responseBody))
	}))
	t.Cleanup(upstream.Close)

	client := NewClient(Config{BaseURL: upstream.URL, APIToken: "default-token"})
	t.Cleanup(client.Close)
	return client, captured
}

func TestDispatch_UnknownOperation(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://nocodb.invalid", APIToken: "tok"})
	defer client.Close()

	_, err := client.Dispatch(context.Background(), "nocodb_explode", nil, "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOperation))
}

func TestDispatch_MissingCredential(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://nocodb.invalid"})
	defer client.Close()

	_, err := client.Dispatch(context.Background(), OpListProjects, nil, "")
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestDispatch_MissingArgument(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://nocodb.invalid", APIToken: "tok"})
	defer client.Close()

	tests := []struct {
		op      string
		args    map[string]any
		wantArg string
	}{
		{OpListTables, nil, "project_id"},
		{OpGetRecords, map[string]any{"project_id": "p1"}, "table_id"},
		{OpSearchRecords, map[string]any{"project_id": "p1", "table_id": "t1"}, "filters"},
		{OpUpdateRecord, map[string]any{"project_id": "p1", "table_id": "t1", "record_id": "r1"}, "record_data"},
		{OpDeleteRecord, map[string]any{"project_id": "p1", "table_id": "t1"}, "record_id"},
		// Empty strings do not satisfy a required argument.
		{OpListTables, map[string]any{"project_id": ""}, "project_id"},
	}

	for _, tt := range tests {
		t.Run(tt.op+"/"+tt.wantArg, func(t *testing.T) {
			_, err := client.Dispatch(context.Background(), tt.op, tt.args, "tok")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingArgument))
			assert.Contains(t, err.Error(), tt.wantArg)
		})
	}
}

func TestDispatch_ListProjects(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"list":[{"id":"p1"}]}`)

	result, err := client.Dispatch(context.Background(), OpListProjects, nil, "tok-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, captured.Method)
	assert.Equal(t, "/api/v1/db/meta/projects", captured.Path)
	assert.Equal(t, "tok-1", captured.Token)

	obj, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Len(t, obj["list"], 1)
}

func TestDispatch_GetRecordsDefaults(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"list":[]}`)

	args := map[string]any{"project_id": "p1", "table_id": "t1"}
	_, err := client.Dispatch(context.Background(), OpGetRecords, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/db/data/noco/p1/t1", captured.Path)
	assert.Equal(t, "10", captured.Query["limit"])
	assert.Equal(t, "0", captured.Query["offset"])
}

func TestDispatch_GetRecordsExplicitPaging(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"list":[]}`)

	args := map[string]any{
		"project_id": "p1",
		"table_id":   "t1",
		// JSON-decoded numbers arrive as float64
		"limit":  float64(25),
		"offset": float64(50),
	}
	_, err := client.Dispatch(context.Background(), OpGetRecords, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, "25", captured.Query["limit"])
	assert.Equal(t, "50", captured.Query["offset"])
}

func TestDispatch_SearchRecordsWhere(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"list":[]}`)

	args := map[string]any{
		"project_id": "p1",
		"table_id":   "t1",
		"filters":    map[string]any{"mood": "dark"},
	}
	_, err := client.Dispatch(context.Background(), OpSearchRecords, args, "tok")
	require.NoError(t, err)

	assert.JSONEq(t, `{"mood":"dark"}`, captured.Query["where"])
}

func TestDispatch_CreateRecordBody(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"id":"r1"}`)

	args := map[string]any{
		"project_id":  "p1",
		"table_id":    "t1",
		"record_data": map[string]any{"message_content": "hi"},
	}
	_, err := client.Dispatch(context.Background(), OpCreateRecord, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.JSONEq(t, `{"message_content":"hi"}`, string(captured.Body))
}

func TestDispatch_UpdateRecordUsesPatch(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"id":"r1"}`)

	args := map[string]any{
		"project_id":  "p1",
		"table_id":    "t1",
		"record_id":   "r1",
		"record_data": map[string]any{"mood": "calm"},
	}
	_, err := client.Dispatch(context.Background(), OpUpdateRecord, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, captured.Method)
	assert.Equal(t, "/api/v1/db/data/noco/p1/t1/r1", captured.Path)
}

func TestDispatch_DeleteRecordConfirmation(t *testing.T) {
	// NocoDB answers deletes with an empty body.
	client, captured := newTestClient(t, http.StatusOK, "")

	args := map[string]any{"project_id": "p1", "table_id": "t1", "record_id": "r1"}
	result, err := client.Dispatch(context.Background(), OpDeleteRecord, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, captured.Method)
	assert.Equal(t, map[string]any{"message": "Record deleted successfully"}, result)
}

func TestDispatch_CreateReactionsTableSchema(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"id":"t-new"}`)

	args := map[string]any{"project_id": "p1"}
	_, err := client.Dispatch(context.Background(), OpCreateReactionsTable, args, "tok")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/db/meta/projects/p1/tables", captured.Path)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(captured.Body, &schema))
	assert.Equal(t, "discord_heart_reactions", schema["table_name"])
	columns, ok := schema["columns"].([]any)
	require.True(t, ok)
	assert.Len(t, columns, 13)
}

func TestDispatch_AnalyticsAggregates(t *testing.T) {
	body := `{"list":[
		{"image_url":"https://x/a.png","cinematic":true,"shot_type":"wide"},
		{"cinematic":false,"shot_type":"wide"},
		{"anime":true,"sref_code":"s1"}
	]}`
	client, captured := newTestClient(t, http.StatusOK, body)

	args := map[string]any{"project_id": "p1", "table_id": "t1"}
	result, err := client.Dispatch(context.Background(), OpGetAnalytics, args, "tok")
	require.NoError(t, err)

	// Analytics reads a fixed 1000-record window, ignoring caller paging.
	assert.Equal(t, "1000", captured.Query["limit"])

	report, ok := result.(analytics.Report)
	require.True(t, ok, "result has type %T", result)
	assert.Equal(t, 3, report.Analytics.TotalReactions)
	assert.Equal(t, 1, report.Analytics.WithImages)
	assert.Equal(t, 1, report.Analytics.CinematicCount)
	assert.Equal(t, 2, report.Analytics.ShotTypes["wide"])
}

func TestDispatch_RemoteError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, "no such table")

	_, err := client.Dispatch(context.Background(), OpListProjects, nil, "tok")
	require.Error(t, err)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusNotFound, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Body, "no such table")
}

func TestDispatch_TransportError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", APIToken: "tok"})
	defer client.Close()

	_, err := client.Dispatch(context.Background(), OpListProjects, nil, "tok")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestDispatch_URLOverride(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"list":[]}`))
	}))
	defer upstream.Close()

	// Configured base is unroutable; the per-call url argument must win.
	client := NewClient(Config{BaseURL: "http://unused.invalid", APIToken: "tok"})
	defer client.Close()

	args := map[string]any{"url": upstream.URL + "/"}
	_, err := client.Dispatch(context.Background(), OpListProjects, args, "tok")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/db/meta/projects", gotPath)
}

func TestOperationNames(t *testing.T) {
	names := OperationNames()
	assert.Len(t, names, 10)
	assert.True(t, IsOperation(OpGetAnalytics))
	assert.False(t, IsOperation("definitely_not_a_tool"))
}
