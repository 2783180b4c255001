// ABOUTME: Tests for the plain HTTP front door handlers.
// ABOUTME: Covers health, catalog, call dispatch, and error status mapping.

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/nocodb-mcp/internal/nocodb"
)

// newTestServer builds a Server backed by a fake NocoDB instance.
func newTestServer(t *testing.T, token string, backend http.HandlerFunc) *Server {
	t.Helper()

	var baseURL string
	if backend != nil {
		upstream := httptest.NewServer(backend)
		t.Cleanup(upstream.Close)
		baseURL = upstream.URL
	} else {
		baseURL = "http://nocodb.invalid"
	}

	client := nocodb.NewClient(nocodb.Config{
		BaseURL:  baseURL,
		APIToken: token,
		Logger:   slog.New(slog.NewTextHandler(testWriter{t}, nil)),
	})
	t.Cleanup(client.Close)

	return New(Config{Addr: "127.0.0.1:0", Client: client, Logger: slog.New(slog.NewTextHandler(testWriter{t}, nil))})
}

// testWriter routes log output through the test log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.True(t, resp.NocoDBConnected)
	assert.NotEmpty(t, resp.Timestamp)
	assert.NotEmpty(t, resp.ServerInfo.NocoDBURL)
}

func TestHandleHealth_NoToken(t *testing.T) {
	s := newTestServer(t, "", nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.NocoDBConnected)
}

func TestHandleTools(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	rec := httptest.NewRecorder()
	s.handleTools(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var doc CatalogDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "nocodb-mcp-tools", doc.Name)
	assert.Len(t, doc.Tools, 10)

	for _, tool := range doc.Tools {
		var schema map[string]any
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), "schema for %s", tool.Name)
		assert.Equal(t, "object", schema["type"], "schema for %s", tool.Name)
	}
}

func TestHandleCall_Success(t *testing.T) {
	backend := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("xc-token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"list":[{"id":"p1"}]}`))
	}
	s := newTestServer(t, "tok", backend)

	body := `{"name":"nocodb_list_projects","arguments":{}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ToolCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestHandleCall_TokenOverride(t *testing.T) {
	backend := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "override-tok", r.Header.Get("xc-token"))
		w.Write([]byte(`{"list":[]}`))
	}
	s := newTestServer(t, "config-tok", backend)

	body := `{"name":"nocodb_list_projects","arguments":{"api_token":"override-tok"}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCall_UnknownTool(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	body := `{"name":"nocodb_nonexistent","arguments":{}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCall_MissingToken(t *testing.T) {
	s := newTestServer(t, "", nil)

	body := `{"name":"nocodb_list_projects","arguments":{}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCall_InvalidBody(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCall_DispatchFailureIs200(t *testing.T) {
	backend := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}
	s := newTestServer(t, "tok", backend)

	body := `{"name":"nocodb_list_projects","arguments":{}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ToolCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "404")
}

func TestHandleCall_MissingArgumentIs200(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	// table_id absent; dispatch fails before touching the network.
	body := `{"name":"nocodb_get_records","arguments":{"project_id":"p1"}}`
	rec := httptest.NewRecorder()
	s.handleCall(rec, httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ToolCallResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "table_id")
}

func TestMethodGuards(t *testing.T) {
	s := newTestServer(t, "tok", nil)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
	}{
		{"health rejects POST", s.handleHealth, http.MethodPost},
		{"tools rejects POST", s.handleTools, http.MethodPost},
		{"call rejects GET", s.handleCall, http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, "/", nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}
