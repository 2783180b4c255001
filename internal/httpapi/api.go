// ABOUTME: HTTP API handlers for the plain REST front door.
// ABOUTME: Provides GET /health, GET /tools, and POST /call endpoints.

package httpapi

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/2389/nocodb-mcp/internal/catalog"
	"github.com/2389/nocodb-mcp/internal/nocodb"
)

// Version is the published server version.
const Version = "1.0.0"

// ToolCallRequest is the JSON request body for POST /call.
type ToolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCallResponse is the JSON response body for POST /call.
type ToolCallResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the JSON response body for GET /health.
type HealthResponse struct {
	Status          string     `json:"status"`
	Timestamp       string     `json:"timestamp"`
	Version         string     `json:"version"`
	NocoDBConnected bool       `json:"nocodb_connected"`
	ServerInfo      ServerInfo `json:"server_info"`
}

// ServerInfo describes the running server inside the health response.
type ServerInfo struct {
	Framework string `json:"framework"`
	GoVersion string `json:"go_version"`
	NocoDBURL string `json:"nocodb_url"`
}

// ToolDoc is one tool entry in the GET /tools catalog document.
type ToolDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// CatalogDoc is the JSON response body for GET /tools.
type CatalogDoc struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	Tools       []ToolDoc `json:"tools"`
}

// handleHealth handles GET /health requests. Connectivity is reported as
// whether a token is configured; no probe request is made.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resp := HealthResponse{
		Status:          "healthy",
		Timestamp:       time.Now().Format(time.RFC3339),
		Version:         Version,
		NocoDBConnected: s.client.Token() != "",
		ServerInfo: ServerInfo{
			Framework: "net/http",
			GoVersion: runtime.Version(),
			NocoDBURL: s.client.BaseURL(),
		},
	}

	s.sendJSON(w, http.StatusOK, resp)
}

// handleTools handles GET /tools requests. It returns the static catalog
// document with full input schemas, credential argument included.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	all := catalog.All()
	doc := CatalogDoc{
		Name:        "nocodb-mcp-tools",
		Description: "NocoDB Model Context Protocol tools for Cursor IDE integration",
		Version:     Version,
		Tools:       make([]ToolDoc, 0, len(all)),
	}
	for _, t := range all {
		doc.Tools = append(doc.Tools, ToolDoc{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema(true),
		})
	}

	s.sendJSON(w, http.StatusOK, doc)
}

// handleCall handles POST /call requests.
//
// Unknown tool names and a missing credential are request errors (HTTP 400).
// Everything downstream of dispatch (remote status, transport failure,
// missing argument) is reported as HTTP 200 with success=false.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()

	var req ToolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if !nocodb.IsOperation(req.Name) {
		s.sendJSONError(w, http.StatusBadRequest, "unknown tool: "+req.Name)
		return
	}

	// Per-call token overrides the configured one.
	token := s.client.Token()
	if v, ok := req.Arguments[catalog.CredentialArg].(string); ok && v != "" {
		token = v
	}
	if token == "" {
		s.sendJSONError(w, http.StatusBadRequest, "API token required")
		return
	}

	s.logger.Info("executing tool",
		"request_id", requestID,
		"tool", req.Name,
	)

	result, err := s.client.Dispatch(r.Context(), req.Name, req.Arguments, token)
	if err != nil {
		s.logger.Error("tool execution failed",
			"request_id", requestID,
			"tool", req.Name,
			"error", err,
		)
		s.sendJSON(w, http.StatusOK, ToolCallResponse{Success: false, Error: err.Error()})
		return
	}

	s.sendJSON(w, http.StatusOK, ToolCallResponse{Success: true, Result: result})
}

// sendJSON writes a JSON response with the given status code.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response with the given status code.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, map[string]string{"error": message})
}
