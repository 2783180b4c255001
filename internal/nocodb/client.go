// ABOUTME: Request dispatcher translating tool invocations into single NocoDB REST calls.
// ABOUTME: Owns the operation table, argument validation, auth header, and result normalization.

package nocodb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2389/nocodb-mcp/internal/analytics"
)

// Operation identifiers form a fixed set; dispatching any other name fails
// with ErrInvalidOperation before a request is built.
const (
	OpTestConnection        = "nocodb_test_connection"
	OpListProjects          = "nocodb_list_projects"
	OpListTables            = "nocodb_list_tables"
	OpGetRecords            = "nocodb_get_records"
	OpCreateRecord          = "nocodb_create_record"
	OpSearchRecords         = "nocodb_search_records"
	OpUpdateRecord          = "nocodb_update_record"
	OpDeleteRecord          = "nocodb_delete_record"
	OpCreateReactionsTable  = "nocodb_create_discord_reactions_table"
	OpGetAnalytics          = "nocodb_get_analytics"
)

// analyticsFetchLimit is how many records a single analytics pass reads.
const analyticsFetchLimit = 1000

// operation describes how one tool call maps onto a NocoDB REST request.
type operation struct {
	method   string
	path     string // template; {project_id}, {table_id}, {record_id} are substituted
	required []string
	query    func(args map[string]any) (url.Values, error)
	body     func(args map[string]any) (any, error)
}

var operations = map[string]operation{
	OpTestConnection: {
		method: http.MethodGet,
		path:   "/api/v1/db/meta/projects",
	},
	OpListProjects: {
		method: http.MethodGet,
		path:   "/api/v1/db/meta/projects",
	},
	OpListTables: {
		method:   http.MethodGet,
		path:     "/api/v1/db/meta/projects/{project_id}/tables",
		required: []string{"project_id"},
	},
	OpGetRecords: {
		method:   http.MethodGet,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}",
		required: []string{"project_id", "table_id"},
		query: func(args map[string]any) (url.Values, error) {
			v := url.Values{}
			v.Set("limit", strconv.Itoa(intArg(args, "limit", 10)))
			v.Set("offset", strconv.Itoa(intArg(args, "offset", 0)))
			return v, nil
		},
	},
	OpCreateRecord: {
		method:   http.MethodPost,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}",
		required: []string{"project_id", "table_id", "record_data"},
		body: func(args map[string]any) (any, error) {
			return args["record_data"], nil
		},
	},
	OpSearchRecords: {
		method:   http.MethodGet,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}",
		required: []string{"project_id", "table_id", "filters"},
		query: func(args map[string]any) (url.Values, error) {
			where, err := json.Marshal(args["filters"])
			if err != nil {
				return nil, fmt.Errorf("encoding filters: %w", err)
			}
			v := url.Values{}
			v.Set("where", string(where))
			return v, nil
		},
	},
	OpUpdateRecord: {
		method:   http.MethodPatch,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}/{record_id}",
		required: []string{"project_id", "table_id", "record_id", "record_data"},
		body: func(args map[string]any) (any, error) {
			return args["record_data"], nil
		},
	},
	OpDeleteRecord: {
		method:   http.MethodDelete,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}/{record_id}",
		required: []string{"project_id", "table_id", "record_id"},
	},
	OpCreateReactionsTable: {
		method:   http.MethodPost,
		path:     "/api/v1/db/meta/projects/{project_id}/tables",
		required: []string{"project_id"},
		body: func(map[string]any) (any, error) {
			return ReactionsTableSchema(), nil
		},
	},
	OpGetAnalytics: {
		method:   http.MethodGet,
		path:     "/api/v1/db/data/noco/{project_id}/{table_id}",
		required: []string{"project_id", "table_id"},
		query: func(map[string]any) (url.Values, error) {
			v := url.Values{}
			v.Set("limit", strconv.Itoa(analyticsFetchLimit))
			return v, nil
		},
	},
}

// OperationNames returns the fixed operation set in catalog order.
func OperationNames() []string {
	return []string{
		OpTestConnection,
		OpListProjects,
		OpListTables,
		OpGetRecords,
		OpCreateRecord,
		OpSearchRecords,
		OpUpdateRecord,
		OpDeleteRecord,
		OpCreateReactionsTable,
		OpGetAnalytics,
	}
}

// IsOperation reports whether name is in the fixed operation set.
func IsOperation(name string) bool {
	_, ok := operations[name]
	return ok
}

// Config holds client construction parameters.
type Config struct {
	BaseURL        string
	APIToken       string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Client dispatches tool invocations against a NocoDB instance through one
// shared Session.
type Client struct {
	baseURL string
	token   string
	session *Session
	logger  *slog.Logger
}

// NewClient creates a Client for the given NocoDB instance. The base URL is
// normalized by stripping a trailing slash.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		session: NewSession(cfg.RequestTimeout),
		logger:  logger,
	}
}

// BaseURL returns the configured NocoDB base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the configured default API token (may be empty).
func (c *Client) Token() string { return c.token }

// Close releases the shared HTTP session.
func (c *Client) Close() { c.session.Release() }

// Dispatch executes one named operation. Pre-flight failures (unknown
// operation, missing argument, missing credential) never touch the network.
// On success the parsed JSON response is returned; delete returns a fixed
// confirmation object, and the analytics operation returns an aggregate
// report computed over the fetched records.
func (c *Client) Dispatch(ctx context.Context, name string, args map[string]any, token string) (any, error) {
	op, ok := operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOperation, name)
	}

	if token == "" {
		return nil, ErrMissingCredential
	}

	for _, req := range op.required {
		if !argPresent(args, req) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArgument, req)
		}
	}

	target, err := c.buildURL(op, args)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if op.body != nil {
		payload, err := op.body(args)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, op.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("xc-token", token)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("dispatching operation",
		"operation", name,
		"method", op.method,
		"url", target,
	)

	resp, err := c.session.Acquire().Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	// NocoDB answers deletes with an empty body; surface a fixed confirmation
	// instead of attempting to parse it.
	if name == OpDeleteRecord {
		return map[string]any{"message": "Record deleted successfully"}, nil
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parsing response body: %w", err)
	}

	if name == OpGetAnalytics {
		return analytics.Aggregate(extractRecords(result), time.Now()), nil
	}

	return result, nil
}

// buildURL joins the base URL (or the per-call override) with the operation
// path, substituting escaped path parameters and appending the query string.
func (c *Client) buildURL(op operation, args map[string]any) (string, error) {
	base := c.baseURL
	if override := stringArg(args, "url"); override != "" {
		base = strings.TrimRight(override, "/")
	}

	path := op.path
	for _, param := range []string{"project_id", "table_id", "record_id"} {
		placeholder := "{" + param + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(stringArg(args, param)))
		}
	}

	target := base + path
	if op.query != nil {
		values, err := op.query(args)
		if err != nil {
			return "", err
		}
		target += "?" + values.Encode()
	}
	return target, nil
}

// extractRecords pulls the record list out of a NocoDB data response.
func extractRecords(result any) []analytics.Record {
	obj, ok := result.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := obj["list"].([]any)
	if !ok {
		return nil
	}
	records := make([]analytics.Record, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}

// argPresent reports whether a required argument carries a usable value.
// Strings must be non-empty; any other non-nil value counts.
func argPresent(args map[string]any, key string) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// stringArg returns the named argument as a string, or "" when absent.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg returns the named argument as an int, tolerating the float64 values
// produced by JSON decoding. Falls back to def when absent or not numeric.
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}
