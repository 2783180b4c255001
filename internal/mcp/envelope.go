// ABOUTME: JSON envelopes wrapping tool outcomes for the MCP surface.
// ABOUTME: Each operation gets its own success shape; failures share one form.

package mcp

import (
	"encoding/json"
	"time"

	"github.com/2389/nocodb-mcp/internal/analytics"
	"github.com/2389/nocodb-mcp/internal/nocodb"
)

// failurePrefixes map each operation to the error phrasing its callers see.
var failurePrefixes = map[string]string{
	nocodb.OpTestConnection:       "Connection test failed",
	nocodb.OpListProjects:         "Failed to list projects",
	nocodb.OpListTables:           "Failed to list tables",
	nocodb.OpGetRecords:           "Failed to get records",
	nocodb.OpCreateRecord:         "Failed to create record",
	nocodb.OpSearchRecords:        "Failed to search records",
	nocodb.OpUpdateRecord:         "Failed to update record",
	nocodb.OpDeleteRecord:         "Failed to delete record",
	nocodb.OpCreateReactionsTable: "Failed to create Discord reactions table",
	nocodb.OpGetAnalytics:         "Failed to get analytics",
}

// failureEnvelope wraps a dispatch error for the given operation.
func failureEnvelope(op string, err error) map[string]any {
	msg := err.Error()
	if prefix, ok := failurePrefixes[op]; ok {
		msg = prefix + ": " + msg
	}
	return map[string]any{
		"success": false,
		"error":   msg,
	}
}

// successEnvelope wraps a dispatch result for the given operation. Envelopes
// echo the identifying arguments so callers can correlate responses without
// keeping request state.
func successEnvelope(op string, args map[string]any, result any, now time.Time) map[string]any {
	env := map[string]any{
		"success":   true,
		"timestamp": now.Format(time.RFC3339),
	}

	echo := func(keys ...string) {
		for _, key := range keys {
			if v, ok := args[key]; ok {
				env[key] = v
			}
		}
	}

	switch op {
	case nocodb.OpTestConnection:
		env["message"] = "Connection successful"
		env["projects_count"] = projectCount(result)
		env["projects"] = result
	case nocodb.OpListProjects:
		env["projects"] = result
	case nocodb.OpListTables:
		echo("project_id")
		env["tables"] = result
	case nocodb.OpGetRecords:
		echo("project_id", "table_id")
		env["records"] = result
	case nocodb.OpCreateRecord:
		echo("project_id", "table_id")
		env["record"] = result
	case nocodb.OpSearchRecords:
		echo("project_id", "table_id", "filters")
		env["records"] = result
	case nocodb.OpUpdateRecord:
		echo("project_id", "table_id", "record_id")
		env["record"] = result
	case nocodb.OpDeleteRecord:
		echo("project_id", "table_id", "record_id")
		env["message"] = "Record deleted successfully"
	case nocodb.OpCreateReactionsTable:
		echo("project_id")
		env["table"] = result
		env["message"] = "Discord Heart Reactions table created successfully"
	case nocodb.OpGetAnalytics:
		echo("project_id", "table_id")
		if report, ok := result.(analytics.Report); ok {
			env["analytics"] = report.Analytics
			env["summary"] = report.Summary
		}
	default:
		env["result"] = result
	}

	return env
}

// projectCount counts entries in a NocoDB project list response.
func projectCount(result any) int {
	obj, ok := result.(map[string]any)
	if !ok {
		return 0
	}
	list, ok := obj["list"].([]any)
	if !ok {
		return 0
	}
	return len(list)
}

// encodeEnvelope renders an envelope as compact JSON text. Envelopes are
// built from marshalable values only, so failure is not expected; a broken
// one still yields a valid error body.
func encodeEnvelope(env map[string]any) string {
	encoded, err := json.Marshal(env)
	if err != nil {
		return `{"success":false,"error":"failed to encode result"}`
	}
	return string(encoded)
}
