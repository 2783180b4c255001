// Package httpapi implements the plain HTTP front door for the NocoDB tool
// surface.
//
// # Endpoints
//
//	GET  /health   server status, version, and remote connectivity flag
//	GET  /tools    static tool catalog with JSON Schema argument descriptions
//	POST /call     execute one named tool with a JSON arguments object
//
// # Call Semantics
//
// POST /call accepts {"name": ..., "arguments": {...}}. An unknown tool name
// or an absent API token is a request error (HTTP 400). Once dispatch starts,
// all failures come back as HTTP 200 with {"success": false, "error": ...} so
// callers can distinguish "you asked wrong" from "the call did not work".
//
// The api_token argument, when present, overrides the configured token for
// that call only.
package httpapi
