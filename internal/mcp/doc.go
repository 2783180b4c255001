// Package mcp implements the Model Context Protocol front door for the
// NocoDB tool surface.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package provides an MCP-compatible HTTP server exposing the NocoDB
// operations to external AI clients (Claude Desktop, Cursor, custom
// applications).
//
// # Protocol
//
// The server implements the MCP Streamable HTTP transport: JSON-RPC 2.0
// messages over HTTP POST to a single /mcp endpoint. Sessions are
// established by the initialize handshake and carried in the Mcp-Session-Id
// header; DELETE /mcp terminates a session. Server-initiated SSE streams are
// not supported.
//
// # Tool Discovery
//
// Clients call tools/list to discover available tools:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/list",
//	  "id": 1
//	}
//
// The tool set is static: the ten NocoDB operations plus health_check.
// Unlike the plain HTTP surface, schemas here omit the api_token argument;
// the token comes from process configuration and is required at startup.
//
// # Tool Execution
//
// tools/call returns a single text content item containing a JSON envelope.
// Success envelopes carry operation-specific fields plus a timestamp;
// failure envelopes are {"success": false, "error": ...}. Tool failures stay
// inside the envelope (with isError set on the result) so that clients see
// them as tool output; JSON-RPC errors are reserved for malformed requests.
package mcp
