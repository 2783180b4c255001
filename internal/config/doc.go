// Package config handles configuration loading for the NocoDB MCP server.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, or built purely from the environment when no file exists. The
// package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from NOCODB_MCP_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/nocodb-mcp/config.yaml
//  3. ~/.config/nocodb-mcp/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	nocodb:
//	  api_token: "${NOCODB_API_TOKEN}"
//
// Syntax: ${VAR_NAME}
//
// # Environment Fallback
//
// Fields left empty (or missing config file entirely) fall back to:
//
//	NOCODB_URL        nocodb.base_url   (default https://nocodb.v1su4.com)
//	NOCODB_API_TOKEN  nocodb.api_token
//	PORT              server.http_addr  (default 0.0.0.0:3001)
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:3001"
//
//	nocodb:
//	  base_url: "https://nocodb.example.com"
//	  api_token: "${NOCODB_API_TOKEN}"
//	  request_timeout: "30s"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Token Requirement
//
// Validate() tolerates a missing API token because the plain HTTP surface
// defers that failure to the first tool call. The MCP surface calls
// RequireToken() at startup and refuses to run without one.
package config
