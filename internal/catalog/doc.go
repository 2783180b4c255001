// Package catalog is the static, declarative listing of every NocoDB tool
// the server exposes: identifier, description, and argument schema.
//
// Both front doors consume it for discovery — the plain HTTP surface serves
// it verbatim at /tools, the MCP surface renders each entry into a tools/list
// schema (without the api_token argument, since that surface reads the token
// from process configuration). Dispatch never consults it.
package catalog
