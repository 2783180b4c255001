// ABOUTME: Static tool catalog describing every NocoDB operation and its argument schema.
// ABOUTME: Discovery metadata only; the dispatcher owns its own operation table.

package catalog

import (
	"encoding/json"

	"github.com/2389/nocodb-mcp/internal/nocodb"
)

// CredentialArg is the argument name carrying the NocoDB API token. It is
// part of the published schemas but is validated as a credential, not as an
// ordinary required argument.
const CredentialArg = "api_token"

// Argument describes one tool argument for discovery.
type Argument struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
}

// Tool describes one callable operation for discovery.
type Tool struct {
	Name        string
	Description string
	Args        []Argument
}

// RequiredArgs returns the names of required arguments, excluding the
// credential (a missing token is a credential failure, not an argument one).
func (t Tool) RequiredArgs() []string {
	var names []string
	for _, a := range t.Args {
		if a.Required && a.Name != CredentialArg {
			names = append(names, a.Name)
		}
	}
	return names
}

// InputSchema renders the tool's argument list as a JSON Schema object.
// When includeCredential is false the api_token argument is omitted (the MCP
// surface sources the token from process configuration instead).
func (t Tool) InputSchema(includeCredential bool) json.RawMessage {
	properties := make(map[string]any, len(t.Args))
	var required []string
	for _, a := range t.Args {
		if a.Name == CredentialArg && !includeCredential {
			continue
		}
		prop := map[string]any{
			"type":        a.Type,
			"description": a.Description,
		}
		if a.Default != nil {
			prop["default"] = a.Default
		}
		properties[a.Name] = prop
		if a.Required {
			required = append(required, a.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	encoded, err := json.Marshal(schema)
	if err != nil {
		// The schema is built from static data; marshaling cannot fail.
		panic(err)
	}
	return encoded
}

var tokenArg = Argument{Name: CredentialArg, Type: "string", Description: "NocoDB API token", Required: true}

var tools = []Tool{
	{
		Name:        nocodb.OpTestConnection,
		Description: "Test connection to NocoDB instance",
		Args: []Argument{
			{Name: "url", Type: "string", Description: "NocoDB instance URL"},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpListProjects,
		Description: "List all projects in NocoDB",
		Args:        []Argument{tokenArg},
	},
	{
		Name:        nocodb.OpListTables,
		Description: "List tables in a project",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpGetRecords,
		Description: "Get records from table",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			{Name: "limit", Type: "integer", Description: "Max records", Default: 10},
			{Name: "offset", Type: "integer", Description: "Offset", Default: 0},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpCreateRecord,
		Description: "Create new record",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			{Name: "record_data", Type: "object", Description: "Record data", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpSearchRecords,
		Description: "Search records with filters",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			{Name: "filters", Type: "object", Description: "Search filters", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpUpdateRecord,
		Description: "Update existing record",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			{Name: "record_id", Type: "string", Description: "Record ID", Required: true},
			{Name: "record_data", Type: "object", Description: "Updated data", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpDeleteRecord,
		Description: "Delete record",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			{Name: "record_id", Type: "string", Description: "Record ID", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpCreateReactionsTable,
		Description: "Create Discord reactions table",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			tokenArg,
		},
	},
	{
		Name:        nocodb.OpGetAnalytics,
		Description: "Get Discord reactions analytics",
		Args: []Argument{
			{Name: "project_id", Type: "string", Description: "Project ID", Required: true},
			{Name: "table_id", Type: "string", Description: "Table ID", Required: true},
			tokenArg,
		},
	},
}

// All returns every tool in catalog order.
func All() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Lookup finds a tool by name.
func Lookup(name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
