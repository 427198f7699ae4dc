package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// extractModuleTool returns the tool definition for extract_module
func extractModuleTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_module",
		Description: "Extract documentation nodes from a Quill module by loading it through the interception pipeline",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module identifier resolvable on the configured search path",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, persist the extracted catalogue for later queries",
					"default":     true,
				},
			},
			Required: []string{"module"},
		},
	}
}

// listModulesTool returns the tool definition for list_modules
func listModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_modules",
		Description: "List modules with a stored documentation catalogue",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listNodesTool returns the tool definition for list_nodes
func listNodesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_nodes",
		Description: "List the documentation nodes of a stored module catalogue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module whose catalogue to list",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one node kind",
					"enum": []string{
						"function", "macro", "generic-function", "method",
						"type", "variable", "struct", "class",
					},
				},
			},
			Required: []string{"module"},
		},
	}
}

// describeSymbolTool returns the tool definition for describe_symbol
func describeSymbolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "describe_symbol",
		Description: "Search stored catalogues for documentation nodes matching a symbol name",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name to search for (case-insensitive substring match)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"name"},
		},
	}
}
