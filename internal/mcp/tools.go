package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quill-lang/quilldoc/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams        = -32602 // Invalid method parameters
	ErrorCodeInternalError        = -32603 // Internal JSON-RPC error
	ErrorCodeModuleNotFound       = -32001 // No stored catalogue for the module
	ErrorCodeExtractionInProgress = -32002 // Another extraction already holds the pipeline hook
)

// handleExtractModule handles the extract_module tool invocation
func (s *Server) handleExtractModule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	module, ok := args["module"].(string)
	if !ok || module == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "module parameter is required", map[string]interface{}{
			"param":  "module",
			"reason": "missing or empty",
		})
	}
	save := getBoolDefault(args, "save", true)

	if !s.extracting.TryAcquire(1) {
		return nil, newMCPError(ErrorCodeExtractionInProgress, "another extraction is in progress", nil)
	}
	defer s.extracting.Release(1)

	nodes, err := s.engine.Parse(ctx, module)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if save {
		if err := s.storage.SaveCatalogue(ctx, module, nodes); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to save catalogue", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	summary := make([]map[string]interface{}, 0, len(nodes))
	for seq, node := range nodes {
		summary = append(summary, nodeJSON(storage.FromNode(node, seq)))
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"module":     module,
		"node_count": len(nodes),
		"saved":      save,
		"nodes":      summary,
	})), nil
}

// handleListModules handles the list_modules tool invocation
func (s *Server) handleListModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modules, err := s.storage.ListModules(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list modules", map[string]interface{}{
			"error": err.Error(),
		})
	}

	entries := make([]map[string]interface{}, 0, len(modules))
	for _, m := range modules {
		entries = append(entries, map[string]interface{}{
			"name":         m.Name,
			"node_count":   m.NodeCount,
			"extracted_at": m.ExtractedAt,
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"modules": entries,
	})), nil
}

// handleListNodes handles the list_nodes tool invocation
func (s *Server) handleListNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	module, ok := args["module"].(string)
	if !ok || module == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "module parameter is required", map[string]interface{}{
			"param":  "module",
			"reason": "missing or empty",
		})
	}
	kind := getStringDefault(args, "kind", "")

	records, err := s.storage.ListNodes(ctx, module, kind)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeModuleNotFound, "no catalogue stored for module", map[string]interface{}{
			"module": module,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list nodes", map[string]interface{}{
			"error": err.Error(),
		})
	}

	nodes := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		nodes = append(nodes, nodeJSON(rec))
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"module": module,
		"nodes":  nodes,
	})), nil
}

// handleDescribeSymbol handles the describe_symbol tool invocation
func (s *Server) handleDescribeSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}
	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	records, err := s.storage.SearchNodes(ctx, name, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	matches := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		matches = append(matches, nodeJSON(rec))
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   name,
		"matches": matches,
	})), nil
}

// nodeJSON renders a stored node record for tool responses.
func nodeJSON(rec *storage.NodeRecord) map[string]interface{} {
	out := map[string]interface{}{
		"kind":      rec.Kind,
		"namespace": rec.Namespace,
		"name":      rec.Name,
		"exported":  rec.Exported,
	}
	if rec.IsSetf {
		out["setf"] = true
	}
	if rec.Docstring != "" {
		out["docstring"] = rec.Docstring
	}
	if rec.Parameters != nil {
		out["parameters"] = rec.Parameters
	}
	if len(rec.Slots) > 0 {
		slots := make([]map[string]interface{}, 0, len(rec.Slots))
		for _, slot := range rec.Slots {
			s := map[string]interface{}{"name": slot.Name}
			if slot.Docstring != "" {
				s["docstring"] = slot.Docstring
			}
			if len(slot.Accessors) > 0 {
				s["accessors"] = slot.Accessors
			}
			if len(slot.Readers) > 0 {
				s["readers"] = slot.Readers
			}
			if len(slot.Writers) > 0 {
				s["writers"] = slot.Writers
			}
			slots = append(slots, s)
		}
		out["slots"] = slots
	}
	return out
}

// newMCPError creates an error with MCP error code and data
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a response map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
