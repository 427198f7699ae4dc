package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quilldoc/internal/config"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SearchPaths:  []string{dir},
		DatabasePath: filepath.Join(dir, "db", "catalogue.db"),
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.storage.Close() })
	return s, dir
}

func writeModule(t *testing.T, dir, name, source string) {
	t.Helper()
	manifest := `(defmodule ` + name + ` :files ("` + name + `.ql"))`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".qm"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".ql"), []byte(source), 0o644))
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestToolDefinitions(t *testing.T) {
	assert.Equal(t, "extract_module", extractModuleTool().Name)
	assert.Equal(t, "list_modules", listModulesTool().Name)
	assert.Equal(t, "list_nodes", listNodesTool().Name)
	assert.Equal(t, "describe_symbol", describeSymbolTool().Name)

	assert.Contains(t, extractModuleTool().InputSchema.Required, "module")
	assert.Contains(t, listNodesTool().InputSchema.Required, "module")
	assert.Contains(t, describeSymbolTool().InputSchema.Required, "name")
}

func TestHandleExtractModule(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "greeting",
		`(defun greet (name) "Greets a person." name)`)

	result, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "greeting"}))
	require.NoError(t, err)
	require.NotNil(t, result)

	text := resultText(t, result)
	assert.Contains(t, text, `"node_count": 1`)
	assert.Contains(t, text, `"greet"`)
	assert.Contains(t, text, "Greets a person.")

	// save defaulted to true, so the catalogue is queryable.
	m, err := s.storage.GetModule(context.Background(), "greeting")
	require.NoError(t, err)
	assert.Equal(t, 1, m.NodeCount)
}

func TestHandleExtractModule_SaveFalseSkipsStorage(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "mod", `(defun f (x) x)`)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{
			"module": "mod",
			"save":   false,
		}))
	require.NoError(t, err)

	_, err = s.storage.GetModule(context.Background(), "mod")
	assert.Error(t, err)
}

func TestHandleExtractModule_MissingParam(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleExtractModule_UnresolvableModule(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "nowhere"}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInternalError, mcpErr.Code)
}

func TestHandleExtractModule_SerializesExtractions(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "mod", `(defun f (x) x)`)

	require.True(t, s.extracting.TryAcquire(1))
	defer s.extracting.Release(1)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "mod"}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeExtractionInProgress, mcpErr.Code)
}

func TestHandleListModules(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "mod", `(defvar *v* 1 "Doc.")`)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "mod"}))
	require.NoError(t, err)

	result, err := s.handleListModules(context.Background(),
		callRequest("list_modules", map[string]interface{}{}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"mod"`)
}

func TestHandleListNodes(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "mod", `
(defun f (x) x)
(defvar *v* 1)
`)
	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "mod"}))
	require.NoError(t, err)

	result, err := s.handleListNodes(context.Background(),
		callRequest("list_nodes", map[string]interface{}{
			"module": "mod",
			"kind":   "variable",
		}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, `"*v*"`)
	assert.NotContains(t, text, `"f"`)
}

func TestHandleListNodes_UnknownModule(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.handleListNodes(context.Background(),
		callRequest("list_nodes", map[string]interface{}{"module": "missing"}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeModuleNotFound, mcpErr.Code)
}

func TestHandleDescribeSymbol(t *testing.T) {
	s, dir := newTestServer(t)
	writeModule(t, dir, "mod", `(defun greet-everyone (people) people)`)

	_, err := s.handleExtractModule(context.Background(),
		callRequest("extract_module", map[string]interface{}{"module": "mod"}))
	require.NoError(t, err)

	result, err := s.handleDescribeSymbol(context.Background(),
		callRequest("describe_symbol", map[string]interface{}{"name": "greet"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "greet-everyone")
}

func TestHandleDescribeSymbol_LimitValidation(t *testing.T) {
	s, _ := newTestServer(t)

	for _, limit := range []float64{0, 101} {
		_, err := s.handleDescribeSymbol(context.Background(),
			callRequest("describe_symbol", map[string]interface{}{
				"name":  "x",
				"limit": limit,
			}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "want text content, have %T", result.Content[0])
	return text.Text
}
