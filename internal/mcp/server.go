package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/semaphore"

	"github.com/quill-lang/quilldoc"
	"github.com/quill-lang/quilldoc/internal/config"
	"github.com/quill-lang/quilldoc/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "quilldoc"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	engine  *quilldoc.Engine

	// The pipeline's hook slot admits one interceptor at a time, so
	// extraction requests serialize through a weight-1 semaphore instead
	// of queueing up on the engine.
	extracting *semaphore.Weighted
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	engine := quilldoc.New(quilldoc.Options{SearchPaths: cfg.SearchPaths})

	s := &Server{
		mcp:        server.NewMCPServer(ServerName, ServerVersion),
		storage:    store,
		engine:     engine,
		extracting: semaphore.NewWeighted(1),
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(extractModuleTool(), s.handleExtractModule)
	s.mcp.AddTool(listModulesTool(), s.handleListModules)
	s.mcp.AddTool(listNodesTool(), s.handleListNodes)
	s.mcp.AddTool(describeSymbolTool(), s.handleDescribeSymbol)
}
