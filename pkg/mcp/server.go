// Package mcp exposes component analysis and catalog queries as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uilens/pkg/catalog"
	"github.com/gnana997/uilens/pkg/extractor"
	"github.com/gnana997/uilens/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for uilens.
type Server struct {
	mcpServer *server.MCPServer
	extractor *extractor.Extractor
	query     *catalog.QueryService // may be nil if no catalog was loaded
	logger    *mcplog.Logger        // may be nil (call logging disabled)
}

// NewServer creates an MCP server. The catalog tools report an error when qs
// is nil; callLog enables JSONL logging of every tool call.
func NewServer(ex *extractor.Extractor, qs *catalog.QueryService, callLog *mcplog.Logger) *Server {
	s := &Server{extractor: ex, query: qs, logger: callLog}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("uilens", serverVersion, opts...)
	s.mcpServer.AddTools(s.serverTools()...)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
