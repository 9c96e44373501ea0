package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/uilens/pkg/mcplog"
)

// loggingMiddleware records every tool call as one JSONL entry. Only
// installed when the server has a call logger; write failures never affect
// the tool result.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			_ = s.logger.Write(mcplog.NewEntry(req.Params.Name, req.GetArguments(), start, result, err))
			return result, err
		}
	}
}
