package server

import (
	"context"
	"net/http"

	liftmcp "github.com/claude/liftnotes/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MountMCP exposes an MCP server at /mcp over streamable HTTP. Tool calls run
// as the request's user.
func (s *Server) MountMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return liftmcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.Handle("/mcp", h)
}
