package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftnotes", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftnotes workout log server. Parse plaintext workout logs, query logged efforts and per-exercise training stats. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolParseWorkoutLog, Handler: h.parseWorkoutLog},
		server.ServerTool{Tool: toolGetEffortRows, Handler: h.getEffortRows},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetTrainingStats, Handler: h.getTrainingStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resLatestDocument, Handler: h.latestDocument},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resLatestDocument = mcp.NewResource(
	"liftnotes://latest_document",
	"Latest Workout Log",
	mcp.WithResourceDescription("The most recently uploaded workout log, as plain text in the log notation"),
	mcp.WithMIMEType("text/plain"),
)

var resExerciseCatalog = mcp.NewResource(
	"liftnotes://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercise names that appear in the logged efforts"),
	mcp.WithMIMEType("application/json"),
)
