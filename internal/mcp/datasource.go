package mcp

import (
	"context"
	"time"

	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	LatestDocument(ctx context.Context, userID int) (*models.DocumentRow, error)
	QueryEffortRows(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.EffortRow, error)
	ExerciseNames(ctx context.Context, userID int) ([]string, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
