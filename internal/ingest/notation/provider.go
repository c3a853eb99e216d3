// Package notation ingests plaintext workout logs: it stores the raw document
// and rebuilds the derived effort-row projection from a fresh parse.
package notation

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/models"
	core "github.com/claude/liftnotes/internal/notation"
	"github.com/google/uuid"
)

// Store is the persistence used by the provider. *storage.DB satisfies it.
type Store interface {
	LatestDocument(ctx context.Context, userID int) (*models.DocumentRow, error)
	SaveDocument(ctx context.Context, doc models.DocumentRow, rows []models.EffortRow) (int64, error)
}

// Provider processes plaintext workout log uploads.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new workout log ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest reads a whole document, stores it as the user's latest version and
// replaces the effort rows. A body identical to the latest stored one is
// reported as unchanged and nothing is written.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	sessions := core.Parse(string(body))
	result := Count(sessions)
	hash := ingest.HashBody(body)

	latest, err := p.db.LatestDocument(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading latest document: %w", err)
	}
	if latest != nil && latest.SHA256 == hash {
		result.DocumentID = latest.ID
		result.Unchanged = true
		result.Message = "document unchanged"
		p.log.Info("workout log unchanged", "user_id", userID, "document_id", latest.ID)
		return result, nil
	}

	doc := models.DocumentRow{
		ID:     uuid.New(),
		UserID: userID,
		Body:   string(body),
		SHA256: hash,
	}
	rows := models.FlattenSessions(sessions, userID, doc.ID)

	inserted, err := p.db.SaveDocument(ctx, doc, rows)
	if err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	result.DocumentID = doc.ID
	result.EffortsInserted = inserted

	p.log.Info("workout log ingested",
		"user_id", userID,
		"document_id", doc.ID,
		"sessions", result.SessionsReceived,
		"efforts", inserted,
	)
	return result, nil
}

// Count tallies the parsed tree without touching storage.
func Count(sessions []models.TrainingSession) *ingest.Result {
	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		result.ExercisesReceived += len(s.Exercises)
		for _, ex := range s.Exercises {
			result.SetsReceived += len(ex.Sets)
			for _, set := range ex.Sets {
				result.EffortsReceived += len(set.Efforts)
			}
		}
	}
	return result
}
