package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ingestnotation "github.com/claude/liftnotes/internal/ingest/notation"
	"github.com/claude/liftnotes/internal/notation"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal     int
	FilesUploaded  int
	FilesSkipped   int
	FilesUnchanged int
	FilesErrored   int

	Sessions        int
	EffortsInserted int64
}

// Uploader sends workout log files whose content changed since the last run.
type Uploader struct {
	client *Client
	state  *StateDB
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads each file in turn. A failing file is counted and logged; the
// first error is returned after all files were tried.
func (u *Uploader) Run(ctx context.Context, paths ...string) (*Stats, error) {
	var firstErr error
	for _, p := range paths {
		u.stats.FilesTotal++
		if err := u.uploadFile(ctx, p); err != nil {
			u.stats.FilesErrored++
			u.log.Error("upload failed", "file", p, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return &u.stats, firstErr
}

func (u *Uploader) uploadFile(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", abs, err)
	}
	hash, err := HashFile(abs)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", abs, err)
	}

	uploaded, err := u.state.IsUploaded(abs, info.Size(), hash)
	if err != nil {
		return err
	}
	if uploaded {
		u.stats.FilesSkipped++
		u.log.Info("skipping unchanged file", "file", abs)
		return nil
	}

	body, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading %s: %w", abs, err)
	}

	if u.dryRun {
		counts := ingestnotation.Count(notation.Parse(string(body)))
		u.stats.Sessions += counts.SessionsReceived
		u.log.Info("dry run: parsed file",
			"file", abs,
			"sessions", counts.SessionsReceived,
			"exercises", counts.ExercisesReceived,
			"sets", counts.SetsReceived,
			"efforts", counts.EffortsReceived,
		)
		return nil
	}

	previous, err := u.state.DocumentID(abs)
	if err != nil {
		return err
	}

	result, err := u.client.SendDocument(ctx, body)
	if err != nil {
		return fmt.Errorf("sending %s: %w", abs, err)
	}
	if err := u.state.MarkUploaded(abs, info.Size(), hash, result.DocumentID.String()); err != nil {
		return err
	}

	u.stats.Sessions += result.SessionsReceived
	if result.Unchanged {
		u.stats.FilesUnchanged++
	} else {
		u.stats.FilesUploaded++
		u.stats.EffortsInserted += result.EffortsInserted
	}
	u.log.Info("uploaded file",
		"file", abs,
		"document_id", result.DocumentID,
		"previous_document_id", previous,
		"unchanged", result.Unchanged,
		"efforts", result.EffortsInserted,
	)
	return nil
}
