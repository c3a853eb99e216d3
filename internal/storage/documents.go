package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftnotes/internal/models"
	"github.com/jackc/pgx/v5"
)

// LatestDocument returns the most recently stored document for a user, or nil
// when the user has none.
func (db *DB) LatestDocument(ctx context.Context, userID int) (*models.DocumentRow, error) {
	var d models.DocumentRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, body, sha256, created_at
		 FROM documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`, userID,
	).Scan(&d.ID, &d.UserID, &d.Body, &d.SHA256, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest document: %w", err)
	}
	return &d, nil
}

// SaveDocument stores a new document version and replaces the user's effort
// row projection with rows, all in one transaction. Returns rows inserted.
func (db *DB) SaveDocument(ctx context.Context, doc models.DocumentRow, rows []models.EffortRow) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (id, user_id, body, sha256) VALUES ($1, $2, $3, $4)`,
		doc.ID, doc.UserID, doc.Body, doc.SHA256)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM effort_rows WHERE user_id = $1`, doc.UserID); err != nil {
		return 0, fmt.Errorf("clearing effort rows: %w", err)
	}

	inserted, err := insertEffortRows(ctx, tx, rows)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing document: %w", err)
	}
	return inserted, nil
}
