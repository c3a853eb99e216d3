package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftnotes/internal/models"
	"github.com/jackc/pgx/v5"
)

// effortRowColumns is the column count of one effort_rows insert tuple.
const effortRowColumns = 19

// effortRowBatch keeps each INSERT well under the postgres parameter limit.
const effortRowBatch = 1000

// insertEffortRows batch-inserts projection rows inside tx. Returns count inserted.
func insertEffortRows(ctx context.Context, tx pgx.Tx, rows []models.EffortRow) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += effortRowBatch {
		end := min(start+effortRowBatch, len(rows))
		batch := rows[start:end]

		query := `INSERT INTO effort_rows (user_id, document_id, session_index, session_title,
			session_date, exercise_index, exercise_name, target_sets, target_kind, target_reps,
			target_seconds, set_index, effort_index, load_value, load_unit, reps, seconds,
			state, comment) VALUES `
		args := make([]any, 0, len(batch)*effortRowColumns)
		for _, r := range batch {
			args = append(args, r.UserID, r.DocumentID, r.SessionIndex, r.SessionTitle,
				r.SessionDate, r.ExerciseIndex, r.ExerciseName, r.TargetSets, string(r.TargetKind),
				r.TargetReps, r.TargetSeconds, r.SetIndex, r.EffortIndex, r.LoadValue, r.LoadUnit,
				r.Reps, r.Seconds, r.State, r.Comment)
		}

		query += valuePlaceholders(len(batch), effortRowColumns) + " ON CONFLICT DO NOTHING"

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("inserting effort rows: %w", err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// valuePlaceholders renders rows tuples of cols numbered parameters:
// "($1,$2),($3,$4)" for rows=2, cols=2.
func valuePlaceholders(rows, cols int) string {
	tuples := make([]string, rows)
	for i := range tuples {
		ph := make([]string, cols)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", i*cols+c+1)
		}
		tuples[i] = "(" + strings.Join(ph, ",") + ")"
	}
	return strings.Join(tuples, ",")
}

// QueryEffortRows retrieves effort rows of dated sessions in a date range.
// exerciseFilter, when set, is a case-insensitive partial name match.
func (db *DB) QueryEffortRows(ctx context.Context, start, end time.Time, userID int, exerciseFilter string) ([]models.EffortRow, error) {
	query := `SELECT user_id, document_id, session_index, session_title, session_date,
		 exercise_index, exercise_name, target_sets, target_kind, target_reps, target_seconds,
		 set_index, effort_index, load_value, load_unit, reps, seconds, state, comment
		 FROM effort_rows
		 WHERE session_date >= $1 AND session_date < $2 AND user_id = $3`
	args := []any{start, end, userID}
	if exerciseFilter != "" {
		query += ` AND exercise_name ILIKE $4`
		args = append(args, "%"+exerciseFilter+"%")
	}
	query += ` ORDER BY session_date DESC, exercise_index ASC, set_index ASC, effort_index ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying effort rows: %w", err)
	}
	defer rows.Close()

	var result []models.EffortRow
	for rows.Next() {
		var r models.EffortRow
		var kind string
		if err := rows.Scan(&r.UserID, &r.DocumentID, &r.SessionIndex, &r.SessionTitle, &r.SessionDate,
			&r.ExerciseIndex, &r.ExerciseName, &r.TargetSets, &kind, &r.TargetReps, &r.TargetSeconds,
			&r.SetIndex, &r.EffortIndex, &r.LoadValue, &r.LoadUnit, &r.Reps, &r.Seconds,
			&r.State, &r.Comment); err != nil {
			return nil, fmt.Errorf("scanning effort row: %w", err)
		}
		r.TargetKind = models.ResultKind(kind)
		result = append(result, r)
	}
	return result, rows.Err()
}

// ExerciseNames returns the distinct exercise names in the user's projection.
func (db *DB) ExerciseNames(ctx context.Context, userID int) ([]string, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT exercise_name FROM effort_rows WHERE user_id = $1 ORDER BY exercise_name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning exercise name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
