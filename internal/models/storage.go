package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRow is a stored raw workout log. The body is the source of truth;
// sessions are always rederived by parsing it.
type DocumentRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Body      string    `json:"body"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
}

// EffortRow is one effort flattened for the effort_rows projection table.
type EffortRow struct {
	UserID        int        `json:"user_id"`
	DocumentID    uuid.UUID  `json:"document_id"`
	SessionIndex  int        `json:"session_index"`
	SessionTitle  string     `json:"session_title"`
	SessionDate   *time.Time `json:"session_date,omitempty"`
	ExerciseIndex int        `json:"exercise_index"`
	ExerciseName  string     `json:"exercise_name"`
	TargetSets    int        `json:"target_sets"`
	TargetKind    ResultKind `json:"target_kind"`
	TargetReps    int        `json:"target_reps"`
	TargetSeconds float64    `json:"target_seconds"`
	SetIndex      int        `json:"set_index"`
	EffortIndex   int        `json:"effort_index"`
	LoadValue     *float64   `json:"load_value,omitempty"`
	LoadUnit      string     `json:"load_unit,omitempty"`
	Reps          int        `json:"reps"`
	Seconds       float64    `json:"seconds"`
	State         string     `json:"state"`
	Comment       string     `json:"comment,omitempty"`
}

// FlattenSessions projects parsed sessions into effort rows.
func FlattenSessions(sessions []TrainingSession, userID int, docID uuid.UUID) []EffortRow {
	var rows []EffortRow
	for si, s := range sessions {
		for ei, ex := range s.Exercises {
			for seti, set := range ex.Sets {
				for efi, e := range set.Efforts {
					row := EffortRow{
						UserID:        userID,
						DocumentID:    docID,
						SessionIndex:  si,
						SessionTitle:  s.Title,
						SessionDate:   s.Date,
						ExerciseIndex: ei,
						ExerciseName:  ex.Name,
						TargetSets:    ex.TargetSets,
						TargetKind:    ex.Target.Kind,
						TargetReps:    ex.Target.Count,
						TargetSeconds: ex.Target.Duration.Seconds(),
						SetIndex:      seti,
						EffortIndex:   efi,
						Reps:          e.Result.Count,
						Seconds:       e.Result.Duration.Seconds(),
						State:         e.Result.State.String(),
					}
					if e.Load != nil {
						v := e.Load.Value
						row.LoadValue = &v
						row.LoadUnit = string(e.Load.Unit)
					}
					if efi == len(set.Efforts)-1 {
						row.Comment = set.Comment
					}
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}
