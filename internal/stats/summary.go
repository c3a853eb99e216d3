// Package stats aggregates parsed training sessions. It only reads the
// session tree it is given and never mutates it.
package stats

import (
	"sort"
	"time"

	"github.com/claude/liftnotes/internal/models"
)

// ExerciseSummary holds aggregated stats for a single exercise name.
type ExerciseSummary struct {
	Name         string         `json:"name"`
	Sessions     int            `json:"sessions"`
	Sets         int            `json:"sets"`
	Efforts      int            `json:"efforts"`
	DropSets     int            `json:"drop_sets"`
	TotalReps    int            `json:"total_reps"`
	TotalSeconds float64        `json:"total_seconds"`
	TonnageKg    float64        `json:"tonnage_kg"`
	BestLoad     float64        `json:"best_load"`
	LastDate     *time.Time     `json:"last_date,omitempty"`
	States       map[string]int `json:"states"`
}

// Summary holds aggregate stats over a whole document.
type Summary struct {
	Sessions      int               `json:"sessions"`
	DatedSessions int               `json:"dated_sessions"`
	FirstDate     *time.Time        `json:"first_date,omitempty"`
	LatestDate    *time.Time        `json:"latest_date,omitempty"`
	TotalSets     int               `json:"total_sets"`
	TonnageKg     float64           `json:"tonnage_kg"`
	Exercises     []ExerciseSummary `json:"exercises"`
}

// Summarize computes aggregate stats. Exercises are ordered by set count,
// then by name.
func Summarize(sessions []models.TrainingSession) *Summary {
	sum := &Summary{Sessions: len(sessions)}
	byName := make(map[string]*ExerciseSummary)

	for _, s := range sessions {
		if s.Date != nil {
			sum.DatedSessions++
			if sum.FirstDate == nil || s.Date.Before(*sum.FirstDate) {
				d := *s.Date
				sum.FirstDate = &d
			}
			if sum.LatestDate == nil || s.Date.After(*sum.LatestDate) {
				d := *s.Date
				sum.LatestDate = &d
			}
		}

		seen := make(map[string]bool)
		for _, ex := range s.Exercises {
			es, ok := byName[ex.Name]
			if !ok {
				es = &ExerciseSummary{Name: ex.Name, States: map[string]int{}}
				byName[ex.Name] = es
			}
			if !seen[ex.Name] {
				seen[ex.Name] = true
				es.Sessions++
			}
			if s.Date != nil && (es.LastDate == nil || s.Date.After(*es.LastDate)) {
				d := *s.Date
				es.LastDate = &d
			}
			addExercise(es, ex)
		}
	}

	sum.Exercises = make([]ExerciseSummary, 0, len(byName))
	for _, es := range byName {
		sum.TotalSets += es.Sets
		sum.TonnageKg += es.TonnageKg
		sum.Exercises = append(sum.Exercises, *es)
	}
	sort.Slice(sum.Exercises, func(i, j int) bool {
		a, b := sum.Exercises[i], sum.Exercises[j]
		if a.Sets != b.Sets {
			return a.Sets > b.Sets
		}
		return a.Name < b.Name
	})
	return sum
}

func addExercise(es *ExerciseSummary, ex models.Exercise) {
	for _, set := range ex.Sets {
		es.Sets++
		if len(set.Efforts) > 1 {
			es.DropSets++
		}
		for _, e := range set.Efforts {
			es.Efforts++
			state := e.Result.State.String()
			if state == "" {
				state = "none"
			}
			es.States[state]++

			switch e.Result.Kind {
			case models.KindReps:
				es.TotalReps += e.Result.Count
			case models.KindTime:
				es.TotalSeconds += e.Result.Duration.Seconds()
			}

			if e.Load == nil {
				continue
			}
			if e.Load.Value > es.BestLoad {
				es.BestLoad = e.Load.Value
			}
			if e.Load.Unit == models.LoadKg && e.Result.Kind == models.KindReps {
				es.TonnageKg += e.Load.Value * float64(e.Result.Count)
			}
		}
	}
}
