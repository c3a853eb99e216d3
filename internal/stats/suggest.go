package stats

import "github.com/claude/liftnotes/internal/models"

// Suggestions lists names seen in a document, in first-appearance order,
// for editor autocomplete.
type Suggestions struct {
	Exercises []string `json:"exercises"`
	Titles    []string `json:"titles"`
}

// Suggest collects distinct exercise names and non-empty session titles.
func Suggest(sessions []models.TrainingSession) Suggestions {
	out := Suggestions{Exercises: []string{}, Titles: []string{}}
	seenEx := make(map[string]bool)
	seenTitle := make(map[string]bool)
	for _, s := range sessions {
		if s.Title != "" && !seenTitle[s.Title] {
			seenTitle[s.Title] = true
			out.Titles = append(out.Titles, s.Title)
		}
		for _, ex := range s.Exercises {
			if !seenEx[ex.Name] {
				seenEx[ex.Name] = true
				out.Exercises = append(out.Exercises, ex.Name)
			}
		}
	}
	return out
}
