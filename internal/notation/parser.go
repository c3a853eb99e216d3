// Package notation parses free-form plaintext workout logs into training sessions.
//
// A log is a sequence of sessions. Each session may start with a "# title"
// line and a "DD/MM/YYYY [HH:MM]" line, followed by exercise definitions such
// as "Bench Press (4x8): 45kg A, / C7" and "- 40kg C6" list items. Parsing is
// total: malformed or partial input never fails, unrecognised lines are
// dropped and malformed numbers read as zero.
package notation

import (
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

// Parse converts a whole document into sessions. It is a pure function and is
// safe to call concurrently on independent inputs.
func Parse(doc string) []models.TrainingSession {
	sessions := []models.TrainingSession{}
	for _, c := range splitSections(doc) {
		sessions = append(sessions, parseChunk(c))
	}
	return sessions
}

// parseChunk turns one section into a session.
func parseChunk(c chunk) models.TrainingSession {
	h, rest := extractHeader(c)
	r := &recognizer{
		session: models.TrainingSession{
			Title:     h.title,
			Date:      h.date,
			Exercises: []models.Exercise{},
		},
	}
	for _, tok := range rest {
		r.feed(tok)
	}
	r.flush()

	for i := range r.session.Exercises {
		resolveRepeats(&r.session.Exercises[i])
	}
	return r.session
}

// recognizer groups list items under the exercise definition they follow.
type recognizer struct {
	session models.TrainingSession
	current *models.Exercise
	pending []string
}

func (r *recognizer) feed(tok token) {
	switch tok.kind {
	case tokExerciseDef:
		r.flush()
		r.current = &models.Exercise{
			Name:       tok.name,
			TargetSets: atoi(tok.targetSets),
			Target:     parseTarget(tok.target),
			Sets:       []models.Set{},
		}
		if tok.detail != "" {
			r.pending = append(r.pending, tok.detail)
		}

	case tokListItem:
		if r.current != nil {
			r.pending = append(r.pending, tok.item)
		}

	case tokComment:
		if r.current != nil {
			r.current.Comment = joinComment(r.current.Comment, tok.comment)
		} else {
			r.session.Comment = joinComment(r.session.Comment, tok.comment)
		}
	}
}

// flush parses the pending descriptions of the current exercise and appends
// it to the session.
func (r *recognizer) flush() {
	if r.current == nil {
		return
	}
	for _, desc := range r.pending {
		sets, orphan := parseSetLine(desc, r.current.Target)
		r.current.Sets = append(r.current.Sets, sets...)
		if orphan != "" {
			r.current.Comment = joinComment(r.current.Comment, orphan)
		}
	}
	r.session.Exercises = append(r.session.Exercises, *r.current)
	r.current = nil
	r.pending = nil
}

func joinComment(existing, next string) string {
	if next == "" {
		return existing
	}
	if existing == "" {
		return next
	}
	return strings.Join([]string{existing, next}, "\n")
}
