package notation

import (
	"strconv"
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

// Format writes sessions back as canonical notation. Parsing the output yields
// the same titles, dates, exercises, targets, loads and states.
func Format(sessions []models.TrainingSession) string {
	var b strings.Builder
	for i, s := range sessions {
		if i > 0 {
			b.WriteString("\n")
		}
		writeSession(&b, s)
	}
	return b.String()
}

func writeSession(b *strings.Builder, s models.TrainingSession) {
	b.WriteString("# " + s.Title + "\n")
	if s.Date != nil {
		layout := "02/01/2006"
		if s.Date.Hour() != 0 || s.Date.Minute() != 0 {
			layout += " 15:04"
		}
		b.WriteString(s.Date.Format(layout) + "\n")
	}
	writeCommentLines(b, s.Comment)

	for _, ex := range s.Exercises {
		b.WriteString(ex.Name + " (" + strconv.Itoa(ex.TargetSets) + "x" + FormatTarget(ex.Target) + ")\n")
		writeCommentLines(b, ex.Comment)
		for _, set := range ex.Sets {
			b.WriteString("- " + FormatSet(set) + "\n")
		}
	}
}

func writeCommentLines(b *strings.Builder, comment string) {
	if comment == "" {
		return
	}
	for _, line := range strings.Split(comment, "\n") {
		b.WriteString("'" + line + "'\n")
	}
}

// FormatTarget renders a target the way it appears inside an exercise definition.
func FormatTarget(t models.Target) string {
	if t.Kind == models.KindTime {
		return formatTime(t.Duration)
	}
	return strconv.Itoa(t.Count)
}

// FormatSet renders one set as a list item body, without the leading dash.
func FormatSet(set models.Set) string {
	var out string
	switch len(set.Efforts) {
	case 0:
		out = ""
	case 1:
		out = formatEffort(set.Efforts[0])
	default:
		out = formatDropSet(set.Efforts)
	}
	if set.Comment != "" {
		out = strings.TrimSpace(out + " '" + set.Comment + "'")
	}
	return out
}

func formatEffort(e models.Effort) string {
	var parts []string
	if e.Load != nil {
		parts = append(parts, formatLoad(*e.Load))
	}
	switch e.Result.State {
	case models.StateA, models.StateB:
		parts = append(parts, e.Result.State.String())
	case models.StateC:
		parts = append(parts, "C"+formatResultValue(e.Result))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatDropSet(efforts []models.Effort) string {
	loads := make([]string, 0, len(efforts))
	loaded := false
	for _, e := range efforts {
		if e.Load == nil {
			loads = append(loads, "0")
			continue
		}
		loaded = true
		loads = append(loads, formatLoad(*e.Load))
	}

	values := make([]string, 0, len(efforts))
	for _, e := range efforts {
		switch e.Result.State {
		case models.StateA, models.StateB:
			values = append(values, e.Result.State.String())
		case models.StateC:
			values = append(values, "C"+formatResultValue(e.Result))
		default:
			values = append(values, formatResultValue(e.Result))
		}
	}
	if !loaded {
		return strings.Join(values, "/")
	}
	return strings.Join(loads, "/") + " " + strings.Join(values, "/")
}

func formatResultValue(r models.EffortResult) string {
	if r.Kind == models.KindTime {
		if r.Duration.Value == 0 {
			return ""
		}
		return formatTime(r.Duration)
	}
	if r.Count == 0 {
		return ""
	}
	return strconv.Itoa(r.Count)
}

func formatLoad(l models.LoadValue) string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

func formatTime(t models.TimeValue) string {
	return strconv.FormatFloat(t.Value, 'f', -1, 64) + string(t.Unit)
}
