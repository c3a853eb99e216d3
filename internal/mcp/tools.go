package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/notation"
	"github.com/claude/liftnotes/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolParseWorkoutLog = mcp.NewTool("parse_workout_log",
	mcp.WithDescription("Parse workout log text into sessions, exercises, sets and efforts. Never fails: unrecognised lines are ignored. Notation: '# Title' starts a session, 'DD/MM/YYYY [HH:MM]' dates it, 'Name (4x8)' or 'Name (3x1min)' defines an exercise, '- ' lines or the text after ':' list comma-separated sets such as '45kg A', '/ C7' (repeat previous, 7 reps), '10/5kg C7/5' (drop set). A = target met, B = met with difficulty, C = short of target."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Workout log text")),
	mcp.WithBoolean("canonical", mcp.Description("Return the log rewritten in canonical notation instead of JSON")),
)

var toolGetEffortRows = mcp.NewTool("get_effort_rows",
	mcp.WithDescription("Query logged efforts (one row per effort: session, exercise, target, set/effort index, load, reps or seconds, completion state) from dated sessions of the latest uploaded log."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench')")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercise names that appear in the logged efforts."),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Aggregate stats of the latest uploaded log: session count and date span, and per exercise the sets, efforts, drop sets, reps, seconds under tension, kg tonnage, best load and completion state counts."),
	mcp.WithString("exercise", mcp.Description("Only include exercises whose name contains this text (case-insensitive)")),
)

// --- Tool handlers ---

func (h *handlers) parseWorkoutLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	sessions := notation.Parse(text)
	if req.GetBool("canonical", false) {
		return mcp.NewToolResultText(notation.Format(sessions)), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getEffortRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	rows, err := h.ds.QueryEffortRows(ctx, start, end, uid, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_effort_rows", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if rows == nil {
		rows = []models.EffortRow{}
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := h.ds.ExerciseNames(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if names == nil {
		names = []string{}
	}

	result, err := mcp.NewToolResultJSON(names)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := h.ds.LatestDocument(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var sessions []models.TrainingSession
	if doc != nil {
		sessions = notation.Parse(doc.Body)
	}
	summary := stats.Summarize(sessions)

	if filter := strings.ToLower(req.GetString("exercise", "")); filter != "" {
		kept := summary.Exercises[:0]
		for _, es := range summary.Exercises {
			if strings.Contains(strings.ToLower(es.Name), filter) {
				kept = append(kept, es)
			}
		}
		summary.Exercises = kept
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
