package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// TestCompletionStateJSON verifies states encode as letters and StateNone as "none".
func TestCompletionStateJSON(t *testing.T) {
	tests := []struct {
		state CompletionState
		want  string
	}{
		{StateNone, `"none"`},
		{StateA, `"A"`},
		{StateB, `"B"`},
		{StateC, `"C"`},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.state)
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.state, err)
		}
		if string(b) != tt.want {
			t.Errorf("marshal %v = %s, want %s", tt.state, b, tt.want)
		}
		var back CompletionState
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if back != tt.state {
			t.Errorf("unmarshal %s = %v, want %v", b, back, tt.state)
		}
	}

	var s CompletionState
	if err := json.Unmarshal([]byte(`"D"`), &s); err == nil {
		t.Error("expected error for unknown state")
	}
}

// TestParseStateCaseSensitive verifies lowercase letters are not states.
func TestParseStateCaseSensitive(t *testing.T) {
	if _, ok := ParseState("a"); ok {
		t.Error("ParseState(a) should fail")
	}
	if st, ok := ParseState("B"); !ok || st != StateB {
		t.Errorf("ParseState(B) = %v, %v", st, ok)
	}
}

// TestTimeValueSeconds verifies unit normalisation.
func TestTimeValueSeconds(t *testing.T) {
	tests := []struct {
		tv   TimeValue
		want float64
	}{
		{TimeValue{Value: 30, Unit: TimeSeconds}, 30},
		{TimeValue{Value: 1.5, Unit: TimeMinutes}, 90},
		{TimeValue{Value: 45}, 45},
	}
	for _, tt := range tests {
		if got := tt.tv.Seconds(); got != tt.want {
			t.Errorf("%+v.Seconds() = %v, want %v", tt.tv, got, tt.want)
		}
	}
}

// TestEffortJSONOmitsRepeat verifies the repeat marker stays internal.
func TestEffortJSONOmitsRepeat(t *testing.T) {
	e := Effort{Load: &LoadValue{Value: 45, Unit: LoadKg}, Result: FullResult(RepsTarget(8), StateA), IsRepeat: true}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "repeat") {
		t.Errorf("effort JSON leaks repeat marker: %s", b)
	}
	want := `{"load":{"value":45,"unit":"kg"},"result":{"kind":"reps","count":8,"state":"A"}}`
	if string(b) != want {
		t.Errorf("effort JSON = %s, want %s", b, want)
	}
}

// TestFlattenSessions verifies one row per effort with the set comment on the last effort.
func TestFlattenSessions(t *testing.T) {
	date := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)
	target := RepsTarget(12)
	sessions := []TrainingSession{{
		Title: "Push",
		Date:  &date,
		Exercises: []Exercise{{
			Name:       "Flyes",
			TargetSets: 3,
			Target:     target,
			Sets: []Set{{
				Comment: "burn",
				Efforts: []Effort{
					{Load: &LoadValue{Value: 10, Unit: LoadKg}, Result: EffortResult{Kind: KindReps, Count: 7, State: StateC}},
					{Load: &LoadValue{Value: 5, Unit: LoadKg}, Result: EffortResult{Kind: KindReps, Count: 5, State: StateC}},
				},
			}},
		}},
	}}
	docID := uuid.MustParse("6f1c1d3e-8a8f-4f55-9d7b-2f1c8f0c9a11")

	rows := FlattenSessions(sessions, 7, docID)
	ten, five := 10.0, 5.0
	want := []EffortRow{
		{UserID: 7, DocumentID: docID, SessionTitle: "Push", SessionDate: &date, ExerciseName: "Flyes",
			TargetSets: 3, TargetKind: KindReps, TargetReps: 12, LoadValue: &ten, LoadUnit: "kg", Reps: 7, State: "C"},
		{UserID: 7, DocumentID: docID, SessionTitle: "Push", SessionDate: &date, ExerciseName: "Flyes",
			TargetSets: 3, TargetKind: KindReps, TargetReps: 12, EffortIndex: 1, LoadValue: &five, LoadUnit: "kg", Reps: 5, State: "C",
			Comment: "burn"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("FlattenSessions mismatch (-want +got):\n%s", diff)
	}
}
