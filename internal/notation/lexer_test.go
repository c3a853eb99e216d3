package notation

import (
	"testing"
	"time"
)

// TestLexKinds verifies line classification precedence.
func TestLexKinds(t *testing.T) {
	tests := []struct {
		line string
		want tokenKind
	}{
		{"# Push Day", tokTitle},
		{"#", tokTitle},
		{"#superset", tokOther},
		{"#5 felt heavy", tokOther},
		{"   # indented title  ", tokTitle},
		{"---", tokSeparator},
		{"----------", tokSeparator},
		{"--", tokListItem},
		{"- 45kg A", tokListItem},
		{"20/02/2025", tokDate},
		{"20/02/2025 18:30", tokDate},
		{"'felt strong'", tokComment},
		{"Bench Press (4x8)", tokExerciseDef},
		{"Plank (4*1min) : A, /", tokExerciseDef},
		{"Row (3X10):", tokExerciseDef},
		{"just some prose", tokOther},
		{"Bench Press 4x8", tokOther},
		{"", tokOther},
	}
	for _, tt := range tests {
		if got := lex(tt.line).kind; got != tt.want {
			t.Errorf("lex(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

// TestLexExerciseDefinition verifies the captured parts of a definition line.
func TestLexExerciseDefinition(t *testing.T) {
	tok := lex("Incline DB Press (EZ) (3 x 10) : 20kg A, /")
	if tok.kind != tokExerciseDef {
		t.Fatalf("kind = %v, want exercise", tok.kind)
	}
	if tok.name != "Incline DB Press (EZ)" {
		t.Errorf("name = %q", tok.name)
	}
	if tok.targetSets != "3" || tok.target != "10" {
		t.Errorf("targetSets/target = %q/%q, want 3/10", tok.targetSets, tok.target)
	}
	if tok.detail != "20kg A, /" {
		t.Errorf("detail = %q", tok.detail)
	}
}

// TestSplitSections verifies title and separator boundaries and that blank
// chunks are dropped.
func TestSplitSections(t *testing.T) {
	doc := "\n\nintro line\n# One\nSquat (5x5)\n---\n\n---\n# Two\n# Three\n"
	chunks := splitSections(doc)
	if len(chunks) != 4 {
		t.Fatalf("chunks = %d, want 4", len(chunks))
	}
	if chunks[0][len(chunks[0])-1].line != "intro line" {
		t.Errorf("chunk 0 does not end with the intro line: %+v", chunks[0])
	}
	if chunks[1][0].title != "One" {
		t.Errorf("chunk 1 title = %q, want One", chunks[1][0].title)
	}
}

// TestExtractHeader verifies that only the first title and date are consumed.
func TestExtractHeader(t *testing.T) {
	c := chunk{lex("# Legs"), lex("Squat (5x5)"), lex("01/03/2025 07:15"), lex("02/03/2025")}
	h, rest := extractHeader(c)
	if h.title != "Legs" {
		t.Errorf("title = %q, want Legs", h.title)
	}
	want := time.Date(2025, time.March, 1, 7, 15, 0, 0, time.UTC)
	if h.date == nil || !h.date.Equal(want) {
		t.Errorf("date = %v, want %v", h.date, want)
	}
	if len(rest) != 2 {
		t.Errorf("rest = %d tokens, want 2", len(rest))
	}
}

// TestParseDate verifies calendar validation and the optional time component.
func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"20/02/2025", ptr(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))},
		{"1/3/2024 9:05", ptr(time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC))},
		{"29/02/2024", ptr(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))},
		{"29/02/2025", nil},
		{"31/04/2025", nil},
		{"20/13/2025", nil},
		{"20/02/2025 24:00", nil},
		{"2025-02-20", nil},
	}
	for _, tt := range tests {
		got := parseDate(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseDate(%q) = %v, want nil", tt.in, got)
		case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

// TestInvalidDateLeavesSessionUndated verifies the session keeps a nil date.
func TestInvalidDateLeavesSessionUndated(t *testing.T) {
	sessions := Parse("# Day\n31/02/2025\nSquat (5x5)\n")
	if sessions[0].Date != nil {
		t.Errorf("date = %v, want nil", sessions[0].Date)
	}
}

func ptr(t time.Time) *time.Time { return &t }
