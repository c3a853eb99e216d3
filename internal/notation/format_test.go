package notation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/liftnotes/internal/models"
)

// TestFormatRoundTrip verifies that formatting parsed sessions and parsing the
// result reproduces the same tree.
func TestFormatRoundTrip(t *testing.T) {
	docs := []string{
		sampleLog,
		"# Push Day\n20/02/2025\n\nBench Press (4x8) : 45kg A, / C7, 40kg C6, 35kg A\n",
		"Plank (4*1min) : A, /, /, C55s 'core fatigue'\n",
		"Cable Flyes (3x12):\n- 10/5kg C7/5\n- 80/70/60kg C5/2\n- C7/5\n- 42.5kg B\n",
		"# \nSquat (5x5)\nDeadlift (1x5)\n",
		"# Timed\nHang (3x30s)\n- C1min30s\n- 20kg\n- foo\n",
	}
	for _, doc := range docs {
		first := Parse(doc)
		formatted := Format(first)
		second := Parse(formatted)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip mismatch for %q (-first +second):\n%s\nformatted:\n%s", doc, diff, formatted)
		}
	}
}

// TestFormatCanonicalText pins the exact canonical layout.
func TestFormatCanonicalText(t *testing.T) {
	sessions := Parse("# Push Day\n20/02/2025 18:30\nBench Press (4x8) : 45kg A, / C7\nFlyes (3x12)\n- 10/5kg C7/5 'burn'\n")
	want := strings.Join([]string{
		"# Push Day",
		"20/02/2025 18:30",
		"Bench Press (4x8)",
		"- 45kg A",
		"- 45kg C7",
		"Flyes (3x12)",
		"- 10kg/5kg C7/C5 'burn'",
		"",
	}, "\n")
	if got := Format(sessions); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

// TestFormatTarget verifies target rendering for both kinds.
func TestFormatTarget(t *testing.T) {
	if got := FormatTarget(models.RepsTarget(8)); got != "8" {
		t.Errorf("reps target = %q, want 8", got)
	}
	tt := models.TimeTarget(models.TimeValue{Value: 1, Unit: models.TimeMinutes})
	if got := FormatTarget(tt); got != "1min" {
		t.Errorf("time target = %q, want 1min", got)
	}
}
