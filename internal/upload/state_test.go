package upload

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies that a marked file is reported uploaded only
// for the same size and hash.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ok, err := state.IsUploaded("/logs/a.txt", 10, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fresh state reports file as uploaded")
	}

	if err := state.MarkUploaded("/logs/a.txt", 10, "h1", "doc-1"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsUploaded("/logs/a.txt", 10, "h1"); !ok {
		t.Error("marked file not reported uploaded")
	}
	if ok, _ := state.IsUploaded("/logs/a.txt", 10, "h2"); ok {
		t.Error("changed hash reported uploaded")
	}

	if err := state.MarkUploaded("/logs/a.txt", 12, "h2", "doc-2"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsUploaded("/logs/a.txt", 10, "h1"); ok {
		t.Error("old version still reported uploaded after replace")
	}
	id, err := state.DocumentID("/logs/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if id != "doc-2" {
		t.Errorf("document id = %q, want doc-2", id)
	}
	if id, _ := state.DocumentID("/logs/missing.txt"); id != "" {
		t.Errorf("missing document id = %q, want empty", id)
	}
}

// TestHashFile verifies the hash of a known file.
func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"; got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
}
