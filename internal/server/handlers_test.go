package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/notation"
	"github.com/claude/liftnotes/internal/stats"
	"github.com/claude/liftnotes/internal/storage"
)

type fakeStore struct {
	docs    map[int]*models.DocumentRow
	rows    []models.EffortRow
	logs    []storage.ImportLog
	users   map[string]int
	lastArg string
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[int]*models.DocumentRow{}, users: map[string]int{}}
}

func (f *fakeStore) LatestDocument(_ context.Context, userID int) (*models.DocumentRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[userID], nil
}

func (f *fakeStore) QueryEffortRows(_ context.Context, _, _ time.Time, _ int, exerciseFilter string) ([]models.EffortRow, error) {
	f.lastArg = exerciseFilter
	return f.rows, f.err
}

func (f *fakeStore) QueryImportLogs(_ context.Context, _, limit int) ([]storage.ImportLog, error) {
	if limit < len(f.logs) {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}

func (f *fakeStore) InsertImportLog(_ context.Context, log storage.ImportLog) (int64, error) {
	f.logs = append(f.logs, log)
	return int64(len(f.logs)), nil
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	if id, ok := f.users[login]; ok {
		return id, nil
	}
	id := len(f.users) + 2
	f.users[login] = id
	return id, nil
}

// fakeIngester stores the body as the user's latest document.
type fakeIngester struct {
	store *fakeStore
	err   error
}

func (f *fakeIngester) Ingest(_ context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	hash := ingest.HashBody(body)
	if d := f.store.docs[userID]; d != nil && d.SHA256 == hash {
		return &ingest.Result{Unchanged: true}, nil
	}
	f.store.docs[userID] = &models.DocumentRow{UserID: userID, Body: string(body), SHA256: hash}
	return &ingest.Result{SessionsReceived: len(notation.Parse(string(body)))}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, &fakeIngester{store: store}, 0, "secret", log), store
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const pushDay = "# Push Day\n20/02/2025\nBench Press (4x8) : 45kg A, / C7, 40kg C6, 35kg A\n"

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/me", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info != devUser {
		t.Errorf("info = %+v, want %+v", info, devUser)
	}
}

// TestHandleParse verifies the parse endpoint returns the same tree as Parse
// and needs no API key.
func TestHandleParse(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/parse", pushDay, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var got []models.TrainingSession
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if diff := cmp.Diff(notation.Parse(pushDay), got); diff != "" {
		t.Errorf("parse response mismatch (-want +got):\n%s", diff)
	}
}

// TestHandleParseEmpty verifies an empty body yields an empty JSON array.
func TestHandleParseEmpty(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/parse", "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

// TestIngestRequiresAPIKey verifies missing and wrong keys are rejected.
func TestIngestRequiresAPIKey(t *testing.T) {
	s, store := newTestServer(t)

	if rec := do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, map[string]string{"X-API-Key": "nope"}); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
	if len(store.docs) != 0 {
		t.Errorf("docs stored without auth: %d", len(store.docs))
	}
}

// TestIngestThenRead verifies ingest, import logging, and the read endpoints
// that reparse the stored document.
func TestIngestThenRead(t *testing.T) {
	s, store := newTestServer(t)
	key := map[string]string{"X-API-Key": "secret"}

	rec := do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, key)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d: %s", rec.Code, rec.Body)
	}
	if len(store.logs) != 1 || store.logs[0].Status != "success" || store.logs[0].Source != "api" {
		t.Errorf("import logs = %+v", store.logs)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/sessions", "", nil)
	var sessions []models.TrainingSession
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Title != "Push Day" {
		t.Errorf("sessions = %+v", sessions)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/suggestions", "", nil)
	var sug stats.Suggestions
	if err := json.NewDecoder(rec.Body).Decode(&sug); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if diff := cmp.Diff([]string{"Bench Press"}, sug.Exercises); diff != "" {
		t.Errorf("suggested exercises mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/stats", "", nil)
	var sum stats.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if sum.TotalSets != 4 {
		t.Errorf("total sets = %d, want 4", sum.TotalSets)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, key)
	var result ingest.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Unchanged {
		t.Error("re-ingest not reported unchanged")
	}
	if store.logs[1].Status != "unchanged" {
		t.Errorf("second log status = %q, want unchanged", store.logs[1].Status)
	}
}

// TestIngestInvalidatesStats verifies a same-fingerprint edit is visible
// in stats right after ingest.
func TestIngestInvalidatesStats(t *testing.T) {
	s, _ := newTestServer(t)
	key := map[string]string{"X-API-Key": "secret"}

	do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, key)
	do(t, s, http.MethodGet, "/api/v1/stats", "", nil)
	do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay+"- 30kg C5\n", key)

	rec := do(t, s, http.MethodGet, "/api/v1/stats", "", nil)
	var sum stats.Summary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if sum.TotalSets != 5 {
		t.Errorf("total sets = %d, want 5", sum.TotalSets)
	}
}

// TestIngestErrorIsLogged verifies a failed ingest returns 500 and is
// recorded as an error import.
func TestIngestErrorIsLogged(t *testing.T) {
	store := newFakeStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(store, &fakeIngester{store: store, err: errors.New("disk full")}, 0, "secret", log)

	rec := do(t, s, http.MethodPost, "/api/v1/ingest/", pushDay, map[string]string{"X-API-Key": "secret"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if len(store.logs) != 1 || store.logs[0].Status != "error" {
		t.Errorf("import logs = %+v", store.logs)
	}
}

// TestEmptyStateReads verifies the read endpoints before any upload.
func TestEmptyStateReads(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := do(t, s, http.MethodGet, "/api/v1/documents/latest", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("latest document status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/sessions", "", nil); strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("sessions body = %q, want []", rec.Body)
	}
	rec := do(t, s, http.MethodGet, "/api/v1/suggestions", "", nil)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"exercises":[],"titles":[]}` {
		t.Errorf("suggestions body = %q", got)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/imports", "", nil); strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("imports body = %q, want []", rec.Body)
	}
}

// TestHandleSets verifies query parameters reach the store and bad dates are rejected.
func TestHandleSets(t *testing.T) {
	s, store := newTestServer(t)
	store.rows = []models.EffortRow{{ExerciseName: "Bench Press", Reps: 8}}

	rec := do(t, s, http.MethodGet, "/api/v1/sets?start=2025-01-01&end=2025-03-01&exercise=bench", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if store.lastArg != "bench" {
		t.Errorf("exercise filter = %q, want bench", store.lastArg)
	}
	var rows []models.EffortRow
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Reps != 8 {
		t.Errorf("rows = %+v", rows)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/sets?start=yesterday", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad start status = %d, want 400", rec.Code)
	}
}

// TestStoreErrorReturns500 verifies storage failures surface as JSON errors.
func TestStoreErrorReturns500(t *testing.T) {
	s, store := newTestServer(t)
	store.err = errors.New("connection refused")

	rec := do(t, s, http.MethodGet, "/api/v1/sessions", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(body["error"], "connection refused") {
		t.Errorf("error = %q", body["error"])
	}
}

// TestParseTimeRange verifies defaults and end-of-day handling for date-only ends.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=2025-02-01&end=2025-02-10", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 2, 11, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	start, end, err = parseTimeRange(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := end.Sub(start); d < 29*24*time.Hour || d > 31*24*time.Hour {
		t.Errorf("default range = %v, want ~30 days", d)
	}
}
