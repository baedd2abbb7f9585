package upload

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Worcesters/basicfit/internal/ingest"
)

const export = `"Push · Day 1";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ingestServer counts POSTs and answers with a one-session result.
func ingestServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ingest/alpha" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q", got)
		}
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(ingest.Result{SessionsReceived: 1, SessionsInserted: 1, RecordsSet: 1})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openState(t *testing.T) *StateDB {
	t.Helper()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

func TestRunUploadsOnce(t *testing.T) {
	var calls atomic.Int32
	ts := ingestServer(t, &calls)

	dir := t.TempDir()
	writeFile(t, dir, "2026/feb.csv", export)
	writeFile(t, dir, "notes.txt", "ignored")

	state := openState(t)
	client := NewClient(ts.URL, "secret")

	stats, err := New(client, state, dir, false, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 1 || stats.FilesUploaded != 1 || stats.SessionsInserted != 1 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, err = New(client, state, dir, false, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || stats.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v", stats)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}

	// Editing the file changes its hash, so it is sent again.
	writeFile(t, dir, "2026/feb.csv", export+"\n")
	if _, err := New(client, state, dir, false, quietLogger()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls after edit = %d, want 2", calls.Load())
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", export)

	stats, err := New(nil, openState(t), dir, true, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsSent != 1 || stats.FilesUploaded != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRunSkipsMalformed(t *testing.T) {
	var calls atomic.Int32
	ts := ingestServer(t, &calls)

	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "1;115;8;1\n")
	writeFile(t, dir, "empty.csv", "")

	stats, err := New(NewClient(ts.URL, "secret"), openState(t), dir, false, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 || stats.FilesSkipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if calls.Load() != 0 {
		t.Errorf("server calls = %d, want 0", calls.Load())
	}
}

func TestSendExportRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(ingest.Result{SessionsReceived: 2})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "secret")
	client.backoff = time.Millisecond

	result, err := client.SendExport(context.Background(), []byte(export))
	if err != nil {
		t.Fatal(err)
	}
	if result.SessionsReceived != 2 || calls.Load() != 3 {
		t.Errorf("result = %+v after %d calls", result, calls.Load())
	}
}

func TestSendExportClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"invalid API key"}`, http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "wrong")
	client.backoff = time.Millisecond

	if _, err := client.SendExport(context.Background(), []byte(export)); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestStateDB(t *testing.T) {
	ctx := context.Background()
	state := openState(t)

	ok, err := state.IsUploaded(ctx, "a.csv", "h1")
	if err != nil || ok {
		t.Fatalf("IsUploaded before mark = %v, %v", ok, err)
	}
	if err := state.MarkUploaded(ctx, "a.csv", "h1", 3); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsUploaded(ctx, "a.csv", "h1"); !ok {
		t.Error("expected a.csv/h1 uploaded")
	}
	if ok, _ := state.IsUploaded(ctx, "a.csv", "h2"); ok {
		t.Error("different hash should not count as uploaded")
	}
}
