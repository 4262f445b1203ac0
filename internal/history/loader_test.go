package history

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeRecord creates a history-store folder with an entries.json file.
func writeRecord(t *testing.T, root, folder, content string) string {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "entries.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadAll(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "abc1",
		`{"resource":"file:///proj/src/a.py","entries":[{"id":"x1.py","timestamp":100},{"id":"x2.py","timestamp":300}]}`)
	writeRecord(t, root, "abc2",
		`{"resource":"file:///proj/src/b.py","entries":[{"id":"y1.py","timestamp":200}]}`)

	records, err := LoadAll(root, testLogger())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	byResource := map[string]Record{}
	for _, r := range records {
		byResource[r.File.Resource] = r
	}
	a, ok := byResource["/proj/src/a.py"]
	if !ok {
		t.Fatalf("missing record for /proj/src/a.py: %+v", byResource)
	}
	if len(a.File.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(a.File.Entries))
	}
	if a.Dir != filepath.Join(root, "abc1") {
		t.Errorf("record dir = %q, want %q", a.Dir, filepath.Join(root, "abc1"))
	}
}

func TestLoadAllSkipsBadRecords(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "good",
		`{"resource":"file:///proj/a.py","entries":[{"id":"x","timestamp":1}]}`)
	writeRecord(t, root, "garbage", `{not json`)
	writeRecord(t, root, "no-resource", `{"entries":[{"id":"x","timestamp":1}]}`)
	writeRecord(t, root, "no-entries", `{"resource":"file:///proj/b.py","entries":[]}`)

	records, err := LoadAll(root, testLogger())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].File.Resource != "/proj/a.py" {
		t.Errorf("unexpected resource %q", records[0].File.Resource)
	}
}

func TestLoadAllMissingRoot(t *testing.T) {
	if _, err := LoadAll(filepath.Join(t.TempDir(), "nope"), testLogger()); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestLoadAllKeepsNullTimestamps(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "rec",
		`{"resource":"file:///proj/a.py","entries":[{"id":"x"},{"id":"y","timestamp":5}]}`)

	records, err := LoadAll(root, testLogger())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	entries := records[0].File.Entries
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp != nil {
		t.Error("expected nil timestamp on malformed entry")
	}
	if entries[1].Timestamp == nil || *entries[1].Timestamp != 5 {
		t.Errorf("unexpected timestamp %+v", entries[1].Timestamp)
	}
}

func TestBlobPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "primary.py"), []byte("p"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "entries"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "entries", "fallback.py"), []byte("f"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, ok := BlobPath(dir, "primary.py")
	if !ok || p != filepath.Join(dir, "primary.py") {
		t.Errorf("primary lookup = %q, %v", p, ok)
	}
	p, ok = BlobPath(dir, "fallback.py")
	if !ok || p != filepath.Join(dir, "entries", "fallback.py") {
		t.Errorf("fallback lookup = %q, %v", p, ok)
	}
	if _, ok := BlobPath(dir, "missing.py"); ok {
		t.Error("expected missing blob to report not found")
	}
}
