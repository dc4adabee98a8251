package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/shotmetrics/internal/config"
	"github.com/pable/shotmetrics/internal/ingest"
	"github.com/pable/shotmetrics/internal/model"
	"github.com/pable/shotmetrics/internal/storage"
)

func openTestStore(t *testing.T) *storage.DB {
	t.Helper()
	cfg = config.New()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func loadTestFile(t *testing.T, name, content string) ingest.File {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	f, err := ingest.LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return f
}

func TestStoreFile_SplitsPerShotGameIDs(t *testing.T) {
	db := openTestStore(t)
	f := loadTestFile(t, "season.json", `[
		{"x": 10, "y": 44, "team": "Kerry", "action": "point", "game_id": "g1"},
		{"x": 12, "y": 40, "team": "Mayo", "action": "wide", "game_id": "g2"},
		{"x": 20, "y": 30, "team": "Kerry", "action": "goal", "game_id": "g1"}
	]`)

	if err := storeFile(db, f); err != nil {
		t.Fatalf("storeFile: %v", err)
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	counts := make(map[string]int)
	for _, m := range list {
		counts[m.MatchID] = m.ShotCount
	}
	if len(counts) != 2 || counts["g1"] != 2 || counts["g2"] != 1 {
		t.Fatalf("expected g1=2 g2=1, got %v", counts)
	}
	if exists, _ := db.MatchExists(f.MatchID); exists {
		t.Error("file hash should not be stored as an empty match")
	}

	if err := storeFile(db, f); err != nil {
		t.Fatalf("re-import: %v", err)
	}
	shots, _ := db.GetShots(model.Filter{})
	if len(shots) != 3 {
		t.Errorf("re-import should be a no-op, got %d shots", len(shots))
	}
}

func TestStoreFile_SingleMatchUsesFileHash(t *testing.T) {
	db := openTestStore(t)
	f := loadTestFile(t, "final.json", `[{"x": 10, "y": 44, "action": "point"}, {"x": 5, "y": 40, "action": "wide"}]`)

	if err := storeFile(db, f); err != nil {
		t.Fatalf("storeFile: %v", err)
	}
	m, err := db.GetMatchByPrefix(f.MatchID)
	if err != nil || m == nil {
		t.Fatalf("expected match %s, got %v, %v", f.MatchID, m, err)
	}
	if m.ShotCount != 2 || m.Name != "final" {
		t.Errorf("unexpected match %+v", m)
	}
}

func TestStoreFile_ConflictLeavesNoPartialMatch(t *testing.T) {
	db := openTestStore(t)
	first := loadTestFile(t, "a.json", `[{"id": "shared", "x": 10, "y": 44, "action": "point"}]`)
	second := loadTestFile(t, "b.json", `[{"id": "shared", "x": 30, "y": 20, "action": "wide"}]`)

	if err := storeFile(db, first); err != nil {
		t.Fatalf("storeFile first: %v", err)
	}
	if err := storeFile(db, second); err == nil {
		t.Fatal("expected an error for a shot id stored under another match")
	}
	if exists, _ := db.MatchExists(second.MatchID); exists {
		t.Error("failed import should not leave its match behind")
	}
	s, _ := db.GetShot("shared")
	if s == nil || s.MatchID != first.MatchID {
		t.Errorf("shot should stay with the first match, got %+v", s)
	}
}
