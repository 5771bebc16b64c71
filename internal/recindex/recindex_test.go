package recindex

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "recordings.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestInsertAndList(t *testing.T) {
	idx := openTestIndex(t)

	id, err := idx.Insert(Record{
		SessionID:  "sess-1",
		Command:    "vim",
		Path:       "/tmp/sess-1.cast",
		StartedAt:  time.Now(),
		DurationMs: 1500,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	records, err := idx.List(Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].SessionID != "sess-1" || records[0].Command != "vim" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestListFiltersByCommand(t *testing.T) {
	idx := openTestIndex(t)

	now := time.Now()
	mustInsert(t, idx, Record{SessionID: "a", Command: "vim", Path: "a.cast", StartedAt: now})
	mustInsert(t, idx, Record{SessionID: "b", Command: "bash", Path: "b.cast", StartedAt: now})

	records, err := idx.List(Query{Command: "bash"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].SessionID != "b" {
		t.Errorf("expected only session b, got %+v", records)
	}
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	idx := openTestIndex(t)

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	mustInsert(t, idx, Record{SessionID: "old", Command: "x", Path: "old.cast", StartedAt: older})
	mustInsert(t, idx, Record{SessionID: "new", Command: "x", Path: "new.cast", StartedAt: newer})

	records, err := idx.List(Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].SessionID != "new" {
		t.Errorf("expected newest first, got %+v", records)
	}
}

func TestListRespectsLimit(t *testing.T) {
	idx := openTestIndex(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		mustInsert(t, idx, Record{SessionID: "s", Command: "x", Path: "x.cast", StartedAt: now})
	}

	records, err := idx.List(Query{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func mustInsert(t *testing.T, idx *Index, r Record) {
	t.Helper()
	if _, err := idx.Insert(r); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}
