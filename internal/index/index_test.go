package index

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/roseblade/memorylane/internal/mind"
	"github.com/roseblade/memorylane/internal/vcs"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "memorylane-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// noteDoc builds an encoded note document with one analyzed entry.
func noteDoc(t *testing.T, title, text string) []byte {
	t.Helper()
	engine := mind.New(mind.DefaultConfig())
	n := vcs.NewNote(title, "journal", []string{"test"})
	a := engine.Classify(text, mind.ModelMini)
	n, err := vcs.Commit(n, "", text, "entry", vcs.WithAnalysis(&a))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM clusters`).Scan(&count); err != nil {
		t.Fatalf("clusters table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		ID:        "n1",
		Title:     "Hello World",
		Sentiment: "positive",
		Mood:      0.4,
		Model:     "mood-mini",
		Tags:      []string{"go", "test"},
		Clusters:  []string{"Joy"},
		Checksum:  "abc123",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "This is a hello world entry."); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("n1")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "del", Checksum: "x", Tags: []string{}, Clusters: []string{"Joy"}, UpdatedAt: time.Now()}, "body")

	if err := db.DeleteNote("del"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	counts, _ := db.ClusterCounts()
	if counts["Joy"] != 0 {
		t.Errorf("cluster labels not removed: %v", counts)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{ID: "up", Title: "Old", Checksum: "1", Tags: []string{}, Clusters: []string{"Joy"}, UpdatedAt: now}, "old body")
	_ = db.UpsertNote(NoteRow{ID: "up", Title: "New", Checksum: "2", Tags: []string{"new"}, Clusters: []string{"Love"}, UpdatedAt: now}, "new body")

	cs, _ := db.GetChecksum("up")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	counts, _ := db.ClusterCounts()
	if counts["Joy"] != 0 || counts["Love"] != 1 {
		t.Errorf("cluster labels not replaced: %v", counts)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "a", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "")
	_ = db.UpsertNote(NoteRow{ID: "b", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "")

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Errorf("checksums = %v", all)
	}
}

func TestListNotes_TagFilterAndSort(t *testing.T) {
	db := testDB(t)
	base := time.Now()
	_ = db.UpsertNote(NoteRow{ID: "a", Title: "Bravo", Mood: 0.3, Checksum: "1", Tags: []string{"travel"}, UpdatedAt: base.Add(-time.Hour)}, "")
	_ = db.UpsertNote(NoteRow{ID: "b", Title: "Alpha", Mood: 0.9, Checksum: "2", Tags: []string{"travel", "family"}, UpdatedAt: base}, "")
	_ = db.UpsertNote(NoteRow{ID: "c", Title: "Charlie", Mood: -0.2, Checksum: "3", Tags: []string{"work"}, UpdatedAt: base.Add(-2 * time.Hour)}, "")

	rows, total, err := db.ListNotes(10, 0, "travel", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d, rows = %d, want 2/2", total, len(rows))
	}
	// Default sort is newest first.
	if rows[0].ID != "b" || rows[1].ID != "a" {
		t.Errorf("order = [%s %s], want [b a]", rows[0].ID, rows[1].ID)
	}

	rows, _, err = db.ListNotes(10, 0, "", "title")
	if err != nil {
		t.Fatalf("ListNotes by title: %v", err)
	}
	if rows[0].Title != "Alpha" {
		t.Errorf("title sort first = %q", rows[0].Title)
	}

	rows, _, err = db.ListNotes(10, 0, "", "mood")
	if err != nil {
		t.Fatalf("ListNotes by mood: %v", err)
	}
	if rows[0].ID != "b" {
		t.Errorf("mood sort first = %q", rows[0].ID)
	}
}

func TestListNotes_Pagination(t *testing.T) {
	db := testDB(t)
	for _, id := range []string{"a", "b", "c"} {
		_ = db.UpsertNote(NoteRow{ID: id, Checksum: id, Tags: []string{}, UpdatedAt: time.Now()}, "")
	}
	rows, total, err := db.ListNotes(2, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Errorf("total = %d, page = %d, want 3/2", total, len(rows))
	}
	rows, _, _ = db.ListNotes(2, 2, "", "")
	if len(rows) != 1 {
		t.Errorf("second page = %d rows, want 1", len(rows))
	}
}

func TestClusterCounts(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "a", Checksum: "1", Tags: []string{}, Clusters: []string{"Joy", "Love"}, UpdatedAt: time.Now()}, "")
	_ = db.UpsertNote(NoteRow{ID: "b", Checksum: "2", Tags: []string{}, Clusters: []string{"Joy"}, UpdatedAt: time.Now()}, "")

	counts, err := db.ClusterCounts()
	if err != nil {
		t.Fatalf("ClusterCounts: %v", err)
	}
	if counts["Joy"] != 2 || counts["Love"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestIndexDocument_HeadState(t *testing.T) {
	db := testDB(t)
	data := noteDoc(t, "Down day", "i miss her and cried lonely tears")
	if err := IndexDocument(db, "sad-note", data); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	rows, _, err := db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.Title != "Down day" || r.Sentiment != "negative" {
		t.Errorf("row = %+v", r)
	}
	if r.Mood >= 0 {
		t.Errorf("mood = %v, want negative for negative sentiment", r.Mood)
	}
	if r.Model != "mood-mini" {
		t.Errorf("model = %q", r.Model)
	}
}

func TestIndexDocument_CorruptPayload(t *testing.T) {
	db := testDB(t)
	if err := IndexDocument(db, "bad", []byte("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{ID: "s", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "s" {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}
