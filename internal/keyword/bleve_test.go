package keyword

import (
	"context"
	"testing"

	"github.com/ninerlabs/peermatch/internal/models"
)

func newTestIndex(t *testing.T) *BleveIndex {
	t.Helper()
	idx, err := NewMemoryBleveIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func indexDoc(t *testing.T, idx *BleveIndex, id, name, content string) {
	t.Helper()
	doc := &models.IndexedDocument{ProfileID: id, Name: name, Content: content}
	if err := idx.Upsert(context.Background(), id, doc); err != nil {
		t.Fatal(err)
	}
}

func TestBleveIndex_UpsertSearch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexDoc(t, idx, "p1", "Amy Chen", "Python SQL machine learning CS201 data structures")
	indexDoc(t, idx, "p2", "Ben Ortiz", "Java Spring backend development CS310")

	results, err := idx.Search(ctx, "python", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "p1" {
		t.Errorf("expected p1, got %s", results[0].ID)
	}
	if results[0].Score <= 0 {
		t.Errorf("score should be positive, got %f", results[0].Score)
	}
}

func TestBleveIndex_CaseInsensitive(t *testing.T) {
	idx := newTestIndex(t)
	indexDoc(t, idx, "p1", "Amy", "Distributed Systems and Golang")

	for _, q := range []string{"GOLANG", "golang", "Golang"} {
		results, err := idx.Search(context.Background(), q, 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 {
			t.Errorf("query %q: expected 1 result, got %d", q, len(results))
		}
	}
}

func TestBleveIndex_EmptyQuery(t *testing.T) {
	idx := newTestIndex(t)
	indexDoc(t, idx, "p1", "Amy", "python")

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := idx.Search(context.Background(), q, 5)
		if err != nil {
			t.Fatalf("query %q should not fail: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("query %q: expected empty result, got %d", q, len(results))
		}
	}
}

func TestBleveIndex_NoMatches(t *testing.T) {
	idx := newTestIndex(t)
	indexDoc(t, idx, "p1", "Amy", "python sql")

	results, err := idx.Search(context.Background(), "astrophysics", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBleveIndex_UpsertReplaces(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	indexDoc(t, idx, "p1", "Amy", "python programming")
	indexDoc(t, idx, "p1", "Amy", "haskell functional programming")

	count, err := idx.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 document after re-upsert, got %d", count)
	}

	results, _ := idx.Search(ctx, "python", 5)
	if len(results) != 0 {
		t.Error("old document text should no longer be queryable")
	}
	results, _ = idx.Search(ctx, "haskell", 5)
	if len(results) != 1 {
		t.Error("new document text should be queryable")
	}
}

func TestBleveIndex_Remove(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()
	indexDoc(t, idx, "p1", "Amy", "python")

	if err := idx.Remove(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	results, _ := idx.Search(ctx, "python", 5)
	if len(results) != 0 {
		t.Error("removed document still queryable")
	}

	// Removing an unknown id is a no-op.
	if err := idx.Remove(ctx, "ghost"); err != nil {
		t.Errorf("remove of unknown id should not fail: %v", err)
	}
}

func TestBleveIndex_Snippet(t *testing.T) {
	idx := newTestIndex(t)
	indexDoc(t, idx, "p1", "Amy", "Experienced in Python and distributed databases. Courses: CS201, CS310.")

	results, err := idx.Search(context.Background(), "databases", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Snippet == "" {
		t.Error("expected a highlight snippet for the matched document")
	}
}

func TestBleveIndex_TieBreakByID(t *testing.T) {
	idx := newTestIndex(t)
	// Identical content scores identically; order must fall back to id ascending.
	indexDoc(t, idx, "p2", "B", "rust systems programming")
	indexDoc(t, idx, "p1", "A", "rust systems programming")

	results, err := idx.Search(context.Background(), "rust", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "p1" || results[1].ID != "p2" {
		t.Errorf("tie-break order wrong: %s, %s", results[0].ID, results[1].ID)
	}
}
