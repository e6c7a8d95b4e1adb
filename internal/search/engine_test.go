package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/vector"
)

// stubEmbedder returns a fixed vector per text so semantic ordering is predictable.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, models.NewServiceError("embedding", errors.New("connection refused"))
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }
func (s *stubEmbedder) Close() error    { return nil }

func testConfig() *config.SearchConfig {
	return &config.SearchConfig{
		DefaultLimit:   10,
		MaxLimit:       100,
		DefaultAlpha:   0.5,
		TopKCandidates: 100,
		SnippetLength:  250,
	}
}

func newTestEngine(t *testing.T, emb *stubEmbedder) (*Engine, keyword.KeywordIndex, vector.VectorIndex) {
	t.Helper()
	kw, err := keyword.NewMemoryBleveIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kw.Close() })
	vec, err := vector.NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(kw, vec, emb, testConfig(), zap.NewNop()), kw, vec
}

func alphaPtr(f float64) *float64 { return &f }

func TestEngine_KeywordOnly(t *testing.T) {
	emb := &stubEmbedder{}
	engine, kw, _ := newTestEngine(t, emb)
	ctx := context.Background()

	_ = kw.Upsert(ctx, "p1", &models.IndexedDocument{ProfileID: "p1", Content: "python machine learning python"})
	_ = kw.Upsert(ctx, "p2", &models.IndexedDocument{ProfileID: "p2", Content: "java spring backend"})

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "python", Limit: 10, Alpha: alphaPtr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ProfileID != "p1" {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	if len(resp.MethodsUsed) != 1 || resp.MethodsUsed[0] != models.MethodKeyword {
		t.Errorf("methods = %v, want [keyword]", resp.MethodsUsed)
	}
	if resp.Results[0].Rank != 1 {
		t.Errorf("rank = %d", resp.Results[0].Rank)
	}
}

func TestEngine_SemanticOnlyOrdering(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"databases": {1, 0, 0}}}
	engine, kw, vec := newTestEngine(t, emb)
	ctx := context.Background()

	_ = kw.Upsert(ctx, "p1", &models.IndexedDocument{ProfileID: "p1", Content: "databases sql"})
	_ = kw.Upsert(ctx, "p2", &models.IndexedDocument{ProfileID: "p2", Content: "databases nosql"})
	_ = vec.Upsert(ctx, "p1", []float32{0, 1, 0})
	_ = vec.Upsert(ctx, "p2", []float32{1, 0, 0})

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "databases", Limit: 10, Alpha: alphaPtr(1)})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Results[0].ProfileID != "p2" {
		t.Errorf("alpha=1 should order by semantic similarity, got %s first", resp.Results[0].ProfileID)
	}
	if len(resp.MethodsUsed) != 2 {
		t.Errorf("methods = %v, want both", resp.MethodsUsed)
	}
}

func TestEngine_FallbackOnEmptyVectorIndex(t *testing.T) {
	emb := &stubEmbedder{}
	engine, kw, _ := newTestEngine(t, emb)
	ctx := context.Background()
	_ = kw.Upsert(ctx, "p1", &models.IndexedDocument{ProfileID: "p1", Content: "golang services"})

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "golang", Limit: 10, Alpha: alphaPtr(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.MethodsUsed) != 1 || resp.MethodsUsed[0] != models.MethodKeyword {
		t.Errorf("expected keyword-only fallback, methods = %v", resp.MethodsUsed)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	// Fallback must not zero out the score by weighting a missing semantic side.
	if resp.Results[0].Score != 1.0 {
		t.Errorf("fallback score = %f, want 1.0", resp.Results[0].Score)
	}
}

func TestEngine_FallbackOnEmbedderFailure(t *testing.T) {
	emb := &stubEmbedder{fail: true}
	engine, kw, vec := newTestEngine(t, emb)
	ctx := context.Background()
	_ = kw.Upsert(ctx, "p1", &models.IndexedDocument{ProfileID: "p1", Content: "golang services"})
	_ = vec.Upsert(ctx, "p1", []float32{1, 0, 0})

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "golang", Limit: 10, Alpha: alphaPtr(0.5)})
	if err != nil {
		t.Fatalf("embedder failure should degrade, not fail: %v", err)
	}
	if len(resp.MethodsUsed) != 1 || resp.MethodsUsed[0] != models.MethodKeyword {
		t.Errorf("expected keyword-only fallback, methods = %v", resp.MethodsUsed)
	}
}

func TestEngine_EmptyQuery(t *testing.T) {
	engine, _, _ := newTestEngine(t, &stubEmbedder{})
	resp, err := engine.Search(context.Background(), &models.SearchQuery{Query: "   ", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 0 || resp.Total != 0 {
		t.Errorf("whitespace query should return no results: %+v", resp)
	}
}

func TestEngine_InvalidQuery(t *testing.T) {
	engine, _, _ := newTestEngine(t, &stubEmbedder{})
	ctx := context.Background()
	var ve *models.ValidationError

	_, err := engine.Search(ctx, &models.SearchQuery{Query: "x", Limit: 0})
	if !errors.As(err, &ve) {
		t.Errorf("limit 0 should be a ValidationError, got %v", err)
	}
	_, err = engine.Search(ctx, &models.SearchQuery{Query: "x", Limit: 5, Alpha: alphaPtr(1.5)})
	if !errors.As(err, &ve) {
		t.Errorf("alpha 1.5 should be a ValidationError, got %v", err)
	}
}

func TestEngine_LimitTruncatesButTotalCounts(t *testing.T) {
	engine, kw, _ := newTestEngine(t, &stubEmbedder{})
	ctx := context.Background()
	_ = kw.Upsert(ctx, "p1", &models.IndexedDocument{ProfileID: "p1", Content: "rust systems"})
	_ = kw.Upsert(ctx, "p2", &models.IndexedDocument{ProfileID: "p2", Content: "rust embedded"})
	_ = kw.Upsert(ctx, "p3", &models.IndexedDocument{ProfileID: "p3", Content: "rust compilers"})

	resp, err := engine.Search(ctx, &models.SearchQuery{Query: "rust", Limit: 2, Alpha: alphaPtr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
}

func TestFuse_UnionAndWeights(t *testing.T) {
	keywordScores := map[string]float64{"a": 1.0, "b": 0.5}
	semanticScores := map[string]float64{"b": 1.0, "c": 0.8}

	results := fuse(keywordScores, semanticScores, 0.5)
	if len(results) != 3 {
		t.Fatalf("fusion should cover the union, got %d", len(results))
	}
	scores := make(map[string]float64)
	for _, r := range results {
		scores[r.ProfileID] = r.Score
	}
	if scores["b"] != 0.75 {
		t.Errorf("b = %f, want 0.75", scores["b"])
	}
	if scores["a"] != 0.5 || scores["c"] != 0.4 {
		t.Errorf("a = %f, c = %f", scores["a"], scores["c"])
	}
	if results[0].ProfileID != "b" {
		t.Errorf("expected b first, got %s", results[0].ProfileID)
	}
}

func TestFuse_TieBreakByProfileID(t *testing.T) {
	results := fuse(map[string]float64{"z": 1.0, "a": 1.0}, nil, 0)
	if results[0].ProfileID != "a" || results[1].ProfileID != "z" {
		t.Errorf("tie-break order wrong: %s, %s", results[0].ProfileID, results[1].ProfileID)
	}
}

func TestNormalizeKeyword_AllEqual(t *testing.T) {
	scores := normalizeKeyword([]*keyword.KeywordResult{
		{ID: "a", Score: 2.5},
		{ID: "b", Score: 2.5},
	})
	if scores["a"] != 1.0 || scores["b"] != 1.0 {
		t.Errorf("all-equal scores should normalize to 1.0, got %v", scores)
	}
}
