package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/embedding"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/vector"
)

// Engine runs hybrid search over the keyword and vector indices.
// When the embedding service is unavailable or the vector index is empty,
// it degrades to keyword-only search; the response's MethodsUsed records
// which paths actually contributed.
type Engine struct {
	keywordIndex keyword.KeywordIndex
	vectorIndex  vector.VectorIndex
	embedder     embedding.Embedder
	config       *config.SearchConfig
	logger       *zap.Logger
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(
	keywordIndex keyword.KeywordIndex,
	vectorIndex vector.VectorIndex,
	embedder embedding.Embedder,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		keywordIndex: keywordIndex,
		vectorIndex:  vectorIndex,
		embedder:     embedder,
		config:       cfg,
		logger:       logger,
	}
}

// Search runs hybrid search and returns ranked profile results.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := query.Validate(); err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query.Query)
	if q == "" {
		return &models.SearchResponse{
			Results:     []*models.SearchResult{},
			MethodsUsed: []string{},
			Query:       query.Query,
			QueryTime:   time.Since(startTime).Milliseconds(),
		}, nil
	}

	limit := query.Limit
	if e.config.MaxLimit > 0 && limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}
	alpha := *query.Alpha

	var (
		keywordResults  []*keyword.KeywordResult
		semanticResults []*vector.VectorResult
		semanticSkipped bool
		errChan         = make(chan error, 2)
		wg              sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results, err := e.keywordIndex.Search(ctx, q, e.config.TopKCandidates)
		if err != nil {
			errChan <- fmt.Errorf("keyword search failed: %w", err)
			return
		}
		keywordResults = results
	}()

	if alpha > 0 {
		if e.vectorIndex.Size() == 0 {
			semanticSkipped = true
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				queryEmbedding, err := e.embedder.Embed(ctx, q)
				if err != nil {
					var se *models.ServiceError
					if errors.As(err, &se) {
						e.logger.Warn("embedding unavailable, falling back to keyword search",
							zap.Error(err))
						semanticSkipped = true
						return
					}
					errChan <- fmt.Errorf("embedding failed: %w", err)
					return
				}
				results, err := e.vectorIndex.Search(ctx, queryEmbedding, e.config.TopKCandidates)
				if err != nil {
					errChan <- fmt.Errorf("semantic search failed: %w", err)
					return
				}
				semanticResults = results
			}()
		}
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	methods := []string{models.MethodKeyword}
	effectiveAlpha := alpha
	if alpha > 0 {
		if semanticSkipped {
			effectiveAlpha = 0
		} else {
			methods = append(methods, models.MethodSemantic)
		}
	}

	snippets := make(map[string]string, len(keywordResults))
	for _, r := range keywordResults {
		snippets[r.ID] = r.Snippet
	}

	fused := fuse(normalizeKeyword(keywordResults), normalizeSemantic(semanticResults), effectiveAlpha)

	total := len(fused)
	if limit < len(fused) {
		fused = fused[:limit]
	}

	response := &models.SearchResponse{
		Results:     make([]*models.SearchResult, 0, len(fused)),
		Total:       total,
		MethodsUsed: methods,
		Query:       query.Query,
		QueryTime:   time.Since(startTime).Milliseconds(),
	}
	for i, r := range fused {
		response.Results = append(response.Results, &models.SearchResult{
			ProfileID:     r.ProfileID,
			Score:         r.Score,
			KeywordScore:  r.KeywordScore,
			SemanticScore: r.SemanticScore,
			Snippet:       snippets[r.ProfileID],
			Rank:          i + 1,
		})
	}
	return response, nil
}
