package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/models"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings API.
// Requests are rate limited and responses cached by text.
type OpenAIEmbedder struct {
	embedder   embeddings.Embedder
	cache      *Cache
	limiter    *rate.Limiter
	dimensions int
}

// NewOpenAIEmbedder creates an embedder backed by the configured API.
// apiKey must not be empty.
func NewOpenAIEmbedder(cfg config.EmbeddingConfig, apiKey string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, models.NewValidationError("embedding api key is required")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	rps := cfg.RequestsPerS
	if rps <= 0 {
		rps = 5
	}
	return &OpenAIEmbedder{
		embedder:   embedder,
		cache:      NewCache(cfg.CacheSize),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed returns the embedding for text, from cache when available.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, models.NewServiceError("embedding", err)
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, models.NewServiceError("embedding", err)
	}
	if len(vectors) != 1 {
		return nil, models.NewServiceError("embedding",
			fmt.Errorf("expected 1 embedding, got %d", len(vectors)))
	}
	vec := vectors[0]
	if len(vec) != e.dimensions {
		return nil, models.NewServiceError("embedding",
			fmt.Errorf("embedding dimension mismatch: got %d, expected %d", len(vec), e.dimensions))
	}

	e.cache.Set(text, vec)
	return vec, nil
}

// EmbedBatch embeds each text, using the cache per text.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = vec
	}
	return results, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the underlying client has no resources to release.
func (e *OpenAIEmbedder) Close() error {
	return nil
}
