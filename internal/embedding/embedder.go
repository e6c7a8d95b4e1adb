// Package embedding provides text embedding via an OpenAI-compatible API, with caching.
package embedding

import "context"

// Embedder produces vector embeddings for text.
// Failures of the backing service surface as a models.ServiceError.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
