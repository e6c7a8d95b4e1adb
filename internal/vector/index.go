// Package vector provides an in-memory embedding index with cosine similarity search.
package vector

import "context"

// VectorIndex defines embedding storage and nearest-neighbor search,
// keyed by profile id.
type VectorIndex interface {
	// Upsert stores or replaces the vector for id. A vector whose dimension
	// does not match the index fails with a ValidationError and leaves any
	// prior entry for id untouched.
	Upsert(ctx context.Context, id string, vec []float32) error
	// Remove deletes the vector for id. Unknown ids are a no-op.
	Remove(ctx context.Context, id string) error
	// Search returns up to k entries by cosine similarity to query,
	// highest first, ties broken by profile id ascending.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Save(path string) error
	Load(path string) error
	Size() int
	Dimensions() int
	Close() error
}

// VectorResult is a single vector search hit.
type VectorResult struct {
	ID    string
	Score float64 // cosine similarity, in [-1,1]
}
