// Package keyword provides full-text indexing and ranked term search over profiles.
package keyword

import (
	"context"

	"github.com/ninerlabs/peermatch/internal/models"
)

// KeywordIndex defines keyword search operations over profile documents.
type KeywordIndex interface {
	// Upsert indexes doc under id, replacing any prior document for that id.
	Upsert(ctx context.Context, id string, doc *models.IndexedDocument) error
	// Remove deletes the document for id. Unknown ids are a no-op.
	Remove(ctx context.Context, id string) error
	// Search returns up to limit documents ranked by relevance, score
	// descending with ties broken by profile id ascending. An empty or
	// whitespace-only query yields an empty result, not an error.
	Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error)
	// DocCount returns the total number of indexed documents.
	DocCount() (uint64, error)
	Close() error
}

// KeywordResult is a single keyword search hit.
type KeywordResult struct {
	ID      string
	Score   float64
	Snippet string
}
