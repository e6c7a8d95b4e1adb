package indexer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/embedding"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/storage"
	"github.com/ninerlabs/peermatch/internal/vector"
)

// Indexer applies profile changes to the store and both indices.
type Indexer struct {
	storage      storage.Storage
	embedder     embedding.Embedder
	vectorIndex  vector.VectorIndex
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	keywordIndex keyword.KeywordIndex,
	logger *zap.Logger,
) *Indexer {
	return &Indexer{
		storage:      store,
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		keywordIndex: keywordIndex,
		logger:       logger,
	}
}

// UpsertProfile validates and persists a profile, then reindexes it.
// A missing ID gets a generated one. The embedding is computed before any
// state is touched, so an embedding service failure leaves the store and
// both indices exactly as they were.
func (idx *Indexer) UpsertProfile(ctx context.Context, p *models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	doc := BuildDocument(p)
	emb, err := idx.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return err
	}

	if err := idx.storage.UpsertProfile(ctx, p); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	if err := idx.keywordIndex.Upsert(ctx, p.ID, doc); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	if err := idx.vectorIndex.Upsert(ctx, p.ID, emb); err != nil {
		return fmt.Errorf("failed to index embedding: %w", err)
	}

	idx.logger.Debug("profile indexed", zap.String("profile_id", p.ID))
	return nil
}

// RemoveProfile removes a profile from both indices and the store.
// Indices are cleared before the store row so an embedding is never served
// for an ID the store no longer has.
func (idx *Indexer) RemoveProfile(ctx context.Context, id string) error {
	if err := idx.keywordIndex.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove from keyword index: %w", err)
	}
	if err := idx.vectorIndex.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove from vector index: %w", err)
	}
	if err := idx.storage.DeleteProfile(ctx, id); err != nil {
		return err
	}

	idx.logger.Debug("profile removed", zap.String("profile_id", id))
	return nil
}

// RebuildIndexes reindexes every stored profile into the keyword and vector
// indices. Profiles whose embedding cannot be generated stay searchable by
// keyword. Returns the number of profiles indexed and how many embeddings failed.
func (idx *Indexer) RebuildIndexes(ctx context.Context) (indexed, embedFailures int, err error) {
	profiles, err := idx.storage.ListProfiles(ctx, 0, -1)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	for _, p := range profiles {
		doc := BuildDocument(p)
		if err := idx.keywordIndex.Upsert(ctx, p.ID, doc); err != nil {
			return indexed, embedFailures, fmt.Errorf("failed to index keywords for %s: %w", p.ID, err)
		}
		emb, err := idx.embedder.Embed(ctx, doc.Content)
		if err != nil {
			idx.logger.Warn("embedding failed during rebuild, profile is keyword-only",
				zap.String("profile_id", p.ID), zap.Error(err))
			embedFailures++
		} else if err := idx.vectorIndex.Upsert(ctx, p.ID, emb); err != nil {
			return indexed, embedFailures, fmt.Errorf("failed to index embedding for %s: %w", p.ID, err)
		}
		indexed++
	}

	idx.logger.Info("indices rebuilt",
		zap.Int("profiles", indexed), zap.Int("embed_failures", embedFailures))
	return indexed, embedFailures, nil
}
