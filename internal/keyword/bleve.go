// Package keyword provides the Bleve implementation of KeywordIndex.
package keyword

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevemapping "github.com/blevesearch/bleve/v2/mapping"

	"github.com/ninerlabs/peermatch/internal/models"
)

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// buildMapping returns the index mapping for profile documents.
// The standard analyzer (lowercase + tokenize, no stemming) is used so a
// query like "stats" matches the exact word rather than a stemmed form.
func buildMapping() *blevemapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	idFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("profile_id", idFieldMapping)
	im.AddDocumentMapping("profile", docMapping)
	im.DefaultType = "profile"
	im.DefaultMapping = docMapping

	return im
}

// NewBleveIndex creates or opens a Bleve index at path.
// An existing index at path is opened and reused; if the mapping changes in
// code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory Bleve index, used for tests and
// for running without a configured index path.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Upsert indexes doc under id. Bleve replaces documents indexed under the
// same id, which gives upsert semantics directly.
func (b *BleveIndex) Upsert(ctx context.Context, id string, doc *models.IndexedDocument) error {
	if err := b.index.Index(id, doc); err != nil {
		return fmt.Errorf("bleve index %s: %w", id, err)
	}
	return nil
}

// Remove deletes the document for id. Deleting an unknown id is a no-op.
func (b *BleveIndex) Remove(ctx context.Context, id string) error {
	if err := b.index.Delete(id); err != nil {
		return fmt.Errorf("bleve delete %s: %w", id, err)
	}
	return nil
}

// Search runs a match query over name and content and returns up to limit
// hits, score descending with ties broken by profile id ascending.
// Highlights are requested so each hit carries a snippet of matched terms.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*KeywordResult, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return []*KeywordResult{}, nil
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"profile_id"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("content")

	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		snippet := ""
		if frags, ok := hit.Fragments["content"]; ok && len(frags) > 0 {
			snippet = frags[0]
		}
		out[i] = &KeywordResult{ID: hit.ID, Score: hit.Score, Snippet: snippet}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DocCount returns the total number of documents in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
