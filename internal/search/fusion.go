// Package search provides hybrid (keyword + semantic) profile search.
package search

import (
	"sort"

	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/vector"
	"github.com/ninerlabs/peermatch/pkg/utils"
)

// fusedResult holds a profile ID and its fused component scores.
type fusedResult struct {
	ProfileID     string
	Score         float64
	KeywordScore  float64
	SemanticScore float64
}

// normalizeKeyword min-max normalizes keyword scores to [0,1].
// When all scores are equal every entry maps to 1.0.
func normalizeKeyword(results []*keyword.KeywordResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.ID] = r.Score
	}
	utils.MinMaxNormalize(scores)
	return scores
}

// normalizeSemantic min-max normalizes cosine similarities to [0,1].
func normalizeSemantic(results []*vector.VectorResult) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.ID] = r.Score
	}
	utils.MinMaxNormalize(scores)
	return scores
}

// fuse merges the two normalized score maps over the union of profile IDs,
// weighting semantic by alpha and keyword by 1-alpha. Results are sorted by
// fused score descending, ties broken by profile ID ascending.
func fuse(keywordScores, semanticScores map[string]float64, alpha float64) []*fusedResult {
	merged := make(map[string]*fusedResult, len(keywordScores)+len(semanticScores))
	for id, score := range keywordScores {
		merged[id] = &fusedResult{ProfileID: id, KeywordScore: score}
	}
	for id, score := range semanticScores {
		if r, ok := merged[id]; ok {
			r.SemanticScore = score
		} else {
			merged[id] = &fusedResult{ProfileID: id, SemanticScore: score}
		}
	}

	results := make([]*fusedResult, 0, len(merged))
	for _, r := range merged {
		r.Score = alpha*r.SemanticScore + (1-alpha)*r.KeywordScore
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ProfileID < results[j].ProfileID
	})
	return results
}
