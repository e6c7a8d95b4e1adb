// Package matcher ranks candidate profiles against a requesting profile.
package matcher

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/similarity"
)

// Match pairs a candidate profile with its similarity result.
type Match struct {
	Profile *models.Profile          `json:"profile"`
	Result  *models.SimilarityResult `json:"result"`
}

// Matcher finds the best-matching candidates for a profile.
// Candidates scoring below minScore are dropped; a minScore of 0 disables
// the cutoff.
type Matcher struct {
	scorer   *similarity.Scorer
	minScore float64
	logger   *zap.Logger
}

// NewMatcher creates a matcher using the given scorer and score cutoff.
func NewMatcher(scorer *similarity.Scorer, minScore float64, logger *zap.Logger) *Matcher {
	return &Matcher{
		scorer:   scorer,
		minScore: minScore,
		logger:   logger,
	}
}

// FindMatches scores requesting against every candidate and returns the top
// matches, highest similarity first, ties broken by profile ID ascending.
// The requesting profile itself and any ID in excluded are never returned.
func (m *Matcher) FindMatches(
	requesting *models.Profile,
	candidates []*models.Profile,
	excluded map[string]struct{},
	limit int,
) ([]*Match, error) {
	if limit <= 0 {
		return nil, models.NewValidationError("limit must be positive")
	}

	matches := make([]*Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == requesting.ID || candidate.Email == requesting.Email {
			continue
		}
		if _, skip := excluded[candidate.ID]; skip {
			continue
		}
		result := m.scorer.Score(requesting, candidate)
		if m.minScore > 0 && result.Overall < m.minScore {
			continue
		}
		matches = append(matches, &Match{Profile: candidate, Result: result})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Result.Overall != matches[j].Result.Overall {
			return matches[i].Result.Overall > matches[j].Result.Overall
		}
		return matches[i].Profile.ID < matches[j].Profile.ID
	})

	m.logger.Debug("matched candidates",
		zap.String("profile_id", requesting.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)))

	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}
