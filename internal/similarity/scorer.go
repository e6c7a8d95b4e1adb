// Package similarity computes pairwise profile similarity with a
// human-readable explanation of what two students have in common.
package similarity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/pkg/utils"
)

// maxNamedItems caps how many shared items a commonality statement names.
const maxNamedItems = 3

// Scorer computes weighted multi-factor similarity between two profiles.
// Scoring is symmetric: swapping the inputs yields the same overall score
// and the same commonality set.
type Scorer struct {
	weights config.WeightsConfig
}

// NewScorer creates a scorer. The four component weights must sum to 1.0.
func NewScorer(weights config.WeightsConfig) (*Scorer, error) {
	sum := weights.Skill + weights.Course + weights.Language + weights.Level
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, models.NewValidationError(
			fmt.Sprintf("component weights must sum to 1.0, got %.4f", sum))
	}
	return &Scorer{weights: weights}, nil
}

// Score computes the similarity between two profiles.
func (s *Scorer) Score(a, b *models.Profile) *models.SimilarityResult {
	skillScore, sharedSkills := skillSimilarity(a.TechnicalSkills, b.TechnicalSkills)
	courseScore, sharedCourses := overlapSimilarity(a.Courses, b.Courses, normalizeCourse)
	langScore, sharedLangs := overlapSimilarity(languageNames(a.Languages), languageNames(b.Languages), normalizeName)
	levelScore := levelSimilarity(a.Year, b.Year)

	overall := s.weights.Skill*skillScore +
		s.weights.Course*courseScore +
		s.weights.Language*langScore +
		s.weights.Level*levelScore
	overall = math.Max(0, math.Min(1, overall))

	commonalities := make([]string, 0, 4)
	if len(sharedSkills) > 0 {
		commonalities = append(commonalities, "Shared skills: "+joinCapped(sharedSkills))
	}
	if len(sharedCourses) > 0 {
		commonalities = append(commonalities, "Common courses: "+joinCapped(sharedCourses))
	}
	if len(sharedLangs) > 0 {
		commonalities = append(commonalities, "Both speak: "+joinCapped(sharedLangs))
	}
	if levelScore == 1.0 && strings.TrimSpace(a.Year) != "" {
		commonalities = append(commonalities,
			fmt.Sprintf("Both are %s students", minString(strings.TrimSpace(a.Year), strings.TrimSpace(b.Year))))
	}

	return &models.SimilarityResult{
		Overall: overall,
		Components: map[string]float64{
			models.ComponentSkills:    skillScore,
			models.ComponentCourses:   courseScore,
			models.ComponentLanguages: langScore,
			models.ComponentLevel:     levelScore,
		},
		Commonalities: commonalities,
		MatchLevel:    MatchLevel(overall),
	}
}

// MatchLevel maps a similarity score to a descriptive label.
func MatchLevel(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent Match"
	case score >= 0.65:
		return "Great Match"
	case score >= 0.5:
		return "Good Match"
	case score >= 0.35:
		return "Moderate Match"
	default:
		return "Low Match"
	}
}

// skillSimilarity combines name-set overlap with a proficiency bonus over
// shared skills: 0.7 * jaccard + 0.3 * average proficiency similarity, where
// proficiency similarity is 1 - |rankA - rankB| / 2.
func skillSimilarity(a, b []models.Skill) (float64, []string) {
	if len(a) == 0 && len(b) == 0 {
		return 1.0, nil
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0, nil
	}

	setA, ranksA := skillSet(a)
	setB, ranksB := skillSet(b)
	base := jaccard(setA, setB)

	bonus := 0.0
	sharedCount := 0
	for key := range setA {
		if _, ok := setB[key]; ok {
			bonus += 1 - math.Abs(float64(ranksA[key]-ranksB[key]))/2
			sharedCount++
		}
	}
	if sharedCount > 0 {
		bonus /= float64(sharedCount)
	}
	return 0.7*base + 0.3*bonus, sharedNames(setA, setB)
}

// overlapSimilarity is the jaccard overlap of two name lists after
// normalization, plus the sorted shared names for display.
func overlapSimilarity(a, b []string, normalize func(string) string) (float64, []string) {
	setA := nameSet(a, normalize)
	setB := nameSet(b, normalize)
	return jaccard(setA, setB), sharedNames(setA, setB)
}

// levelSimilarity is binary equality of academic years, case-insensitive.
// Two empty years compare equal so a profile is always maximally similar to itself.
func levelSimilarity(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1.0
	}
	return 0.0
}

// jaccard over normalized name sets. Both empty counts as a perfect overlap,
// one empty as none.
func jaccard(a, b map[string]string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for key := range a {
		if _, ok := b[key]; ok {
			intersection++
		}
	}
	union := len(a)
	for key := range b {
		if _, ok := a[key]; !ok {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// nameSet maps normalized name to a display spelling, skipping blanks.
// When the same name appears with different spellings the lexicographically
// smaller one wins, keeping the display stable regardless of input order.
func nameSet(names []string, normalize func(string) string) map[string]string {
	set := make(map[string]string, len(names))
	for _, name := range names {
		key := normalize(name)
		if key == "" {
			continue
		}
		display := utils.NormalizeWhitespace(name)
		if cur, ok := set[key]; !ok || display < cur {
			set[key] = display
		}
	}
	return set
}

func skillSet(skills []models.Skill) (map[string]string, map[string]int) {
	set := make(map[string]string, len(skills))
	ranks := make(map[string]int, len(skills))
	for _, sk := range skills {
		key := normalizeName(sk.Name)
		if key == "" {
			continue
		}
		display := utils.NormalizeWhitespace(sk.Name)
		if cur, ok := set[key]; !ok || display < cur {
			set[key] = display
		}
		ranks[key] = models.ProficiencyRank(sk.Proficiency)
	}
	return set, ranks
}

// sharedNames returns the display names present in both sets, sorted.
// For a name spelled differently on each side the smaller spelling is used
// so that score(a, b) and score(b, a) report identical commonalities.
func sharedNames(a, b map[string]string) []string {
	var out []string
	for key, av := range a {
		if bv, ok := b[key]; ok {
			out = append(out, minString(av, bv))
		}
	}
	sort.Strings(out)
	return out
}

func languageNames(langs []models.Language) []string {
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, l.Name)
	}
	return names
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeCourse(s string) string {
	return strings.ToLower(utils.NormalizeWhitespace(s))
}

func joinCapped(names []string) string {
	if len(names) > maxNamedItems {
		names = names[:maxNamedItems]
	}
	return strings.Join(names, ", ")
}

func minString(a, b string) string {
	if b < a {
		return b
	}
	return a
}
