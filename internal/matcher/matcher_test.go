package matcher

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/similarity"
)

func newTestMatcher(t *testing.T, minScore float64) *Matcher {
	t.Helper()
	scorer, err := similarity.NewScorer(config.WeightsConfig{
		Skill: 0.35, Course: 0.35, Language: 0.15, Level: 0.15,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewMatcher(scorer, minScore, zap.NewNop())
}

func profileWithSkills(id string, skills ...string) *models.Profile {
	p := &models.Profile{ID: id, Email: id + "@uni.edu"}
	for _, s := range skills {
		p.TechnicalSkills = append(p.TechnicalSkills, models.Skill{Name: s})
	}
	return p
}

func TestFindMatches_RanksBySimilarity(t *testing.T) {
	m := newTestMatcher(t, 0)
	me := profileWithSkills("me", "Python", "SQL")
	candidates := []*models.Profile{
		profileWithSkills("distant", "Cooking"),
		profileWithSkills("close", "Python", "SQL"),
		profileWithSkills("partial", "Python"),
	}

	matches, err := m.FindMatches(me, candidates, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Profile.ID != "close" || matches[1].Profile.ID != "partial" {
		t.Errorf("order wrong: %s, %s, %s",
			matches[0].Profile.ID, matches[1].Profile.ID, matches[2].Profile.ID)
	}
	if matches[0].Result.Overall < matches[1].Result.Overall {
		t.Error("matches not sorted by score descending")
	}
}

func TestFindMatches_NeverReturnsSelf(t *testing.T) {
	m := newTestMatcher(t, 0)
	me := profileWithSkills("me", "Go")
	sameEmail := profileWithSkills("other", "Go")
	sameEmail.Email = me.Email

	matches, err := m.FindMatches(me, []*models.Profile{me, sameEmail}, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("self and same-email candidates must be excluded, got %d", len(matches))
	}
}

func TestFindMatches_ExcludedIDs(t *testing.T) {
	m := newTestMatcher(t, 0)
	me := profileWithSkills("me", "Go")
	candidates := []*models.Profile{
		profileWithSkills("a", "Go"),
		profileWithSkills("b", "Go"),
	}
	excluded := map[string]struct{}{"a": {}}

	matches, err := m.FindMatches(me, candidates, excluded, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "b" {
		t.Errorf("excluded candidate returned: %+v", matches)
	}
}

func TestFindMatches_MinScoreCutoff(t *testing.T) {
	m := newTestMatcher(t, 0.9)
	me := profileWithSkills("me", "Python", "SQL", "Go")
	candidates := []*models.Profile{
		profileWithSkills("weak", "Python"),
		profileWithSkills("strong", "Python", "SQL", "Go"),
	}

	matches, err := m.FindMatches(me, candidates, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Profile.ID != "strong" {
		t.Errorf("cutoff should keep only the strong match: %+v", matches)
	}
}

func TestFindMatches_TieBreakByID(t *testing.T) {
	m := newTestMatcher(t, 0)
	me := profileWithSkills("me", "Go")
	candidates := []*models.Profile{
		profileWithSkills("z", "Go"),
		profileWithSkills("a", "Go"),
	}

	matches, err := m.FindMatches(me, candidates, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if matches[0].Profile.ID != "a" || matches[1].Profile.ID != "z" {
		t.Errorf("tie-break order wrong: %s, %s", matches[0].Profile.ID, matches[1].Profile.ID)
	}
}

func TestFindMatches_LimitAndValidation(t *testing.T) {
	m := newTestMatcher(t, 0)
	me := profileWithSkills("me", "Go")
	candidates := []*models.Profile{
		profileWithSkills("a", "Go"),
		profileWithSkills("b", "Go"),
		profileWithSkills("c", "Go"),
	}

	matches, err := m.FindMatches(me, candidates, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}

	var ve *models.ValidationError
	if _, err := m.FindMatches(me, candidates, nil, 0); !errors.As(err, &ve) {
		t.Errorf("limit 0 should be a ValidationError, got %v", err)
	}
}

func TestFindMatches_EmptyPool(t *testing.T) {
	m := newTestMatcher(t, 0)
	matches, err := m.FindMatches(profileWithSkills("me", "Go"), nil, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}
