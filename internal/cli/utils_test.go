package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ninerlabs/peermatch/internal/matcher"
	"github.com/ninerlabs/peermatch/internal/models"
)

func TestWriteSearchResults_Text(t *testing.T) {
	resp := &models.SearchResponse{
		Results: []*models.SearchResult{
			{ProfileID: "p1", Score: 0.9, Rank: 1, Snippet: "Python and SQL"},
		},
		Total:       1,
		MethodsUsed: []string{models.MethodKeyword, models.MethodSemantic},
	}

	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 1 profiles", "keyword, semantic", "p1", "Python and SQL"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	resp := &models.SearchResponse{Total: 2, Query: "databases"}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var got models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 2 || got.Query != "databases" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestWriteMatches_Text(t *testing.T) {
	matches := []*matcher.Match{
		{
			Profile: &models.Profile{ID: "p2", FullName: "Sam Park"},
			Result: &models.SimilarityResult{
				Overall:       0.72,
				MatchLevel:    "Great Match",
				Commonalities: []string{"Shared skills: Python"},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteMatches(&buf, matches, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Sam Park", "72%", "Great Match", "Shared skills: Python"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
