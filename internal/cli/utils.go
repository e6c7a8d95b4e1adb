// Package cli provides output helpers for the PeerMatch command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ninerlabs/peermatch/internal/matcher"
	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	}

	fmt.Fprintf(w, "\nFound %d profiles in %dms (methods: %s)\n\n",
		response.Total, response.QueryTime, strings.Join(response.MethodsUsed, ", "))
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f (Keyword: %.4f, Semantic: %.4f)\n",
			result.Rank, result.Score, result.KeywordScore, result.SemanticScore)
		fmt.Fprintf(w, "Profile: %s\n", result.ProfileID)
		if result.Snippet != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Snippet, 200))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteMatches writes match results to w in the given format.
func WriteMatches(w io.Writer, matches []*matcher.Match, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	fmt.Fprintf(w, "\nFound %d matches\n\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		name := m.Profile.FullName
		if name == "" {
			name = m.Profile.ID
		}
		fmt.Fprintf(w, "%d. %s (%.0f%% - %s)\n", i+1, name, m.Result.Overall*100, m.Result.MatchLevel)
		for _, c := range m.Result.Commonalities {
			fmt.Fprintf(w, "   - %s\n", c)
		}
		fmt.Fprintln(w)
	}
	return nil
}
