package models

// Search methods reported in SearchResponse.MethodsUsed.
const (
	MethodKeyword  = "keyword"
	MethodSemantic = "semantic"
)

// SearchResult is a single hybrid search hit.
type SearchResult struct {
	ProfileID     string  `json:"profile_id"`
	Score         float64 `json:"score"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"`
	Snippet       string  `json:"snippet,omitempty"`
	Rank          int     `json:"rank"`
}

// SearchResponse is the response for a hybrid search request.
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	Total       int             `json:"total"`
	MethodsUsed []string        `json:"methods_used"`
	QueryTime   int64           `json:"query_time_ms"`
	Query       string          `json:"query"`
}

// SimilarityResult is the outcome of scoring one profile pair.
// Ephemeral: recomputed per query, never persisted.
type SimilarityResult struct {
	// Overall is the weighted similarity in [0,1].
	Overall float64 `json:"overall"`
	// Components holds per-factor scores: skills, courses, languages, level.
	Components map[string]float64 `json:"components"`
	// Commonalities are human-readable shared-attribute statements,
	// highest-impact factor first. Empty when nothing overlaps.
	Commonalities []string `json:"commonalities"`
	// MatchLevel is a descriptive label derived from Overall.
	MatchLevel string `json:"match_level"`
}

// Component score keys in SimilarityResult.Components.
const (
	ComponentSkills    = "skills"
	ComponentCourses   = "courses"
	ComponentLanguages = "languages"
	ComponentLevel     = "level"
)
