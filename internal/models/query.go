package models

import (
	"fmt"
	"strings"
)

// DefaultAlpha is the default blend weight between semantic and keyword
// scores: 0 = pure keyword, 1 = pure semantic.
const DefaultAlpha = 0.5

// SearchQuery is a hybrid search request.
type SearchQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	// Alpha is the semantic blend weight in [0,1]. Nil means DefaultAlpha.
	Alpha *float64 `json:"alpha,omitempty"`
}

// Validate normalizes the query and checks alpha and limit.
// An empty query is allowed (it yields empty results, not an error).
func (q *SearchQuery) Validate() error {
	q.Query = strings.TrimSpace(q.Query)
	if q.Limit <= 0 {
		return NewValidationError(fmt.Sprintf("limit must be positive, got %d", q.Limit))
	}
	if q.Alpha == nil {
		a := DefaultAlpha
		q.Alpha = &a
	}
	if *q.Alpha < 0 || *q.Alpha > 1 {
		return NewValidationError(fmt.Sprintf("alpha must be in [0,1], got %g", *q.Alpha))
	}
	return nil
}
