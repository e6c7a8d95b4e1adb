package models

import "time"

// Swipe actions a student can take on a candidate.
const (
	SwipeLike      = "like"
	SwipeDislike   = "dislike"
	SwipeSuperLike = "super_like"
)

// SwipeFeedback records one student's judgment on a candidate, together
// with the similarity snapshot used for scoring at judgment time.
// Append-only; used to exclude already-judged candidates from later matches.
type SwipeFeedback struct {
	ID          int64              `json:"id" db:"id"`
	SwiperID    string             `json:"swiper_id" db:"swiper_id"`
	CandidateID string             `json:"candidate_id" db:"candidate_id"`
	Action      string             `json:"action" db:"action"`
	Score       float64            `json:"score" db:"score"`
	Components  map[string]float64 `json:"components,omitempty"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

// ValidAction reports whether action is one of the recognized swipe actions.
func ValidAction(action string) bool {
	switch action {
	case SwipeLike, SwipeDislike, SwipeSuperLike:
		return true
	}
	return false
}
