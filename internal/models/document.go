package models

// IndexedDocument is the read-only searchable projection of a Profile:
// a concatenation of its relevant text fields plus the profile id.
// Rebuilt whenever the source profile changes, never edited directly.
type IndexedDocument struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
}
