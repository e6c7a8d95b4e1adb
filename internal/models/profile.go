// Package models defines core data structures for profiles, queries, and match results.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Proficiency levels recognized for technical skills and languages.
const (
	ProficiencyBeginner     = "Beginner"
	ProficiencyIntermediate = "Intermediate"
	ProficiencyAdvanced     = "Advanced"
)

// ProficiencyRank maps a proficiency level to a numeric rank (1-3).
// Unknown or empty levels rank as Intermediate.
func ProficiencyRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner", "basic", "novice":
		return 1
	case "advanced", "expert", "fluent", "native":
		return 3
	default:
		return 2
	}
}

// Skill is a technical skill with a proficiency level.
type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Language is a spoken language with a proficiency level.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Experience is one professional experience entry.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// Profile is one student's structured academic and skill record.
// ID is immutable once assigned; Email is unique across profiles.
// A profile owns its nested collections exclusively.
type Profile struct {
	ID       string `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	FullName string `json:"full_name,omitempty"`
	Year     string `json:"year,omitempty"`
	Program  string `json:"program,omitempty"`
	Major    string `json:"major,omitempty"`

	TechnicalSkills []Skill    `json:"technical_skills,omitempty"`
	SoftSkills      []string   `json:"soft_skills,omitempty"`
	Languages       []Language `json:"languages,omitempty"`
	Courses         []string   `json:"courses,omitempty"`

	AcademicInterests []string `json:"academic_interests,omitempty"`
	PersonalInterests []string `json:"personal_interests,omitempty"`
	Certifications    []string `json:"certifications,omitempty"`
	Conferences       []string `json:"conferences,omitempty"`
	Organizations     []string `json:"organizations,omitempty"`

	Experience         []Experience `json:"experience,omitempty"`
	AcademicBackground string       `json:"academic_background,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Validate checks the fields required at the store boundary.
func (p *Profile) Validate() error {
	if p.Email == "" {
		return NewValidationError("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return NewValidationError(fmt.Sprintf("invalid email %q", p.Email))
	}
	return nil
}

// SkillNames returns the lowercase technical skill names.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.TechnicalSkills))
	for _, s := range p.TechnicalSkills {
		if n := strings.TrimSpace(s.Name); n != "" {
			names = append(names, strings.ToLower(n))
		}
	}
	return names
}
