// Package indexer keeps the profile store, keyword index, and vector index in sync.
package indexer

import (
	"strings"

	"github.com/ninerlabs/peermatch/internal/models"
)

// BuildDocument projects a profile into its searchable text form.
// The projection is rebuilt from scratch on every profile change.
func BuildDocument(p *models.Profile) *models.IndexedDocument {
	var parts []string
	add := func(values ...string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
	}

	add(p.FullName, p.Major, p.Program, p.Year)
	for _, s := range p.TechnicalSkills {
		add(strings.TrimSpace(s.Name + " " + s.Proficiency))
	}
	add(p.SoftSkills...)
	for _, l := range p.Languages {
		add(l.Name)
	}
	add(p.Courses...)
	add(p.AcademicInterests...)
	add(p.PersonalInterests...)
	add(p.Certifications...)
	add(p.Conferences...)
	add(p.Organizations...)
	for _, e := range p.Experience {
		add(strings.TrimSpace(e.Title+" "+e.Company), e.Description)
	}
	add(p.AcademicBackground)

	return &models.IndexedDocument{
		ProfileID: p.ID,
		Name:      p.FullName,
		Content:   strings.Join(parts, "\n"),
	}
}
