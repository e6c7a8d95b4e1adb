// Package parser turns extracted resume text into structured profiles.
package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/pkg/utils"
)

// Parser produces a profile from raw resume text.
type Parser interface {
	Parse(ctx context.Context, text string) (*models.Profile, error)
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Course codes like "CS201", "ITSC 3155", "MATH 1241".
	courseRe = regexp.MustCompile(`\b[A-Z]{2,4}\s?\d{3,4}\b`)

	skillsSectionRe = regexp.MustCompile(
		`(?is)(?:technical skills?|skills?|technologies)[:\s]+(.*?)(?:\.|experience|education|projects?|courses?|$)`)
	educationSectionRe = regexp.MustCompile(
		`(?is)(?:education|academic background)[:\s]+(.*?)(?:\.|experience|projects?|skills?|$)`)
	experienceSectionRe = regexp.MustCompile(
		`(?is)(?:work experience|experience|employment)[:\s]+(.*?)(?:\.|education|projects?|skills?|$)`)

	yearRe = regexp.MustCompile(`(?i)\b(freshman|sophomore|junior|senior|graduate|masters|phd)\b`)

	skillSplitRe = regexp.MustCompile(`[,;•|]`)
)

// RegexParser extracts profile fields from resume text with pattern matching.
// It is the fallback for when no structured intake is available; it finds the
// email, a skills list, course codes, the academic year, and the education
// narrative. Anything it cannot find is simply left empty.
type RegexParser struct{}

// NewRegexParser returns a pattern-matching resume parser.
func NewRegexParser() *RegexParser {
	return &RegexParser{}
}

// Parse extracts a profile from resume text. Fails with a ValidationError
// when no email address can be found, since a profile requires one.
func (p *RegexParser) Parse(ctx context.Context, text string) (*models.Profile, error) {
	flat := utils.NormalizeWhitespace(text)

	email := emailRe.FindString(flat)
	if email == "" {
		return nil, models.NewValidationError("no email address found in resume")
	}

	profile := &models.Profile{
		Email:    email,
		FullName: guessName(text),
	}

	if m := yearRe.FindString(flat); m != "" {
		year := strings.ToLower(m)
		profile.Year = strings.ToUpper(year[:1]) + year[1:]
	}

	if m := skillsSectionRe.FindStringSubmatch(flat); len(m) > 1 {
		profile.TechnicalSkills = parseSkills(m[1])
	}

	seen := make(map[string]struct{})
	for _, code := range courseRe.FindAllString(flat, -1) {
		key := strings.ToLower(utils.NormalizeWhitespace(code))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		profile.Courses = append(profile.Courses, utils.NormalizeWhitespace(code))
	}

	if m := educationSectionRe.FindStringSubmatch(flat); len(m) > 1 {
		profile.AcademicBackground = utils.Truncate(strings.TrimSpace(m[1]), 300)
	}
	if m := experienceSectionRe.FindStringSubmatch(flat); len(m) > 1 {
		if desc := strings.TrimSpace(m[1]); desc != "" {
			profile.Experience = []models.Experience{{
				Description: utils.Truncate(desc, 300),
			}}
		}
	}

	return profile, nil
}

// parseSkills splits a skills section into individual skills with the
// default proficiency.
func parseSkills(section string) []models.Skill {
	var skills []models.Skill
	seen := make(map[string]struct{})
	for _, raw := range skillSplitRe.Split(section, -1) {
		name := utils.NormalizeWhitespace(raw)
		if name == "" || len(name) > 40 {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, models.Skill{
			Name:        name,
			Proficiency: models.ProficiencyIntermediate,
		})
	}
	return skills
}

// guessName takes the first short line without digits or an email as the
// candidate's name. Resumes almost always lead with the name.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = utils.NormalizeWhitespace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "0123456789@") {
			return ""
		}
		if words := strings.Fields(line); len(words) > 5 {
			return ""
		}
		return line
	}
	return ""
}
