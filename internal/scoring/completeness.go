// Package scoring computes deterministic signals from a profile and a job
// description before anything is sent to a model.
package scoring

import (
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/utils"
)

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

const (
	minTextLength = 50
	minListLength = 2
	weakTextShare = 0.3
	weakListShare = 0.5
)

type section struct {
	name   string
	weight float64
	text   func(*profile.Profile) string
	items  func(*profile.Profile) int
}

// sections are scored in this order; the weights sum to 100.
var sections = []section{
	{name: "about", weight: 15, text: func(p *profile.Profile) string { return p.About }},
	{name: "headline", weight: 10, text: func(p *profile.Profile) string { return p.Headline }},
	{name: "experience", weight: 30, items: func(p *profile.Profile) int { return len(p.Experience) }},
	{name: "education", weight: 15, items: func(p *profile.Profile) int { return len(p.Education) }},
	{name: "skills", weight: 20, items: func(p *profile.Profile) int { return len(p.Skills) }},
	{name: "certifications", weight: 10, items: func(p *profile.Profile) int { return len(p.Certifications) }},
}

// CompletenessResult is the weighted presence score of the profile sections.
type CompletenessResult struct {
	Score   float64  `json:"score"`
	Grade   Grade    `json:"grade"`
	Missing []string `json:"missing_sections"`
	Weak    []string `json:"weak_sections"`
}

// Completeness scores how complete the profile is on a 0-100 scale.
func Completeness(p *profile.Profile) CompletenessResult {
	if p == nil {
		p = &profile.Profile{}
	}

	var result CompletenessResult
	score := 0.0

	for _, s := range sections {
		switch {
		case s.text != nil:
			n := len([]rune(s.text(p)))
			switch {
			case n == 0:
				result.Missing = append(result.Missing, s.name)
			case n < minTextLength:
				result.Weak = append(result.Weak, s.name)
				score += s.weight * weakTextShare
			default:
				score += s.weight
			}
		default:
			n := s.items(p)
			switch {
			case n == 0:
				result.Missing = append(result.Missing, s.name)
			case n < minListLength:
				result.Weak = append(result.Weak, s.name)
				score += s.weight * weakListShare
			default:
				score += s.weight
			}
		}
	}

	result.Score = utils.Round(score, 2)
	result.Grade = GradeFor(result.Score)

	return result
}

// GradeFor maps a score to a letter grade. Boundaries are inclusive.
func GradeFor(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}
