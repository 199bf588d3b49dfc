package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spigell/profile-advisor/internal/utils"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	requirementKeywordCount = 30
	minRequirementLength    = 4

	exactWeight   = 1.0
	partialWeight = 0.5

	foundationBonus = 10.0
	llmBonus        = 5.0
	seniorPenalty   = 0.85
)

// MatchScoreResult is the skill-based job fit.
type MatchScoreResult struct {
	Score             float64    `json:"score"`
	Confidence        Confidence `json:"confidence"`
	ExactMatches      int        `json:"exact_matches"`
	PartialMatches    int        `json:"partial_matches"`
	TotalRequirements int        `json:"total_requirements"`
}

// Requirements derives the requirement set of a job description: important
// phrases followed by top keywords that are not generic and at least four
// characters long. Duplicates are removed.
func Requirements(jobText string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, phrase := range ImportantPhrases(jobText) {
		add(phrase)
	}
	for _, kw := range Keywords(jobText, requirementKeywordCount) {
		if _, generic := requirementStopWords[kw]; generic || utf8.RuneCountInString(kw) < minRequirementLength {
			continue
		}
		add(kw)
	}

	return out
}

// MatchScore rates how well profileSkills cover the requirements of jobText.
// Exact matches earn full credit, related skills half credit. Foundation and
// LLM bonuses apply before the seniority penalty; the result is capped at 100.
func MatchScore(profileSkills []string, jobText string) MatchScoreResult {
	skills := lowerAll(profileSkills)
	requirements := Requirements(jobText)

	exact, partial := 0, 0
	for _, req := range requirements {
		switch {
		case exactMatch(req, skills):
			exact++
		case partialMatch(req, skills):
			partial++
		}
	}

	total := len(requirements)
	if total == 0 {
		total = 1
	}

	score := (float64(exact)*exactWeight + float64(partial)*partialWeight) / (float64(total) * exactWeight) * 100

	jobLower := strings.ToLower(jobText)
	if hasFoundation(skills) {
		score += foundationBonus
	}
	if hasLLMExperience(skills) && strings.Contains(jobLower, "llm") {
		score += llmBonus
	}

	switch {
	case utils.ContainsAny(jobLower, entryLevelTerms...):
	case utils.ContainsAny(jobLower, seniorTerms...):
		score *= seniorPenalty
	}

	score = utils.Round(math.Min(score, 100), 2)
	ratio := float64(exact) / float64(total)

	return MatchScoreResult{
		Score:             score,
		Confidence:        confidenceFor(score, ratio),
		ExactMatches:      exact,
		PartialMatches:    partial,
		TotalRequirements: total,
	}
}

func confidenceFor(score, exactRatio float64) Confidence {
	switch {
	case score >= 70 && exactRatio >= 0.6:
		return ConfidenceHigh
	case score >= 50 && exactRatio >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func exactMatch(req string, skills []string) bool {
	for _, skill := range skills {
		if strings.Contains(skill, req) || strings.Contains(req, skill) || Equivalent(req, skill) {
			return true
		}
	}
	return false
}

func partialMatch(req string, skills []string) bool {
	for _, skill := range skills {
		for _, rel := range relationships {
			if !strings.Contains(skill, rel.base) {
				continue
			}
			for _, related := range rel.related {
				if related == req {
					return true
				}
			}
		}
	}
	return false
}

// Equivalent reports whether a and b are spellings of the same skill.
func Equivalent(a, b string) bool {
	for _, group := range equivalences {
		var hasA, hasB bool
		for _, term := range group {
			hasA = hasA || term == a
			hasB = hasB || term == b
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

func hasFoundation(skills []string) bool {
	for _, skill := range skills {
		for _, f := range foundationSkills {
			if skill == f {
				return true
			}
		}
	}
	return false
}

func hasLLMExperience(skills []string) bool {
	for _, skill := range skills {
		if strings.Contains(skill, "llm") || strings.Contains(skill, "language model") {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
