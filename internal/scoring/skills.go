package scoring

import (
	"strings"
	"unicode/utf8"
)

const (
	multiWordMinLength   = 10
	significantWordLen   = 3
	minMissingLength     = 3
	longKeywordThreshold = 6
)

// Variations returns the skill itself plus known abbreviations and the form
// without a parenthesised suffix.
func Variations(skill string) []string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	out := []string{lower}
	out = append(out, variations[lower]...)

	if idx := strings.Index(lower, "("); idx >= 0 {
		if clean := strings.TrimSpace(lower[:idx]); clean != lower && clean != "" {
			out = append(out, clean)
		}
	}

	return out
}

// MatchingSkills returns the profile skills that appear in the job text,
// directly, through a variation, or word by word for long multi-word skills.
func MatchingSkills(profileSkills []string, jobText string) []string {
	job := strings.ToLower(jobText)
	var out []string

	for _, skill := range profileSkills {
		lower := strings.ToLower(strings.TrimSpace(skill))
		if lower == "" {
			continue
		}

		if strings.Contains(job, lower) || containsVariation(job, lower) || allWordsPresent(job, lower) {
			out = append(out, skill)
		}
	}

	return out
}

func containsVariation(job, skill string) bool {
	for _, v := range Variations(skill) {
		if v != "" && strings.Contains(job, v) {
			return true
		}
	}
	return false
}

func allWordsPresent(job, skill string) bool {
	if utf8.RuneCountInString(skill) <= multiWordMinLength || !strings.Contains(skill, " ") {
		return false
	}

	var words []string
	for _, w := range strings.Fields(skill) {
		if utf8.RuneCountInString(w) > significantWordLen {
			words = append(words, w)
		}
	}
	if len(words) < 2 {
		return false
	}

	for _, w := range words {
		if !strings.Contains(job, w) {
			return false
		}
	}
	return true
}

// MissingSkills lists job requirements the profile does not cover: important
// phrases first, then technical-looking keywords, without duplicates.
func MissingSkills(profileSkills []string, jobText string, jobKeywords []string) []string {
	skills := lowerAll(profileSkills)
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
		if !covered(phrase, skills) {
			add(phrase)
		}
	}

	for _, kw := range jobKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if _, generic := missingStopWords[kw]; generic || utf8.RuneCountInString(kw) < minMissingLength {
			continue
		}
		if covered(kw, skills) {
			continue
		}
		if utf8.RuneCountInString(kw) > longKeywordThreshold || looksTechnical(kw) {
			add(kw)
		}
	}

	return out
}

func covered(term string, skills []string) bool {
	for _, s := range skills {
		if strings.Contains(term, s) || strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func looksTechnical(term string) bool {
	for _, marker := range techMarkers {
		if strings.Contains(term, marker) {
			return true
		}
	}
	return false
}
