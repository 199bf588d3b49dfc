package scoring

import (
	"regexp"
	"sort"
	"strings"
)

// tokenRe matches runs of two or more Unicode letters, digits or underscores.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

const DefaultKeywordCount = 20

// Keywords returns up to n of the most frequent non-stop-word tokens of text,
// most frequent first with ties broken alphabetically.
func Keywords(text string, n int) []string {
	if n <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	counts := make(map[string]int)
	for _, token := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[token]; stop {
			continue
		}
		counts[token]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}

	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > n {
		terms = terms[:n]
	}

	return terms
}

// ImportantPhrases returns the distinct technical phrases found in text, in
// table order then order of appearance.
func ImportantPhrases(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var out []string

	for _, re := range importantPhrases {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			phrase := m[1]
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			out = append(out, phrase)
		}
	}

	return out
}
