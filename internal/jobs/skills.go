package jobs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var commonSkills = []string{
	"python", "java", "javascript", "sql", "react", "angular", "vue",
	"docker", "kubernetes", "aws", "azure", "gcp", "git", "agile",
	"scrum", "tableau", "power bi", "excel", "machine learning",
	"deep learning", "tensorflow", "pytorch", "spark", "hadoop",
	"rest api", "graphql", "mongodb", "postgresql", "redis",
	"jenkins", "ci/cd", "terraform", "ansible", "linux",
}

// ExtractSkills returns the common skills mentioned in text, title-cased, in
// table order. Matching is plain substring containment.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	title := cases.Title(language.English)

	found := []string{}
	for _, skill := range commonSkills {
		if strings.Contains(lower, skill) {
			found = append(found, title.String(skill))
		}
	}
	return found
}
