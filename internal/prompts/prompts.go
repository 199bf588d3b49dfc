// Package prompts renders the embedded prompt templates used by the router
// and the agents. Templates use {{PLACEHOLDER}} markers.
package prompts

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed templates/*.md
var templates embed.FS

// Name identifies an embedded template.
type Name string

const (
	Router                   Name = "router"
	System                   Name = "system"
	ProfileComprehensive     Name = "profile_comprehensive"
	ProfileQuestion          Name = "profile_question"
	JobMatch                 Name = "job_match"
	ContentSection           Name = "content_section"
	CounselingComprehensive  Name = "counseling_comprehensive"
	CounselingConversational Name = "counseling_conversational"
)

// Requirements returns the template holding the writing rules for a profile section.
func Requirements(section string) Name {
	return Name("requirements_" + section)
}

// Vars maps placeholder names (without braces) to their values.
type Vars map[string]string

var (
	// ErrUnknownTemplate is returned for a name with no embedded template.
	ErrUnknownTemplate = errors.New("unknown prompt template")
	// ErrMissingVar is returned when a template placeholder has no value.
	ErrMissingVar = errors.New("missing prompt variable")

	placeholderRe = regexp.MustCompile(`\{\{([A-Z][A-Z0-9_]*)\}\}`)
)

// Raw returns the unrendered template text.
func Raw(name Name) (string, error) {
	data, err := templates.ReadFile("templates/" + string(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return string(data), nil
}

// Render fills every placeholder of the named template. Every placeholder
// must have a value; extra vars are ignored.
func Render(name Name, vars Vars) (string, error) {
	raw, err := Raw(name)
	if err != nil {
		return "", err
	}

	var missing []string
	pairs := make([]string, 0, 2*len(vars))
	for _, key := range Placeholders(raw) {
		value, ok := vars[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w in %s: %s", ErrMissingVar, name, strings.Join(missing, ", "))
	}

	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(raw)), nil
}

// Placeholders lists the distinct placeholder names in text, sorted.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, match := range placeholderRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[match[1]]; ok {
			continue
		}
		seen[match[1]] = struct{}{}
		out = append(out, match[1])
	}
	sort.Strings(out)
	return out
}

// OrDefault returns fallback when value is blank.
func OrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// JoinOr joins values with ", " or returns fallback for an empty list.
func JoinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
