package headhunter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	VacancyIDField         = "ID"
	VacancyEmployerIDField = "EmployerID"
)

type Vacancies struct {
	Items []*Vacancy
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type KeySkill struct {
	Name string `json:"name,omitempty"`
}

type Experience struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Vacancy struct {
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Area         Area       `json:"area,omitempty"`
	Experience   Experience `json:"experience,omitempty"`
	Employer     Employer   `json:"employer,omitempty"`
	AlternateURL string     `json:"alternate_url,omitempty"`
	Description  string     `json:"description,omitempty"`
	KeySkills    []KeySkill `json:"key_skills,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
	Snippet      Snippet    `json:"snippet,omitempty"`
	PublishedAt  string     `json:"published_at,omitempty"`
}

var (
	highlightRe = regexp.MustCompile(`</?highlighttext>`)
	spacesRe    = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// PlainDescription converts the HTML description into plain text with one
// block per line. List items are prefixed with "- ".
func (va *Vacancy) PlainDescription() string {
	if strings.TrimSpace(va.Description) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(va.Description))
	if err != nil {
		return cleanLines(va.Description)
	}
	doc.Find("script, style").Remove()

	var blocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		blocks = append(blocks, text)
	})
	if len(blocks) == 0 {
		return cleanLines(doc.Text())
	}

	return cleanLines(strings.Join(blocks, "\n"))
}

// Snippets joins the short requirement and responsibility texts shown in search results.
func (va *Vacancy) Snippets() string {
	var parts []string
	for _, s := range []string{va.Snippet.Responsibility, va.Snippet.Requirement} {
		if s = cleanLines(highlightRe.ReplaceAllString(s, "")); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Skills returns the names of the vacancy's key skills.
func (va *Vacancy) Skills() []string {
	out := make([]string, 0, len(va.KeySkills))
	for _, s := range va.KeySkills {
		if name := strings.TrimSpace(s.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func cleanLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func (va *Vacancy) GetStringField(name string) string {
	switch name {
	case VacancyIDField:
		return va.ID
	case VacancyEmployerIDField:
		return va.Employer.ID

	default:
		return ""
	}
}

func (v *Vacancies) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

// ExcludeFunc removes every vacancy matching drop, keeping the order of the
// rest. It returns the IDs of removed vacancies.
func (v *Vacancies) ExcludeFunc(drop func(*Vacancy) bool) []string {
	var excluded []string
	kept := v.Items[:0]
	for _, vacancy := range v.Items {
		if drop(vacancy) {
			excluded = append(excluded, vacancy.ID)
			continue
		}
		kept = append(kept, vacancy)
	}
	for i := len(kept); i < len(v.Items); i++ {
		v.Items[i] = nil
	}
	v.Items = kept
	return excluded
}

// Exclude removes vacancies whose named field equals one of targets.
func (v *Vacancies) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}
	return v.ExcludeFunc(func(vacancy *Vacancy) bool {
		_, ok := set[vacancy.GetStringField(name)]
		return ok
	})
}
