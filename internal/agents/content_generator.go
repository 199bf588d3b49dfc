package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/extract"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/prompts"
)

// Profile sections the generator can rewrite, in plan order.
const (
	SectionHeadline   = "headline"
	SectionAbout      = "about"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionEducation  = "education"
)

var planSections = []string{SectionHeadline, SectionAbout, SectionExperience, SectionSkills, SectionEducation}

const (
	contextPositions = 3
	maxProvenSkills  = 10
	defaultTarget    = "General professional development"
)

var contentSpecs = []extract.MarkerSpec{
	{Field: "content", Open: []string{"**rewritten"}, Close: []string{"key improvements"}, Inline: true, Style: extract.Block},
	{Field: "improvements", Open: []string{"key improvements"}, Close: []string{"keywords added"}, Style: extract.Text, Max: 5},
	{Field: "keywords", Open: []string{"keywords added"}, Close: []string{"credibility elements", "additional tips"}, Inline: true, Style: extract.Comma, Max: 15},
	{Field: "credibility", Open: []string{"credibility elements"}, Close: []string{"additional tips"}, Style: extract.Labeled, Max: 5},
	{Field: "tips", Open: []string{"additional tips"}, Close: []string{"every claim must"}, Style: extract.Text, Max: 5},
}

type ContentResult struct {
	Error               string       `json:"error,omitempty"`
	Section             string       `json:"section,omitempty"`
	OriginalContent     string       `json:"original_content,omitempty"`
	GeneratedContent    string       `json:"generated_content,omitempty"`
	Improvements        []string     `json:"improvements,omitempty"`
	KeywordsAdded       []string     `json:"keywords_added,omitempty"`
	CredibilityElements []string     `json:"credibility_elements,omitempty"`
	Tips                []string     `json:"tips,omitempty"`
	RawResponse         string       `json:"raw_response,omitempty"`
	Plan                *ContentPlan `json:"plan,omitempty"`
}

func (r *ContentResult) AnalysisType() string { return TypeContentGeneration }
func (r *ContentResult) Failure() string      { return r.Error }

// ContentGenerator rewrites profile sections, one at a time or all together as a plan.
type ContentGenerator struct {
	base
}

func NewContentGenerator(deps Deps) *ContentGenerator {
	return &ContentGenerator{base: newBase("content_generator", deps)}
}

func (g *ContentGenerator) Run(ctx context.Context, in Input) (Result, error) {
	if in.Profile == nil {
		return &ContentResult{Error: MsgNoProfile}, nil
	}

	if allSectionsKeywords.Decide(in.Query) == Comprehensive {
		plan, err := g.Plan(ctx, in)
		if err != nil {
			return nil, err
		}
		return &ContentResult{Plan: plan}, nil
	}

	return g.Generate(ctx, in, SectionFromQuery(in.Query))
}

// SectionFromQuery picks the section a query talks about, defaulting to about.
func SectionFromQuery(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "about") || strings.Contains(q, "summary"):
		return SectionAbout
	case strings.Contains(q, "headline"):
		return SectionHeadline
	case strings.Contains(q, "experience"):
		return SectionExperience
	case strings.Contains(q, "education"):
		return SectionEducation
	case strings.Contains(q, "skills"):
		return SectionSkills
	default:
		return SectionAbout
	}
}

// Generate rewrites a single section.
func (g *ContentGenerator) Generate(ctx context.Context, in Input, section string) (*ContentResult, error) {
	p := in.Profile
	if p == nil {
		return &ContentResult{Error: MsgNoProfile}, nil
	}

	work := newWorkContext(p)
	current := currentContent(p, section)

	g.logger.Info("generating content", zap.String("section", section))

	requirements, err := prompts.Render(prompts.Requirements(section), work.requirementVars())
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.Render(prompts.ContentSection, prompts.Vars{
		"SECTION":         section,
		"SECTION_UPPER":   strings.ToUpper(section),
		"TARGET_ROLE":     prompts.OrDefault(in.TargetRole, defaultTarget),
		"CURRENT_CONTENT": prompts.OrDefault(current, "No existing content"),
		"WORK_CONTEXT":    work.String(),
		"JOB_DESCRIPTION": prompts.OrDefault(in.JobDescription, "Not provided"),
		"PROFILE":         p.Format(),
		"REQUIREMENTS":    requirements,
	})
	if err != nil {
		return nil, err
	}

	raw, err := g.invoke(ctx, in, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", section, err)
	}

	parsed := extract.Extract(raw, contentSpecs)

	return &ContentResult{
		Section:             section,
		OriginalContent:     current,
		GeneratedContent:    extract.Content(raw, parsed.Text("content")),
		Improvements:        parsed.Items("improvements"),
		KeywordsAdded:       parsed.Items("keywords"),
		CredibilityElements: parsed.Items("credibility"),
		Tips:                parsed.Items("tips"),
		RawResponse:         raw,
	}, nil
}

// currentContent is the text shown to the model as the section to rewrite.
func currentContent(p *profile.Profile, section string) string {
	switch section {
	case SectionExperience:
		pos, ok := p.Current()
		if !ok {
			return "No experience entries"
		}
		return fmt.Sprintf("%s at %s\n%s", pos.Title, pos.Company, prompts.OrDefault(pos.Description, "No description"))
	case SectionSkills:
		if len(p.Skills) == 0 {
			return "No skills listed"
		}
		return strings.Join(head(p.Skills, maxProvenSkills), ", ")
	case SectionEducation:
		if len(p.Education) == 0 {
			return "No education entries"
		}
		edu := p.Education[0]
		return fmt.Sprintf("%s in %s from %s", edu.Degree, edu.FieldOfStudy, edu.School)
	default:
		return p.Section(section)
	}
}

type provenSkill struct {
	skill   string
	company string
	role    string
}

// workContext is the work history summary shared by every section prompt.
type workContext struct {
	companies      []string
	currentTitle   string
	currentCompany string
	proven         []provenSkill
	years          int
}

func newWorkContext(p *profile.Profile) workContext {
	w := workContext{companies: p.Companies(contextPositions)}

	if pos, ok := p.Current(); ok {
		w.currentTitle = pos.Title
		w.currentCompany = pos.Company
	}

	for _, pos := range head(p.Experience, contextPositions) {
		for _, skill := range pos.Skills {
			if len(w.proven) == maxProvenSkills {
				break
			}
			w.proven = append(w.proven, provenSkill{skill: skill, company: pos.Company, role: pos.Title})
		}
	}

	w.years = profile.TotalExperienceMonths(p.Experience) / 12
	if w.years == 0 {
		w.years = len(p.Experience)
	}

	return w
}

func (w workContext) skillNames(n int) []string {
	var out []string
	for _, s := range head(w.proven, n) {
		out = append(out, s.skill)
	}
	return out
}

func (w workContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Position: %s at %s\n", prompts.OrDefault(w.currentTitle, "N/A"), prompts.OrDefault(w.currentCompany, "N/A"))
	fmt.Fprintf(&b, "Key Companies: %s\n", prompts.JoinOr(w.companies, "N/A"))
	fmt.Fprintf(&b, "Years of Experience: ~%d\n\n", w.years)
	b.WriteString("Proven Skills (with context):")
	if len(w.proven) == 0 {
		b.WriteString(" none linked to positions yet")
	}
	for _, s := range w.proven {
		fmt.Fprintf(&b, "\n• %s: used at %s as %s", s.skill, s.company, s.role)
	}
	return b.String()
}

func (w workContext) requirementVars() prompts.Vars {
	var list []string
	for _, s := range w.proven {
		list = append(list, fmt.Sprintf("- %s (%s)", s.skill, prompts.OrDefault(s.company, "N/A")))
	}

	topCompany := "your most recent company"
	if len(w.companies) > 0 {
		topCompany = w.companies[0]
	}

	return prompts.Vars{
		"CURRENT_TITLE":      prompts.OrDefault(w.currentTitle, "your current role"),
		"CURRENT_COMPANY":    prompts.OrDefault(w.currentCompany, "your company"),
		"TOP_COMPANY":        topCompany,
		"COMPANIES":          prompts.JoinOr(w.companies, "your past employers"),
		"PROVEN_SKILLS":      prompts.JoinOr(w.skillNames(5), "none yet, link skills to positions first"),
		"PROVEN_SKILLS_LIST": prompts.OrDefault(strings.Join(list, "\n"), "- no skills linked to positions yet"),
		"PROVEN_COUNT":       strconv.Itoa(len(w.proven)),
	}
}
