package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/prompts"
	"github.com/spigell/profile-advisor/internal/utils"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

const (
	minHeadlineLength      = 50
	quickWinHeadlineLength = 80
	shortAbout             = 200
	mediumAbout            = 500
	minSkillCount          = 10
	minProofShare          = 0.5
	shortDescription       = 100
	quickWinPositions      = 2
	maxOrphanSkills        = 3
)

var (
	roleWords        = []string{"engineer", "developer", "analyst", "manager"}
	achievementVerbs = []string{"helped", "delivered"}
)

type SectionPriority struct {
	Section  string   `json:"section"`
	Priority Priority `json:"priority"`
	Reason   string   `json:"reason"`
	Impact   string   `json:"impact"`
}

type QuickWin struct {
	Section string `json:"section"`
	Action  string `json:"action"`
	Current string `json:"current"`
	Time    string `json:"time"`
	Impact  string `json:"impact"`
}

// ContentPlan is the all-sections optimisation plan.
type ContentPlan struct {
	TargetRole      string            `json:"target_role"`
	OverallStrategy string            `json:"overall_strategy"`
	Priorities      []SectionPriority `json:"priorities"`
	QuickWins       []QuickWin        `json:"quick_wins"`
	Sections        []*ContentResult  `json:"sections"`
	AdvancedTips    []string          `json:"advanced_tips"`
}

// PriorityOf returns the priority of section, if the plan has one.
func (p *ContentPlan) PriorityOf(section string) (SectionPriority, bool) {
	for _, sp := range p.Priorities {
		if sp.Section == section {
			return sp, true
		}
	}
	return SectionPriority{}, false
}

// Plan rewrites every section and adds the deterministic parts of the plan.
func (g *ContentGenerator) Plan(ctx context.Context, in Input) (*ContentPlan, error) {
	p := in.Profile
	if p == nil {
		return nil, fmt.Errorf("plan needs a profile")
	}

	plan := &ContentPlan{
		TargetRole:      prompts.OrDefault(in.TargetRole, defaultTarget),
		OverallStrategy: Strategy(p, in.TargetRole),
		Priorities:      SectionPriorities(p),
		QuickWins:       QuickWins(p),
		AdvancedTips:    AdvancedTips(in.TargetRole),
	}

	g.logger.Info("generating content plan", zap.Int("sections", len(planSections)))

	for _, section := range planSections {
		result, err := g.Generate(ctx, in, section)
		if err != nil {
			return nil, err
		}
		plan.Sections = append(plan.Sections, result)
	}

	return plan, nil
}

// SectionPriorities classifies every plan section by how urgently it needs work.
func SectionPriorities(p *profile.Profile) []SectionPriority {
	out := make([]SectionPriority, 0, len(planSections))

	headline := SectionPriority{Section: SectionHeadline, Priority: PriorityMedium,
		Reason: "Could be more compelling", Impact: "Very high, the first thing recruiters see"}
	if len([]rune(p.Headline)) < minHeadlineLength || !utils.ContainsAny(strings.ToLower(p.Headline), roleWords...) {
		headline.Priority, headline.Reason = PriorityHigh, "Short or lacks role clarity"
	}
	out = append(out, headline)

	about := SectionPriority{Section: SectionAbout, Impact: "Very high, your value proposition"}
	switch n := len([]rune(p.About)); {
	case n < shortAbout:
		about.Priority, about.Reason = PriorityHigh, "Too brief"
	case n < mediumAbout:
		about.Priority, about.Reason = PriorityMedium, "Could add more impact"
	default:
		about.Priority, about.Reason = PriorityLow, "Good length, focus on quality"
	}
	out = append(out, about)

	missing := 0
	for _, pos := range p.Experience {
		if strings.TrimSpace(pos.Description) == "" {
			missing++
		}
	}
	experience := SectionPriority{Section: SectionExperience, Priority: PriorityMedium,
		Reason: "Add more metrics and achievements", Impact: "Critical, shows actual accomplishments"}
	if missing > 0 {
		experience.Priority, experience.Reason = PriorityHigh, fmt.Sprintf("%d positions lack descriptions", missing)
	}
	out = append(out, experience)

	proof := p.Proof()
	skills := SectionPriority{Section: SectionSkills, Priority: PriorityLow,
		Reason: "Optimize skill presentation", Impact: "High, ATS optimization and credibility"}
	if len(p.Skills) < minSkillCount || float64(proof.Linked) < float64(len(p.Skills))*minProofShare {
		skills.Priority, skills.Reason = PriorityMedium, "Need more skills or better proof"
	}
	out = append(out, skills)

	education := SectionPriority{Section: SectionEducation, Priority: PriorityLow,
		Reason: "Add relevant coursework or achievements", Impact: "Medium, supports qualifications"}
	if len(p.Education) == 0 {
		education.Priority, education.Reason = PriorityHigh, "Missing education info"
	}
	out = append(out, education)

	return out
}

// QuickWins lists cheap, high-impact fixes.
func QuickWins(p *profile.Profile) []QuickWin {
	var wins []QuickWin

	if n := len([]rune(p.Headline)); n < quickWinHeadlineLength {
		wins = append(wins, QuickWin{
			Section: "Headline",
			Action:  "Add your top skill or achievement to reach 80+ characters",
			Current: fmt.Sprintf("%d chars", n),
			Time:    "2 minutes",
			Impact:  "High",
		})
	}

	if !utils.ContainsAny(strings.ToLower(p.About), achievementVerbs...) {
		wins = append(wins, QuickWin{
			Section: "About",
			Action:  "Add one or two achievements with metrics, e.g. 'Delivered X resulting in Y% improvement'",
			Current: fmt.Sprintf("%d chars", len([]rune(p.About))),
			Time:    "10 minutes",
			Impact:  "Very High",
		})
	}

	for _, pos := range head(p.Experience, quickWinPositions) {
		n := len([]rune(strings.TrimSpace(pos.Description)))
		if n >= shortDescription {
			continue
		}
		action := fmt.Sprintf("Add 3-4 problem-action-result bullets for your role at %s",
			prompts.OrDefault(pos.Company, "the company"))
		wins = append(wins, QuickWin{
			Section: fmt.Sprintf("Experience (%s)", prompts.OrDefault(pos.Title, "Position")),
			Action:  action,
			Current: fmt.Sprintf("%d chars", n),
			Time:    "15 minutes",
			Impact:  "Critical",
		})
	}

	if orphan := p.Proof().Orphan; orphan > maxOrphanSkills {
		wins = append(wins, QuickWin{
			Section: "Skills & Experience",
			Action:  fmt.Sprintf("Mention %d unproven skills in your experience descriptions", orphan),
			Current: fmt.Sprintf("%d unproven skills", orphan),
			Time:    "20 minutes",
			Impact:  "High",
		})
	}

	return wins
}

// Strategy is the fixed overall narrative filled with the profile's facts.
func Strategy(p *profile.Profile, targetRole string) string {
	w := newWorkContext(p)

	var b strings.Builder
	b.WriteString("**Profile Optimization Strategy:**\n\n")
	b.WriteString("**Brand Positioning:**\n")
	fmt.Fprintf(&b, "Current Position: %s at %s\n", prompts.OrDefault(w.currentTitle, "N/A"), prompts.OrDefault(w.currentCompany, "N/A"))
	fmt.Fprintf(&b, "Target Role: %s\n\n", prompts.OrDefault(targetRole, "Career advancement in current field"))
	b.WriteString("**Key Themes:**\n")
	fmt.Fprintf(&b, "1. Company brands: highlight your experience at %s\n", prompts.JoinOr(head(w.companies, 2), "your employers"))
	b.WriteString("2. Technical depth: focus on skills you have used in real positions\n")
	fmt.Fprintf(&b, "3. Impact: quantify results from your ~%d years of experience\n\n", w.years)
	b.WriteString("**Approach:**\n")
	b.WriteString("1. Start with the quick wins in headline and about\n")
	b.WriteString("2. Rework experience descriptions\n")
	b.WriteString("3. Back listed skills with proof points\n")
	b.WriteString("4. Polish education with relevant achievements")

	return b.String()
}

var advancedTips = []string{
	"**SEO:** Put target role keywords in the first three lines of the about section",
	"**Story arc:** Structure the about section as hook, journey, expertise, impact, call to action",
	"**Proof points:** For every skill claim say where it was used and what it achieved",
	"**Engagement:** End the about section with a conversation starter",
	"**Readability:** Break long sections into short paragraphs and bullets",
	"**Social proof:** Mention awards, publications or talks early",
	"**Custom URL:** Use a personalised profile URL",
}

// AdvancedTips returns the static tips, led by a role alignment tip when a target role is set.
func AdvancedTips(targetRole string) []string {
	tips := make([]string, 0, len(advancedTips)+1)
	if role := strings.TrimSpace(targetRole); role != "" {
		tips = append(tips, fmt.Sprintf("**Role alignment:** Mirror %s job posting keywords in your headline and first paragraph", role))
	}
	return append(tips, advancedTips...)
}
