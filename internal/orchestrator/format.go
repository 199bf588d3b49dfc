package orchestrator

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/profile-advisor/internal/agents"
)

var title = cases.Title(language.English)

// Render formats an agent result as terminal markdown.
func Render(result agents.Result) string {
	if result == nil {
		return ""
	}
	if failure := result.Failure(); failure != "" {
		return "**Error:** " + failure
	}

	var b strings.Builder
	switch r := result.(type) {
	case *agents.AnalysisResult:
		renderAnalysis(&b, r)
	case *agents.MatchResult:
		renderMatch(&b, r)
	case *agents.ContentResult:
		if r.Plan != nil {
			renderPlan(&b, r.Plan)
		} else {
			renderContent(&b, r, "##")
		}
	case *agents.CounselingResult:
		renderCounseling(&b, r)
	default:
		fmt.Fprintf(&b, "%v", result)
	}

	return strings.TrimSpace(b.String())
}

func renderAnalysis(b *strings.Builder, r *agents.AnalysisResult) {
	b.WriteString("## Profile Analysis\n\n")
	fmt.Fprintf(b, "**Completeness:** %g%% (grade %s)\n", r.CompletenessScore, r.Grade)
	writeList(b, "**Missing sections:** ", r.MissingSections)
	writeList(b, "**Weak sections:** ", r.WeakSections)
	fmt.Fprintf(b, "**Skills backed by experience:** %d of %d (%.0f%%)\n",
		r.SkillsProof.Linked, r.SkillsProof.Total, r.SkillsProof.ProofRate*100)

	if len(r.DateIssues) > 0 {
		b.WriteString("\n### Date issues\n")
		for _, issue := range r.DateIssues {
			fmt.Fprintf(b, "- %s: %s\n", issue.Position, issue.Issue)
		}
	}

	b.WriteString("\n" + r.DetailedAnalysis + "\n")
}

func renderMatch(b *strings.Builder, r *agents.MatchResult) {
	fmt.Fprintf(b, "## Job Match: %s\n\n", r.JobTitle)
	fmt.Fprintf(b, "**Match score:** %g/100 (%s confidence)\n", r.MatchScore, r.Confidence)
	fmt.Fprintf(b, "**Requirements:** %d exact, %d partial of %d\n", r.ExactMatches, r.PartialMatches, r.TotalRequirements)
	fmt.Fprintf(b, "**Job source:** %s\n", r.JobSource)
	if r.JobURL != "" {
		fmt.Fprintf(b, "**Job link:** %s\n", r.JobURL)
	}
	writeList(b, "**Matching skills:** ", r.MatchingSkills)
	writeList(b, "**Missing skills:** ", r.MissingSkills)

	if len(r.RelevantExperience) > 0 {
		b.WriteString("\n### Relevant experience\n")
		for _, pos := range r.RelevantExperience {
			fmt.Fprintf(b, "- %s: %s\n", pos.Position, strings.Join(pos.Matches, ", "))
		}
	}

	b.WriteString("\n" + r.DetailedAnalysis + "\n")
}

func renderContent(b *strings.Builder, r *agents.ContentResult, heading string) {
	fmt.Fprintf(b, "%s %s\n\n", heading, title.String(r.Section))
	if r.OriginalContent != "" {
		fmt.Fprintf(b, "**Current:**\n%s\n\n", r.OriginalContent)
	}
	fmt.Fprintf(b, "**Suggested:**\n%s\n", r.GeneratedContent)

	writeItems(b, "Key improvements", r.Improvements)
	if len(r.KeywordsAdded) > 0 {
		fmt.Fprintf(b, "\n**Keywords added:** %s\n", strings.Join(r.KeywordsAdded, ", "))
	}
	writeItems(b, "Credibility elements", r.CredibilityElements)
	writeItems(b, "Tips", r.Tips)
}

func renderPlan(b *strings.Builder, plan *agents.ContentPlan) {
	fmt.Fprintf(b, "## Content Plan: %s\n\n", plan.TargetRole)
	b.WriteString(plan.OverallStrategy + "\n")

	b.WriteString("\n### Priorities\n")
	for _, level := range agents.Priorities {
		for _, sp := range plan.Priorities {
			if sp.Priority == level {
				fmt.Fprintf(b, "- [%s] %s: %s (impact: %s)\n", level, title.String(sp.Section), sp.Reason, sp.Impact)
			}
		}
	}

	if len(plan.QuickWins) > 0 {
		b.WriteString("\n### Quick wins\n")
		for _, w := range plan.QuickWins {
			fmt.Fprintf(b, "- %s: %s (now %s, %s, %s impact)\n", w.Section, w.Action, w.Current, w.Time, w.Impact)
		}
	}

	for _, section := range plan.Sections {
		b.WriteString("\n")
		renderContent(b, section, "###")
	}

	writeItems(b, "Advanced tips", plan.AdvancedTips)
}

func renderCounseling(b *strings.Builder, r *agents.CounselingResult) {
	b.WriteString("## Career Guidance\n\n")
	b.WriteString(r.Guidance + "\n")

	evo := r.SkillEvolution
	if len(evo.Recent)+len(evo.Consistent) == 0 {
		return
	}
	b.WriteString("\n### Skill evolution\n")
	writeList(b, "- Recent: ", evo.Recent)
	writeList(b, "- Used across roles: ", evo.Consistent)
	fmt.Fprintf(b, "- New skills per year: %g\n", evo.AcquisitionRate)
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	b.WriteString(label + strings.Join(values, ", ") + "\n")
}

func writeItems(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", heading)
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}
