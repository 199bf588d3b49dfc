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
	"github.com/spigell/profile-advisor/internal/scoring"
)

const (
	maxRecommendations = 10
	defaultReviewQuery = "Analyze this profile"
)

type AnalysisResult struct {
	Error             string              `json:"error,omitempty"`
	Framing           string              `json:"framing,omitempty"`
	CompletenessScore float64             `json:"completeness_score"`
	Grade             scoring.Grade       `json:"grade,omitempty"`
	MissingSections   []string            `json:"missing_sections,omitempty"`
	WeakSections      []string            `json:"weak_sections,omitempty"`
	SkillsProof       profile.SkillsProof `json:"skills_proof"`
	DateIssues        []profile.DateIssue `json:"date_issues,omitempty"`
	DetailedAnalysis  string              `json:"detailed_analysis,omitempty"`
	Recommendations   []string            `json:"recommendations,omitempty"`
}

func (r *AnalysisResult) AnalysisType() string { return TypeProfileAnalysis }
func (r *AnalysisResult) Failure() string      { return r.Error }

// ProfileAnalyzer reviews the loaded profile.
type ProfileAnalyzer struct {
	base
}

func NewProfileAnalyzer(deps Deps) *ProfileAnalyzer {
	return &ProfileAnalyzer{base: newBase("profile_analyzer", deps)}
}

func (a *ProfileAnalyzer) Run(ctx context.Context, in Input) (Result, error) {
	return a.Analyze(ctx, in)
}

func (a *ProfileAnalyzer) Analyze(ctx context.Context, in Input) (*AnalysisResult, error) {
	p := in.Profile
	if p == nil {
		return &AnalysisResult{Error: MsgNoProfile}, nil
	}

	query := prompts.OrDefault(in.Query, defaultReviewQuery)
	now := a.now()
	completeness := scoring.Completeness(p)
	proof := p.Proof()
	issues := profile.ValidateExperienceDates(p.Experience, now)
	framing := profileReviewKeywords.Decide(query)

	a.logger.Info("analyzing profile",
		zap.Stringer("framing", framing),
		zap.Float64("completeness", completeness.Score),
		zap.Int("date_issues", len(issues)),
	)

	vars := prompts.Vars{
		"TODAY":             now.Format("January 02, 2006"),
		"DATE_ALERTS":       dateAlerts(issues),
		"COMPLETENESS":      formatFloat(completeness.Score),
		"GRADE":             string(completeness.Grade),
		"MISSING":           prompts.JoinOr(completeness.Missing, "None"),
		"WEAK":              prompts.JoinOr(completeness.Weak, "None"),
		"TOTAL_SKILLS":      strconv.Itoa(proof.Total),
		"LINKED_SKILLS":     strconv.Itoa(proof.Linked),
		"PROOF_RATE":        fmt.Sprintf("%.0f", proof.ProofRate*100),
		"ORPHAN_SKILLS":     strconv.Itoa(proof.Orphan),
		"ENDORSED_NOTE":     endorsedNote(proof),
		"PROFILE":           p.Format(),
		"PREVIOUS_ANALYSIS": prompts.OrDefault(in.PreviousAnalysis, "None, this is a fresh analysis"),
		"QUERY":             query,
	}

	name := prompts.ProfileQuestion
	if framing == Comprehensive {
		name = prompts.ProfileComprehensive
	}

	prompt, err := prompts.Render(name, vars)
	if err != nil {
		return nil, err
	}

	raw, err := a.invoke(ctx, in, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("profile analysis: %w", err)
	}

	return &AnalysisResult{
		Framing:           framing.String(),
		CompletenessScore: completeness.Score,
		Grade:             completeness.Grade,
		MissingSections:   completeness.Missing,
		WeakSections:      completeness.Weak,
		SkillsProof:       proof,
		DateIssues:        issues,
		DetailedAnalysis:  raw,
		Recommendations:   extract.ListItems(raw, maxRecommendations),
	}, nil
}

func dateAlerts(issues []profile.DateIssue) string {
	if len(issues) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nDATE VALIDATION ALERTS (real issues found):\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s: %s (start: %s", issue.Position, issue.Issue, issue.StartDate)
		if issue.EndDate != "" {
			fmt.Fprintf(&b, ", end: %s", issue.EndDate)
		}
		if issue.CurrentDate != "" {
			fmt.Fprintf(&b, ", today: %s", issue.CurrentDate)
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func endorsedNote(proof profile.SkillsProof) string {
	if proof.Endorsed == 0 {
		return ""
	}
	return fmt.Sprintf("- Skills with endorsements: %d (helpful, not critical)", proof.Endorsed)
}
