package agents

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/extract"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/prompts"
	"github.com/spigell/profile-advisor/internal/utils"
)

const (
	recentYears          = 2
	maxEvolutionSkills   = 8
	historyTurns         = 6
	timelineWindow       = 5
	timelineNotSpecified = "Timeline not specified"
)

var yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

// guidanceSpecs close on explicit keywords, so list items that mention a
// closing keyword end their section early.
var guidanceSpecs = []extract.MarkerSpec{
	{Field: "gaps", Open: []string{"skill gap", "missing skill", "need to learn"}, Close: []string{"learning", "resource", "next step"}, Style: extract.List, Max: 8},
	{Field: "resources", Open: []string{"learning", "resource", "course", "certification"}, Close: []string{"next step", "timeline", "career"}, Style: extract.List, Max: 6},
	{Field: "steps", Open: []string{"next step", "action", "recommendation"}, Close: []string{"timeline"}, Style: extract.List, Max: 5},
}

// SkillEvolution partitions position skills by how recently they were used.
type SkillEvolution struct {
	Recent     []string `json:"recent_skills"`
	Older      []string `json:"older_skills"`
	Consistent []string `json:"consistent_skills"`
	// AcquisitionRate is new skills per year over the recent window.
	AcquisitionRate float64 `json:"new_skills_per_year"`
}

type CounselingResult struct {
	Error             string         `json:"error,omitempty"`
	Framing           string         `json:"framing,omitempty"`
	Guidance          string         `json:"guidance,omitempty"`
	SkillGaps         []string       `json:"skill_gaps,omitempty"`
	LearningResources []string       `json:"learning_resources,omitempty"`
	NextSteps         []string       `json:"next_steps,omitempty"`
	Timeline          string         `json:"timeline,omitempty"`
	SkillEvolution    SkillEvolution `json:"skill_evolution"`
}

func (r *CounselingResult) AnalysisType() string { return TypeCareerCounseling }
func (r *CounselingResult) Failure() string      { return r.Error }

// CareerCounselor answers career questions and builds development roadmaps.
type CareerCounselor struct {
	base
}

func NewCareerCounselor(deps Deps) *CareerCounselor {
	return &CareerCounselor{base: newBase("career_counselor", deps)}
}

func (c *CareerCounselor) Run(ctx context.Context, in Input) (Result, error) {
	return c.Counsel(ctx, in)
}

func (c *CareerCounselor) Counsel(ctx context.Context, in Input) (*CounselingResult, error) {
	p := in.Profile
	if p == nil {
		return &CounselingResult{Error: MsgNoProfile}, nil
	}

	evolution := Evolution(p.Experience, c.now().Year())
	framing := guidanceKeywords.Decide(in.Query)

	c.logger.Info("counseling",
		zap.Stringer("framing", framing),
		zap.Int("recent_skills", len(evolution.Recent)),
	)

	var (
		prompt  string
		history []ai.Message
		err     error
	)
	if framing == Comprehensive {
		leverage := "N/A"
		if len(evolution.Recent) > 0 {
			leverage = evolution.Recent[0]
		}
		prompt, err = prompts.Render(prompts.CounselingComprehensive, prompts.Vars{
			"PROFILE":           p.Format(),
			"RECENT_SKILLS":     prompts.JoinOr(head(evolution.Recent, maxEvolutionSkills), "None"),
			"OLDER_SKILLS":      prompts.JoinOr(head(evolution.Older, maxEvolutionSkills), "None"),
			"CONSISTENT_SKILLS": prompts.JoinOr(head(evolution.Consistent, maxEvolutionSkills), "None"),
			"ACQUISITION_RATE":  formatFloat(evolution.AcquisitionRate),
			"CAREER_GOALS":      prompts.OrDefault(in.CareerGoals, "Not specified, infer them from the profile"),
			"TARGET_ROLE":       prompts.OrDefault(in.TargetRole, "Not specified"),
			"QUERY":             in.Query,
			"LEVERAGE_SKILL":    leverage,
		})
	} else {
		history = lastTurns(in.History, historyTurns)
		prompt, err = prompts.Render(prompts.CounselingConversational, prompts.Vars{
			"PROFILE":      p.Format(),
			"CAREER_GOALS": prompts.OrDefault(in.CareerGoals, "Not specified"),
			"TARGET_ROLE":  prompts.OrDefault(in.TargetRole, "Not specified"),
			"QUERY":        in.Query,
		})
	}
	if err != nil {
		return nil, err
	}

	raw, err := c.invoke(ctx, in, prompt, history)
	if err != nil {
		return nil, fmt.Errorf("career counseling: %w", err)
	}

	result := &CounselingResult{
		Framing:        framing.String(),
		Guidance:       raw,
		SkillEvolution: evolution,
	}
	if framing == Comprehensive {
		parsed := extract.Extract(raw, guidanceSpecs)
		result.SkillGaps = parsed.Items("gaps")
		result.LearningResources = parsed.Items("resources")
		result.NextSteps = parsed.Items("steps")
		result.Timeline = extract.Window(raw, "timeline", timelineWindow, timelineNotSpecified)
	}

	return result, nil
}

// Evolution splits position skills into recent ones (positions started within
// two years of refYear), older ones and skills used in at least two positions.
// Skills keep first-seen order.
func Evolution(positions []profile.Position, refYear int) SkillEvolution {
	var recent, older, order []string
	recentSeen := make(map[string]struct{})
	olderSeen := make(map[string]struct{})
	counts := make(map[string]int)

	for _, pos := range positions {
		year, ok := startYear(pos.StartDate)
		posSeen := make(map[string]struct{})

		for _, skill := range pos.Skills {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			key := strings.ToLower(skill)

			if _, dup := posSeen[key]; !dup {
				posSeen[key] = struct{}{}
				if counts[key] == 0 {
					order = append(order, skill)
				}
				counts[key]++
			}

			switch {
			case !ok:
			case refYear-year <= recentYears:
				if _, seen := recentSeen[key]; !seen {
					recentSeen[key] = struct{}{}
					recent = append(recent, skill)
				}
			default:
				if _, seen := olderSeen[key]; !seen {
					olderSeen[key] = struct{}{}
					older = append(older, skill)
				}
			}
		}
	}

	evolution := SkillEvolution{Recent: recent}
	for _, skill := range older {
		if _, isRecent := recentSeen[strings.ToLower(skill)]; !isRecent {
			evolution.Older = append(evolution.Older, skill)
		}
	}
	for _, skill := range order {
		if counts[strings.ToLower(skill)] >= 2 {
			evolution.Consistent = append(evolution.Consistent, skill)
		}
	}
	evolution.AcquisitionRate = utils.Round(float64(len(recent))/recentYears, 1)

	return evolution
}

func startYear(date string) (int, bool) {
	m := yearRe.FindStringSubmatch(date)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	return year, err == nil
}

func lastTurns(history []ai.Message, n int) []ai.Message {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
