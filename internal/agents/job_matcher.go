package agents

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/extract"
	"github.com/spigell/profile-advisor/internal/jobs"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/prompts"
	"github.com/spigell/profile-advisor/internal/scoring"
)

const (
	maxImprovements       = 8
	maxMissingSkills      = 15
	maxListedSkills       = 10
	maxRelevantPositions  = 3
	maxRelevantMatches    = 8
	maxMappedPositions    = 5
	maxSkillsPerPosition  = 8
	noPositionSkills      = "No position-specific skills data available"
	noRelevantExperience  = "No directly relevant experience found"
	currentPositionMarker = " (CURRENT)"
)

var improvementSpec = []extract.MarkerSpec{{
	Field: "improvements",
	Open:  []string{"improvement", "suggestion", "recommendation", "optimize"},
	Style: extract.List,
	Max:   maxImprovements,
}}

// JobResolver supplies the job description to match against.
type JobResolver interface {
	Resolve(ctx context.Context, q jobs.Query) *jobs.JobDescription
}

// RelevantPosition is a past role ranked by overlap with the job text.
type RelevantPosition struct {
	Position  string   `json:"position"`
	Relevance int      `json:"relevance_score"`
	Matches   []string `json:"matching_keywords"`
	Duration  string   `json:"duration,omitempty"`
	IsCurrent bool     `json:"is_current"`
}

type MatchResult struct {
	Error              string             `json:"error,omitempty"`
	JobTitle           string             `json:"job_title,omitempty"`
	JobSource          jobs.Source        `json:"job_source,omitempty"`
	JobURL             string             `json:"job_url,omitempty"`
	MatchScore         float64            `json:"match_score"`
	Confidence         scoring.Confidence `json:"confidence,omitempty"`
	ExactMatches       int                `json:"exact_matches"`
	PartialMatches     int                `json:"partial_matches"`
	TotalRequirements  int                `json:"total_requirements"`
	MatchingSkills     []string           `json:"matching_skills,omitempty"`
	MissingSkills      []string           `json:"missing_skills,omitempty"`
	RelevantExperience []RelevantPosition `json:"relevant_experience,omitempty"`
	JobDescription     string             `json:"job_description,omitempty"`
	DetailedAnalysis   string             `json:"detailed_analysis,omitempty"`
	Recommendations    []string           `json:"recommendations,omitempty"`
}

func (r *MatchResult) AnalysisType() string { return TypeJobMatch }
func (r *MatchResult) Failure() string      { return r.Error }

// JobMatcher compares the profile with a job description for the target role.
type JobMatcher struct {
	base
	resolver JobResolver
}

func NewJobMatcher(deps Deps, resolver JobResolver) *JobMatcher {
	if resolver == nil {
		resolver = jobs.NewResolver(nil, deps.Logger)
	}
	return &JobMatcher{base: newBase("job_matcher", deps), resolver: resolver}
}

func (m *JobMatcher) Run(ctx context.Context, in Input) (Result, error) {
	return m.Match(ctx, in)
}

func (m *JobMatcher) Match(ctx context.Context, in Input) (*MatchResult, error) {
	p := in.Profile
	if p == nil {
		return &MatchResult{Error: MsgNoProfile}, nil
	}
	role := strings.TrimSpace(in.TargetRole)
	if role == "" {
		return &MatchResult{Error: MsgNoTargetRole}, nil
	}

	jd := m.resolver.Resolve(ctx, jobs.Query{
		Title:        role,
		Override:     in.JobDescription,
		Location:     in.Location,
		SearchOnline: in.SearchOnline,
	})

	skills := p.AllSkills()
	keywords := scoring.Keywords(jd.Description, scoring.DefaultKeywordCount)
	matching := scoring.MatchingSkills(skills, jd.Description)
	missing := scoring.MissingSkills(skills, jd.Description, keywords)
	score := scoring.MatchScore(skills, jd.Description)
	relevant := RelevantExperience(p.Experience, jd.Description)

	m.logger.Info("matching profile",
		zap.String("role", role),
		zap.String("job_source", string(jd.Source)),
		zap.Float64("score", score.Score),
		zap.String("confidence", string(score.Confidence)),
	)

	prompt, err := prompts.Render(prompts.JobMatch, prompts.Vars{
		"JOB_TITLE":           role,
		"JOB_SOURCE":          string(jd.Source),
		"JOB_DESCRIPTION":     jd.Description,
		"PROFILE":             p.Format(),
		"POSITION_SKILLS":     formatPositionSkills(p.Experience),
		"RELEVANT_EXPERIENCE": formatRelevant(relevant),
		"SCORE":               formatFloat(score.Score),
		"CONFIDENCE":          string(score.Confidence),
		"EXACT":               strconv.Itoa(score.ExactMatches),
		"PARTIAL":             strconv.Itoa(score.PartialMatches),
		"TOTAL":               strconv.Itoa(score.TotalRequirements),
		"MATCHING":            prompts.JoinOr(head(matching, maxListedSkills), "None identified"),
		"MISSING":             prompts.JoinOr(head(missing, maxListedSkills), "None"),
	})
	if err != nil {
		return nil, err
	}

	raw, err := m.invoke(ctx, in, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("job match: %w", err)
	}

	return &MatchResult{
		JobTitle:           role,
		JobSource:          jd.Source,
		JobURL:             jd.URL,
		MatchScore:         score.Score,
		Confidence:         score.Confidence,
		ExactMatches:       score.ExactMatches,
		PartialMatches:     score.PartialMatches,
		TotalRequirements:  score.TotalRequirements,
		MatchingSkills:     matching,
		MissingSkills:      head(missing, maxMissingSkills),
		RelevantExperience: relevant,
		JobDescription:     jd.Description,
		DetailedAnalysis:   raw,
		Recommendations:    extract.Extract(raw, improvementSpec).Items("improvements"),
	}, nil
}

// RelevantExperience ranks positions by how many job keywords and skills they
// share with the job text. Positions without overlap are dropped and ties keep
// profile order.
func RelevantExperience(positions []profile.Position, jobText string) []RelevantPosition {
	job := strings.ToLower(jobText)
	jobKeywords := make(map[string]struct{})
	for _, k := range scoring.Keywords(job, scoring.DefaultKeywordCount) {
		jobKeywords[k] = struct{}{}
	}

	var ranked []RelevantPosition
	for _, pos := range positions {
		parts := append([]string{pos.Title, pos.Description, pos.Company}, pos.Skills...)
		text := strings.ToLower(strings.Join(parts, " "))

		seen := make(map[string]struct{})
		var matches []string
		add := func(v string) {
			if _, ok := seen[v]; ok {
				return
			}
			seen[v] = struct{}{}
			matches = append(matches, v)
		}

		for _, k := range scoring.Keywords(text, scoring.DefaultKeywordCount) {
			if _, ok := jobKeywords[k]; ok {
				add(k)
			}
		}
		for _, skill := range pos.Skills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill == "" {
				continue
			}
			for _, v := range scoring.Variations(skill) {
				if v != "" && strings.Contains(job, v) {
					add(skill)
					break
				}
			}
		}

		if len(matches) == 0 {
			continue
		}

		ranked = append(ranked, RelevantPosition{
			Position:  positionLabel(pos),
			Relevance: len(matches),
			Matches:   head(matches, maxRelevantMatches),
			Duration:  pos.Duration,
			IsCurrent: pos.IsCurrent,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	return head(ranked, maxRelevantPositions)
}

func formatPositionSkills(positions []profile.Position) string {
	var lines []string
	for _, pos := range positions {
		if len(lines) == maxMappedPositions {
			break
		}
		if len(pos.Skills) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s%s\n  Skills: %s",
			positionLabel(pos), currentMarker(pos.IsCurrent), strings.Join(head(pos.Skills, maxSkillsPerPosition), ", ")))
	}

	if len(lines) == 0 {
		return noPositionSkills
	}
	return strings.Join(lines, "\n")
}

func formatRelevant(relevant []RelevantPosition) string {
	if len(relevant) == 0 {
		return noRelevantExperience
	}

	lines := make([]string, 0, len(relevant))
	for _, r := range relevant {
		lines = append(lines, fmt.Sprintf("• %s%s\n  Relevance: %d matching keywords\n  Key matches: %s",
			r.Position, currentMarker(r.IsCurrent), r.Relevance, strings.Join(r.Matches, ", ")))
	}
	return strings.Join(lines, "\n")
}

func positionLabel(pos profile.Position) string {
	return fmt.Sprintf("%s at %s", pos.Title, pos.Company)
}

func currentMarker(current bool) string {
	if current {
		return currentPositionMarker
	}
	return ""
}

func head[T any](values []T, n int) []T {
	if len(values) > n {
		return values[:n]
	}
	return values
}
