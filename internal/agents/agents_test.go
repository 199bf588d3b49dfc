package agents

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/jobs"
	"github.com/spigell/profile-advisor/internal/profile"
)

type stubModel struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []ai.Request
}

func (m *stubModel) Invoke(_ context.Context, req ai.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func (m *stubModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *stubModel) last(t *testing.T) ai.Request {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatalf("model was not called")
	}
	return m.requests[len(m.requests)-1]
}

type stubResolver struct {
	jd    *jobs.JobDescription
	query jobs.Query
}

func (r *stubResolver) Resolve(_ context.Context, q jobs.Query) *jobs.JobDescription {
	r.query = q
	return r.jd
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func deps(t *testing.T, model ai.Model) Deps {
	return Deps{Model: model, Logger: zaptest.NewLogger(t), Now: fixedNow}
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		FullName: "Jane Doe",
		Headline: "Engineer",
		About:    "I build backend systems.",
		Experience: []profile.Position{
			{Title: "Platform Engineer", Company: "Acme", Description: "Ran backend services", StartDate: "Jan 2024", IsCurrent: true, Skills: []string{"Kubernetes", "Go"}},
			{Title: "Backend Engineer", Company: "Globex", StartDate: "Mar 2019", EndDate: "Dec 2023", Skills: []string{"Go", "SQL"}},
		},
		Education: []profile.Degree{{School: "MIT", Degree: "BSc", FieldOfStudy: "CS"}},
		Skills:    []string{"Go", "Kubernetes", "SQL", "Python", "Docker"},
		SkillsDetailed: []profile.SkillRecord{
			{Name: "Go", RelatedExperiences: []string{"Platform Engineer"}},
			{Name: "Kubernetes", EndorsementCount: 3, RelatedExperiences: []string{"Platform Engineer"}},
			{Name: "SQL"},
			{Name: "Python"},
			{Name: "Docker"},
			{Name: "Rust"},
		},
	}
}

const jobText = "We need Go and Kubernetes experience for backend services. Docker is a plus."

func TestMissingPrerequisites(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{"unused"}}
	d := deps(t, model)
	resolver := &stubResolver{jd: &jobs.JobDescription{Description: jobText}}

	tests := []struct {
		name  string
		agent Agent
		in    Input
		want  string
	}{
		{name: "analyzer", agent: NewProfileAnalyzer(d), want: MsgNoProfile},
		{name: "matcher without profile", agent: NewJobMatcher(d, resolver), in: Input{TargetRole: "SRE"}, want: MsgNoProfile},
		{name: "matcher without role", agent: NewJobMatcher(d, resolver), in: Input{Profile: testProfile(), TargetRole: "  "}, want: MsgNoTargetRole},
		{name: "generator", agent: NewContentGenerator(d), in: Input{Query: "rewrite all sections"}, want: MsgNoProfile},
		{name: "counselor", agent: NewCareerCounselor(d), want: MsgNoProfile},
	}

	for _, tt := range tests {
		result, err := tt.agent.Run(context.Background(), tt.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if result.Failure() != tt.want {
			t.Fatalf("%s: expected failure %q, got %q", tt.name, tt.want, result.Failure())
		}
	}

	if model.calls() != 0 {
		t.Fatalf("model must not be called without prerequisites, got %d calls", model.calls())
	}
}

func TestFramingDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		keywords FramingKeywords
		query    string
		want     Framing
	}{
		{keywords: profileReviewKeywords, query: "Please ANALYZE MY PROFILE", want: Comprehensive},
		{keywords: profileReviewKeywords, query: "Is my headline too long?", want: Conversational},
		{keywords: guidanceKeywords, query: "I want a career roadmap", want: Comprehensive},
		{keywords: guidanceKeywords, query: "Should I learn Rust?", want: Conversational},
		{keywords: allSectionsKeywords, query: "improve every section", want: Comprehensive},
		{keywords: allSectionsKeywords, query: "", want: Conversational},
	}

	for _, tt := range tests {
		if got := tt.keywords.Decide(tt.query); got != tt.want {
			t.Fatalf("Decide(%q) = %s, want %s", tt.query, got, tt.want)
		}
	}
}

func TestProfileAnalyzerComprehensive(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{`**Overall Assessment:** Solid.

**Strengths:**
- Clear stack

**Priority Improvements:**
1. Expand the about section
2. Add metrics`}}

	result, err := NewProfileAnalyzer(deps(t, model)).Analyze(context.Background(), Input{
		Query:          "Analyze my profile",
		Profile:        testProfile(),
		SessionContext: "Target role: SRE",
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Framing != "comprehensive" || result.CompletenessScore != 65 || result.Grade != "D" {
		t.Fatalf("unexpected signals: %+v", result)
	}
	if !reflect.DeepEqual(result.MissingSections, []string{"certifications"}) {
		t.Fatalf("unexpected missing sections: %v", result.MissingSections)
	}
	if result.SkillsProof.Linked != 2 || result.SkillsProof.Orphan != 4 {
		t.Fatalf("unexpected proof: %+v", result.SkillsProof)
	}

	want := []string{"Clear stack", "Expand the about section", "Add metrics"}
	if !reflect.DeepEqual(result.Recommendations, want) {
		t.Fatalf("expected %v, got %v", want, result.Recommendations)
	}

	req := model.last(t)
	for _, s := range []string{"Review the whole profile", "Completeness: 65% (grade D)", "Today is June 15, 2025", "(33%)", "Skills with endorsements: 1"} {
		if !strings.Contains(req.Prompt, s) {
			t.Fatalf("prompt misses %q:\n%s", s, req.Prompt)
		}
	}
	if !strings.Contains(req.System, "Target role: SRE") {
		t.Fatalf("system prompt misses the session context:\n%s", req.System)
	}
	if strings.Contains(req.Prompt, "DATE VALIDATION ALERTS") {
		t.Fatalf("no date alerts expected")
	}
}

func TestProfileAnalyzerQuestionWithDateAlerts(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.Experience[0].StartDate = "Jan 2030"

	model := &stubModel{responses: []string{"Your headline is too short."}}
	result, err := NewProfileAnalyzer(deps(t, model)).Analyze(context.Background(), Input{
		Query:            "Is my headline good?",
		Profile:          p,
		PreviousAnalysis: "earlier review",
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Framing != "conversational" || len(result.DateIssues) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Recommendations) != 0 {
		t.Fatalf("expected no recommendations, got %v", result.Recommendations)
	}

	prompt := model.last(t).Prompt
	for _, s := range []string{"Answer only what was asked", "DATE VALIDATION ALERTS", profile.IssueFutureStart, "earlier review"} {
		if !strings.Contains(prompt, s) {
			t.Fatalf("prompt misses %q:\n%s", s, prompt)
		}
	}
}

func TestJobMatcher(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{`**MATCH ASSESSMENT:** Good fit.

**OPTIMIZATION RECOMMENDATIONS:**
1. Highlight Kubernetes
2. Add proof for Docker
- Reframe Globex work`}}
	resolver := &stubResolver{jd: &jobs.JobDescription{Title: "SRE", Description: jobText, Source: jobs.SourceUser}}

	result, err := NewJobMatcher(deps(t, model), resolver).Match(context.Background(), Input{
		Profile:        testProfile(),
		TargetRole:     " SRE ",
		JobDescription: jobText,
		Location:       "Berlin",
		SearchOnline:   true,
	})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	wantQuery := jobs.Query{Title: "SRE", Override: jobText, Location: "Berlin", SearchOnline: true}
	if resolver.query != wantQuery {
		t.Fatalf("unexpected resolver query: %+v", resolver.query)
	}

	if !reflect.DeepEqual(result.MatchingSkills, []string{"go", "kubernetes", "docker"}) {
		t.Fatalf("unexpected matching skills: %v", result.MatchingSkills)
	}
	if len(result.MissingSkills) > maxMissingSkills {
		t.Fatalf("missing skills not capped: %v", result.MissingSkills)
	}
	if result.MatchScore < 0 || result.MatchScore > 100 || result.JobSource != jobs.SourceUser {
		t.Fatalf("unexpected score or source: %+v", result)
	}
	if len(result.RelevantExperience) != 2 || result.RelevantExperience[0].Position != "Platform Engineer at Acme" {
		t.Fatalf("unexpected relevant experience: %+v", result.RelevantExperience)
	}

	want := []string{"Highlight Kubernetes", "Add proof for Docker", "Reframe Globex work"}
	if !reflect.DeepEqual(result.Recommendations, want) {
		t.Fatalf("expected %v, got %v", want, result.Recommendations)
	}

	prompt := model.last(t).Prompt
	for _, s := range []string{"JOB TITLE: SRE", "JOB SOURCE: user_provided", "Matching skills: go, kubernetes, docker", "• Platform Engineer at Acme (CURRENT)\n  Skills: Kubernetes, Go"} {
		if !strings.Contains(prompt, s) {
			t.Fatalf("prompt misses %q:\n%s", s, prompt)
		}
	}
}

func TestRelevantExperience(t *testing.T) {
	t.Parallel()

	positions := []profile.Position{
		{Title: "Frontend Developer", Company: "X", Skills: []string{"React"}},
		{Title: "Backend Engineer", Company: "Y", Skills: []string{"Go"}},
		{Title: "Platform Engineer", Company: "Z", Description: "Ran backend services", Skills: []string{"Kubernetes", "Go"}},
		{Title: "Backend Developer", Company: "W", Skills: []string{"Go"}},
		{Title: "Backend Lead", Company: "V", Skills: []string{"Go"}},
	}

	got := RelevantExperience(positions, jobText)

	var labels []string
	for _, r := range got {
		labels = append(labels, fmt.Sprintf("%s=%d", r.Position, r.Relevance))
	}
	want := []string{"Platform Engineer at Z=4", "Backend Engineer at Y=2", "Backend Developer at W=2"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
}

func TestSectionFromQuery(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Rewrite my headline":             SectionHeadline,
		"Improve my summary":              SectionAbout,
		"Write my about section":          SectionAbout,
		"Polish my experience":            SectionExperience,
		"Update education":                SectionEducation,
		"Which skills should I list":      SectionSkills,
		"Make it better":                  SectionAbout,
		"headline and about both please":  SectionAbout,
		"experience with skills sections": SectionExperience,
	}

	for query, want := range tests {
		if got := SectionFromQuery(query); got != want {
			t.Fatalf("SectionFromQuery(%q) = %q, want %q", query, got, want)
		}
	}
}

const headlineResponse = `**REWRITTEN HEADLINE:**
Platform Engineer at Acme | Go, Kubernetes | Reliable backend services

**KEY IMPROVEMENTS MADE:**
1. Added the company
2. Added core skills

**KEYWORDS ADDED:**
Platform Engineer, Kubernetes, Go

**CREDIBILITY ELEMENTS ADDED:**
- Company leverage: Acme
- Metrics: none yet

**ADDITIONAL TIPS:**
- Keep it under 120 characters`

func TestContentGeneratorSingleSection(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{headlineResponse}}
	res, err := NewContentGenerator(deps(t, model)).Run(context.Background(), Input{
		Query:      "Rewrite my headline",
		Profile:    testProfile(),
		TargetRole: "SRE",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result := res.(*ContentResult)
	if result.Section != SectionHeadline || result.OriginalContent != "Engineer" || result.Plan != nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.GeneratedContent != "Platform Engineer at Acme | Go, Kubernetes | Reliable backend services" {
		t.Fatalf("unexpected content: %q", result.GeneratedContent)
	}
	if !reflect.DeepEqual(result.Improvements, []string{"Added the company", "Added core skills"}) {
		t.Fatalf("unexpected improvements: %v", result.Improvements)
	}
	if !reflect.DeepEqual(result.KeywordsAdded, []string{"Platform Engineer", "Kubernetes"}) {
		t.Fatalf("unexpected keywords: %v", result.KeywordsAdded)
	}
	if !reflect.DeepEqual(result.CredibilityElements, []string{"Company leverage: Acme", "Metrics: none yet"}) {
		t.Fatalf("unexpected credibility: %v", result.CredibilityElements)
	}
	if !reflect.DeepEqual(result.Tips, []string{"Keep it under 120 characters"}) {
		t.Fatalf("unexpected tips: %v", result.Tips)
	}

	prompt := model.last(t).Prompt
	for _, s := range []string{"Rewrite the headline section", "Current position: Platform Engineer at Acme.", "**REWRITTEN HEADLINE:**", "• Go: used at Globex as Backend Engineer"} {
		if !strings.Contains(prompt, s) {
			t.Fatalf("prompt misses %q:\n%s", s, prompt)
		}
	}
}

func TestContentGeneratorFallback(t *testing.T) {
	t.Parallel()

	paragraph := strings.Repeat("I design and run backend platforms that stay up. ", 3)
	model := &stubModel{responses: []string{"Sure.\n\n" + paragraph}}

	result, err := NewContentGenerator(deps(t, model)).Generate(context.Background(), Input{Profile: testProfile()}, SectionAbout)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if result.GeneratedContent != strings.TrimSpace(paragraph) {
		t.Fatalf("expected paragraph fallback, got %q", result.GeneratedContent)
	}
}

func TestContentGeneratorPlan(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{headlineResponse}}
	res, err := NewContentGenerator(deps(t, model)).Run(context.Background(), Input{
		Query:      "Give me suggestions for all sections",
		Profile:    testProfile(),
		TargetRole: "SRE",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	plan := res.(*ContentResult).Plan
	if plan == nil {
		t.Fatalf("expected a plan")
	}
	if model.calls() != len(planSections) {
		t.Fatalf("expected %d model calls, got %d", len(planSections), model.calls())
	}

	var sections []string
	for _, s := range plan.Sections {
		sections = append(sections, s.Section)
	}
	if !reflect.DeepEqual(sections, planSections) {
		t.Fatalf("unexpected sections order: %v", sections)
	}

	if !strings.Contains(plan.AdvancedTips[0], "Mirror SRE job posting keywords") || len(plan.AdvancedTips) != len(advancedTips)+1 {
		t.Fatalf("unexpected tips: %v", plan.AdvancedTips)
	}
	if !strings.Contains(plan.OverallStrategy, "Current Position: Platform Engineer at Acme") {
		t.Fatalf("unexpected strategy:\n%s", plan.OverallStrategy)
	}
	if sp, ok := plan.PriorityOf(SectionSkills); !ok || sp.Priority != PriorityMedium {
		t.Fatalf("unexpected skills priority: %+v", sp)
	}
}

func TestSectionPriorities(t *testing.T) {
	t.Parallel()

	got := map[string]Priority{}
	for _, sp := range SectionPriorities(testProfile()) {
		got[sp.Section] = sp.Priority
	}
	want := map[string]Priority{
		SectionHeadline:   PriorityHigh,
		SectionAbout:      PriorityHigh,
		SectionExperience: PriorityHigh,
		SectionSkills:     PriorityMedium,
		SectionEducation:  PriorityLow,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	strong := &profile.Profile{
		Headline:   "Senior Platform Engineer | Go, Kubernetes | Building reliable systems at scale",
		About:      strings.Repeat("a", 600),
		Experience: []profile.Position{{Description: "did things"}},
		Skills:     []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
	}
	for _, sp := range SectionPriorities(strong) {
		if sp.Section == SectionEducation && sp.Priority != PriorityHigh {
			t.Fatalf("missing education must be HIGH: %+v", sp)
		}
		if sp.Section == SectionHeadline && sp.Priority != PriorityMedium {
			t.Fatalf("long role headline must be MEDIUM: %+v", sp)
		}
		if sp.Section == SectionAbout && sp.Priority != PriorityLow {
			t.Fatalf("long about must be LOW: %+v", sp)
		}
		if sp.Section == SectionExperience && sp.Priority != PriorityMedium {
			t.Fatalf("described experience must be MEDIUM: %+v", sp)
		}
	}
}

func TestQuickWins(t *testing.T) {
	t.Parallel()

	var sections []string
	for _, w := range QuickWins(testProfile()) {
		sections = append(sections, w.Section)
	}
	want := []string{"Headline", "About", "Experience (Platform Engineer)", "Experience (Backend Engineer)", "Skills & Experience"}
	if !reflect.DeepEqual(sections, want) {
		t.Fatalf("expected %v, got %v", want, sections)
	}

	polished := &profile.Profile{
		Headline: strings.Repeat("h", 90),
		About:    "I delivered a platform migration.",
	}
	if wins := QuickWins(polished); len(wins) != 0 {
		t.Fatalf("expected no quick wins, got %+v", wins)
	}
}

func TestEvolution(t *testing.T) {
	t.Parallel()

	got := Evolution(testProfile().Experience, 2025)
	want := SkillEvolution{
		Recent:          []string{"Kubernetes", "Go"},
		Older:           []string{"SQL"},
		Consistent:      []string{"Go"},
		AcquisitionRate: 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if got := Evolution([]profile.Position{{StartDate: "unknown", Skills: []string{"Go"}}}, 2025); len(got.Recent)+len(got.Older) != 0 {
		t.Fatalf("undated positions must not be classified: %+v", got)
	}
}

const roadmapResponse = `**CAREER ASSESSMENT:**
Strong backend profile.

**SKILL GAP ANALYSIS:**
1. Distributed tracing
2. Terraform

**LEARNING ROADMAP:**
- Read the SRE book and run a pet project
- Build a Terraform module

**NEXT STEPS:**
1. Ship an open source operator
2. Present at a meetup

**TIMELINE:**
- 0-3 months: tracing
- 3-6 months: terraform`

func TestCareerCounselorComprehensive(t *testing.T) {
	t.Parallel()

	model := &stubModel{responses: []string{roadmapResponse}}
	result, err := NewCareerCounselor(deps(t, model)).Counsel(context.Background(), Input{
		Query:   "Give me a career roadmap",
		Profile: testProfile(),
		History: []ai.Message{{Role: ai.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Counsel returned error: %v", err)
	}

	if !reflect.DeepEqual(result.SkillGaps, []string{"Distributed tracing", "Terraform"}) {
		t.Fatalf("unexpected gaps: %v", result.SkillGaps)
	}
	if !reflect.DeepEqual(result.LearningResources, []string{"Read the SRE book and run a pet project", "Build a Terraform module"}) {
		t.Fatalf("unexpected resources: %v", result.LearningResources)
	}
	if !reflect.DeepEqual(result.NextSteps, []string{"Ship an open source operator", "Present at a meetup"}) {
		t.Fatalf("unexpected next steps: %v", result.NextSteps)
	}
	if result.Timeline != "**TIMELINE:** - 0-3 months: tracing - 3-6 months: terraform" {
		t.Fatalf("unexpected timeline: %q", result.Timeline)
	}

	req := model.last(t)
	if len(req.History) != 0 {
		t.Fatalf("comprehensive guidance must not send history")
	}
	for _, s := range []string{"Recent skills (last two years): Kubernetes, Go", "Acquisition rate: 1 new skills", "building on Kubernetes"} {
		if !strings.Contains(req.Prompt, s) {
			t.Fatalf("prompt misses %q:\n%s", s, req.Prompt)
		}
	}
}

func TestCareerCounselorConversational(t *testing.T) {
	t.Parallel()

	var history []ai.Message
	for i := 0; i < 8; i++ {
		history = append(history, ai.Message{Role: ai.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	model := &stubModel{responses: []string{"Yes, Rust is a good next step.\n\n**TIMELINE:** soon"}}
	result, err := NewCareerCounselor(deps(t, model)).Counsel(context.Background(), Input{
		Query:   "Should I learn Rust?",
		Profile: testProfile(),
		History: history,
	})
	if err != nil {
		t.Fatalf("Counsel returned error: %v", err)
	}

	if result.Framing != "conversational" || result.Timeline != "" || result.SkillGaps != nil {
		t.Fatalf("conversational answers are not parsed: %+v", result)
	}

	req := model.last(t)
	if len(req.History) != historyTurns || req.History[0].Content != "turn 2" {
		t.Fatalf("unexpected history: %+v", req.History)
	}
}

func TestModelErrorPropagates(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	model := &stubModel{err: errBoom}
	resolver := &stubResolver{jd: &jobs.JobDescription{Description: jobText}}
	in := Input{Query: "Analyze my profile", Profile: testProfile(), TargetRole: "SRE"}

	agents := []Agent{
		NewProfileAnalyzer(deps(t, model)),
		NewJobMatcher(deps(t, model), resolver),
		NewContentGenerator(deps(t, model)),
		NewCareerCounselor(deps(t, model)),
	}
	for _, agent := range agents {
		if _, err := agent.Run(context.Background(), in); !errors.Is(err, errBoom) {
			t.Fatalf("%s: expected model error, got %v", agent.Name(), err)
		}
	}
	if model.calls() != len(agents) {
		t.Fatalf("agents must not retry: %d calls", model.calls())
	}
}
