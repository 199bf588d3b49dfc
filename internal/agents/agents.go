// Package agents holds the four advisors. Each one computes deterministic
// signals, renders a prompt, calls the model and parses the answer into a
// result the orchestrator can store and render.
package agents

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/logger"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/prompts"
	"github.com/spigell/profile-advisor/internal/utils"
)

// Messages for missing prerequisites. They are returned inside results, not as errors.
const (
	MsgNoProfile    = "No profile data available. Please provide a LinkedIn URL first."
	MsgNoTargetRole = "Please specify a target job role."
)

// Analysis types under which results are stored in the session.
const (
	TypeProfileAnalysis   = "profile_analysis"
	TypeJobMatch          = "job_match"
	TypeContentGeneration = "content_generation"
	TypeCareerCounseling  = "career_counseling"
)

const defaultMaxLogLength = 200

// Input is everything an agent may need for one query.
type Input struct {
	Query       string
	Profile     *profile.Profile
	TargetRole  string
	CareerGoals string
	// JobDescription is job text pasted by the user. It overrides every other job source.
	JobDescription string
	Location       string
	SearchOnline   bool
	// SessionContext is rendered into the system prompt.
	SessionContext   string
	History          []ai.Message
	PreviousAnalysis string
}

// Result is implemented by every agent result.
type Result interface {
	// AnalysisType is the session tag the result is stored under.
	AnalysisType() string
	// Failure returns the prerequisite message, empty on success.
	Failure() string
}

// Agent handles one kind of query.
type Agent interface {
	Name() string
	Run(ctx context.Context, in Input) (Result, error)
}

type Deps struct {
	Model  ai.Model
	Logger *zap.Logger
	// Now is the clock used for date checks and skill recency. Defaults to time.Now.
	Now          func() time.Time
	MaxLogLength int
}

type base struct {
	name      string
	model     ai.Model
	logger    *zap.Logger
	now       func() time.Time
	maxLogLen int
}

func newBase(name string, deps Deps) base {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	maxLogLen := deps.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return base{
		name:      name,
		model:     deps.Model,
		logger:    logger.WithAgent(deps.Logger, name),
		now:       now,
		maxLogLen: maxLogLen,
	}
}

func (b base) Name() string {
	return b.name
}

// invoke sends prompt with the session system prompt and logs both directions.
func (b base) invoke(ctx context.Context, in Input, prompt string, history []ai.Message) (string, error) {
	system, err := prompts.Render(prompts.System, prompts.Vars{
		"SESSION_CONTEXT": prompts.OrDefault(in.SessionContext, "No context available yet."),
	})
	if err != nil {
		return "", err
	}

	b.logger.Debug("model request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, b.maxLogLen)),
		zap.Int("history", len(history)),
	)

	raw, err := b.model.Invoke(ctx, ai.Request{Prompt: prompt, System: system, History: history})
	if err != nil {
		return "", err
	}

	b.logger.Debug("model response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, b.maxLogLen)),
	)

	return raw, nil
}

// Framing selects between a focused answer and a full structured review.
type Framing int

const (
	Conversational Framing = iota
	Comprehensive
)

func (f Framing) String() string {
	if f == Comprehensive {
		return "comprehensive"
	}
	return "conversational"
}

// FramingKeywords is a keyword set that turns a query comprehensive.
type FramingKeywords []string

// Decide returns Comprehensive when the query contains any keyword, case-insensitively.
func (k FramingKeywords) Decide(query string) Framing {
	if utils.ContainsAny(strings.ToLower(query), k...) {
		return Comprehensive
	}
	return Conversational
}

var (
	profileReviewKeywords = FramingKeywords{
		"analyze my profile", "analyse my profile", "review my profile", "audit",
		"full analysis", "complete analysis", "comprehensive", "entire profile",
		"whole profile", "profile review", "profile analysis",
	}
	guidanceKeywords = FramingKeywords{
		"full guidance", "complete guidance", "career plan", "skill gap analysis",
		"learning path", "career roadmap", "comprehensive", "detailed guidance",
	}
	allSectionsKeywords = FramingKeywords{
		"all section", "every section", "complete profile", "entire profile",
		"comprehensive", "all suggestions", "full profile",
	}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
