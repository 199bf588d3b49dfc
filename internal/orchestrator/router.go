package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/prompts"
	"github.com/spigell/profile-advisor/internal/utils"
)

// AgentName identifies one of the four agents.
type AgentName string

const (
	ProfileAnalyzer  AgentName = "profile_analyzer"
	JobMatcher       AgentName = "job_matcher"
	ContentGenerator AgentName = "content_generator"
	CareerCounselor  AgentName = "career_counselor"
)

// AgentNames lists the agents in routing precedence.
var AgentNames = []AgentName{ProfileAnalyzer, JobMatcher, ContentGenerator, CareerCounselor}

// ParseAgentName returns the first agent name contained in text, checked in
// AgentNames order. Anything else falls back to CareerCounselor.
func ParseAgentName(text string) AgentName {
	lower := strings.ToLower(text)
	for _, name := range AgentNames {
		if strings.Contains(lower, string(name)) {
			return name
		}
	}
	return CareerCounselor
}

// Router asks the model which agent should answer a query.
type Router struct {
	model     ai.Model
	logger    *zap.Logger
	maxLogLen int
}

func NewRouter(model ai.Model, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{model: model, logger: logger, maxLogLen: 200}
}

// Route classifies query. Model errors are returned as is and never retried.
func (r *Router) Route(ctx context.Context, query, contextSummary string) (AgentName, error) {
	prompt, err := prompts.Render(prompts.Router, prompts.Vars{
		"QUERY":   query,
		"CONTEXT": prompts.OrDefault(contextSummary, "No context available yet."),
	})
	if err != nil {
		return "", err
	}

	raw, err := r.model.Invoke(ctx, ai.Request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("route query: %w", err)
	}

	name := ParseAgentName(strings.TrimSpace(raw))
	r.logger.Debug("query routed",
		zap.String("query", utils.TruncateForLog(query, r.maxLogLen)),
		zap.String("response", utils.TruncateForLog(raw, r.maxLogLen)),
		zap.String("agent", string(name)),
	)

	return name, nil
}
