// Package orchestrator runs one query through routing, the chosen agent,
// session persistence and formatting.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/agents"
	"github.com/spigell/profile-advisor/internal/ai"
	"github.com/spigell/profile-advisor/internal/logger"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/session"
)

const historyWindow = 10

// Store is the part of the session the orchestrator reads and appends to.
type Store interface {
	ID() string
	Profile() *profile.Profile
	TargetRole() string
	CareerGoals() string
	JobDescription() string
	History(n int) []ai.Message
	LatestAnalysis(kind string) (session.Analysis, bool)
	ContextSummary() string
	AddMessage(ctx context.Context, role ai.Role, content string) error
	AddAnalysis(ctx context.Context, kind string, result interface{}) error
}

// Request is one user query with per-query job search options.
type Request struct {
	Query        string
	Location     string
	SearchOnline bool
}

// ConversationState records one routing, agent and formatting cycle.
type ConversationState struct {
	Query          string
	Profile        *profile.Profile
	TargetRole     string
	CareerGoals    string
	JobDescription string
	Route          AgentName
	Result         agents.Result
	Output         string
	Messages       []ai.Message
}

type Orchestrator struct {
	mu     sync.Mutex
	router *Router
	agents map[AgentName]agents.Agent
	store  Store
	logger *zap.Logger
}

// New wires the router and agents to a session. Every AgentName must have an agent.
func New(router *Router, set map[AgentName]agents.Agent, store Store, log *zap.Logger) (*Orchestrator, error) {
	if router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	for _, name := range AgentNames {
		if set[name] == nil {
			return nil, fmt.Errorf("no agent registered for %s", name)
		}
	}
	return &Orchestrator{
		router: router,
		agents: set,
		store:  store,
		logger: logger.WithSession(log, store.ID()),
	}, nil
}

// NewAgents builds the standard agent set from shared dependencies.
func NewAgents(deps agents.Deps, resolver agents.JobResolver) map[AgentName]agents.Agent {
	return map[AgentName]agents.Agent{
		ProfileAnalyzer:  agents.NewProfileAnalyzer(deps),
		JobMatcher:       agents.NewJobMatcher(deps, resolver),
		ContentGenerator: agents.NewContentGenerator(deps),
		CareerCounselor:  agents.NewCareerCounselor(deps),
	}
}

// Handle routes the query, runs the agent, stores the result and formats it.
// Only one query is handled at a time.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (*ConversationState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	state := &ConversationState{
		Query:          req.Query,
		Profile:        o.store.Profile(),
		TargetRole:     o.store.TargetRole(),
		CareerGoals:    o.store.CareerGoals(),
		JobDescription: o.store.JobDescription(),
	}
	summary := o.store.ContextSummary()

	route, err := o.router.Route(ctx, req.Query, summary)
	if err != nil {
		return state, err
	}
	state.Route = route

	log := logger.WithAgent(o.logger, string(route))
	log.Info("query routed")

	result, err := o.agents[route].Run(ctx, agents.Input{
		Query:            req.Query,
		Profile:          state.Profile,
		TargetRole:       state.TargetRole,
		CareerGoals:      state.CareerGoals,
		JobDescription:   state.JobDescription,
		Location:         req.Location,
		SearchOnline:     req.SearchOnline,
		SessionContext:   summary,
		History:          o.store.History(historyWindow),
		PreviousAnalysis: o.previousAnalysis(),
	})
	if err != nil {
		return state, fmt.Errorf("%s: %w", route, err)
	}
	state.Result = result
	state.Output = Render(result)

	if failure := result.Failure(); failure != "" {
		log.Warn("agent prerequisites missing", zap.String("reason", failure))
	} else if err := o.store.AddAnalysis(ctx, result.AnalysisType(), result); err != nil {
		return state, err
	}

	for _, m := range []ai.Message{
		{Role: ai.RoleUser, Content: req.Query},
		{Role: ai.RoleAssistant, Content: state.Output},
	} {
		if err := o.store.AddMessage(ctx, m.Role, m.Content); err != nil {
			return state, err
		}
		state.Messages = append(state.Messages, m)
	}

	return state, nil
}

// previousAnalysis is the text of the latest profile review, if any.
func (o *Orchestrator) previousAnalysis() string {
	stored, ok := o.store.LatestAnalysis(agents.TypeProfileAnalysis)
	if !ok {
		return ""
	}

	var analysis agents.AnalysisResult
	if err := stored.Decode(&analysis); err != nil {
		o.logger.Warn("stored profile analysis is unreadable", zap.Error(err))
		return ""
	}
	return analysis.DetailedAnalysis
}
