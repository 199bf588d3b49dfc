package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/agents"
	"github.com/spigell/profile-advisor/internal/ai/gemini"
	"github.com/spigell/profile-advisor/internal/apify"
	"github.com/spigell/profile-advisor/internal/filtering"
	"github.com/spigell/profile-advisor/internal/headhunter"
	"github.com/spigell/profile-advisor/internal/jobs"
	"github.com/spigell/profile-advisor/internal/logger"
	"github.com/spigell/profile-advisor/internal/orchestrator"
	"github.com/spigell/profile-advisor/internal/profile"
	"github.com/spigell/profile-advisor/internal/secrets"
	"github.com/spigell/profile-advisor/internal/session"
)

// advisor holds everything a command needs for one session.
type advisor struct {
	config       *Config
	logger       *zap.Logger
	store        *session.Store
	orchestrator *orchestrator.Orchestrator
}

// newAdvisor builds the logger, config and session. The model and the agents
// are only wired when withModel is set.
func newAdvisor(ctx context.Context, withModel bool) (*advisor, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	id := sessionID(viper.GetString("session"), viper.GetBool("new-session"))
	store, err := session.Open(config.SessionDir, id, log)
	if err != nil {
		return nil, err
	}
	log.Info("using session", zap.String("session_id", id), zap.String("path", store.Path()))

	a := &advisor{
		config: config,
		logger: logger.WithSession(log, store.ID()),
		store:  store,
	}

	if withModel {
		if a.orchestrator, err = a.newOrchestrator(ctx); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// sessionID picks the session to open. A blank id or fresh asks for a new random one.
func sessionID(requested string, fresh bool) string {
	requested = strings.TrimSpace(requested)
	if fresh || requested == "" {
		return session.NewID()
	}
	return requested
}

func (a *advisor) newOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	cfg := a.config.AI
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GEMINI_API_KEY or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:        cfg.Gemini.Model,
		Temperature:  cfg.Gemini.Temperature,
		MaxRetries:   cfg.Gemini.MaxRetries,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	log := logger.WithCommonFields(a.logger, "gemini", generator.Model())

	resolver := jobs.NewResolver(a.newSearcher(), log)
	set := orchestrator.NewAgents(agents.Deps{
		Model:        generator,
		Logger:       log,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, resolver)

	return orchestrator.New(orchestrator.NewRouter(generator, log), set, a.store, log)
}

// newSearcher wires the hh.ru client used for online job descriptions.
func (a *advisor) newSearcher() jobs.Searcher {
	cfg := a.config.Jobs

	token, err := secrets.Load(secrets.Source{Name: "headhunter token", File: cfg.TokenFile})
	if err != nil && !errors.Is(err, secrets.ErrNotConfigured) {
		a.logger.Warn("ignoring headhunter token", zap.Error(err))
	}

	hh := headhunter.New(a.logger, token)
	if cfg.UserAgent != "" {
		hh.UserAgent = cfg.UserAgent
	}

	filters := &filtering.Config{}
	if cfg.Exclude != nil {
		filters.Employers = cfg.Exclude.Employers
	}

	searcher := jobs.NewHeadhunterSearcher(hh, filters, cfg.Areas, a.logger)
	for name, reason := range cfg.DisableFilters {
		searcher.Disable(name, reason)
	}
	for _, status := range searcher.Filters() {
		a.logger.Debug("vacancy filter",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return searcher
}

// loadProfile fetches a profile from a LinkedIn URL or a saved JSON file and
// stores it in the session.
func (a *advisor) loadProfile(ctx context.Context, id string) (*profile.Profile, error) {
	id = strings.TrimSpace(id)

	var source profile.Source = profile.FileSource{}
	if apify.IsProfileURL(id) {
		cfg := a.config.Apify
		token, err := secrets.Load(secrets.Source{
			Name:  "apify token",
			File:  cfg.TokenFile,
			Value: cfg.Token,
			Env:   "APIFY_API_TOKEN",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set APIFY_API_TOKEN or APIFY_TOKEN_FILE)", err)
		}

		client := apify.New(a.logger, token)
		if cfg.ActorID != "" {
			client.ActorID = cfg.ActorID
		}
		source = client
	}

	p, err := source.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.store.SetProfile(ctx, p); err != nil {
		return nil, err
	}

	a.logger.Info("profile loaded",
		zap.String("name", p.FullName),
		zap.Int("positions", len(p.Experience)),
		zap.Int("skills", len(p.Skills)),
	)

	return p, nil
}

// ask sends one query through the orchestrator and prints the answer.
func (a *advisor) ask(ctx context.Context, req orchestrator.Request) error {
	if !req.SearchOnline {
		req.SearchOnline = a.config.Jobs.SearchOnline
	}

	state, err := a.orchestrator.Handle(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n\n", state.Output)
	return nil
}
