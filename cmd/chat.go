package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/jobs"
	"github.com/spigell/profile-advisor/internal/orchestrator"
)

const (
	PromptAsk            = "Ask a question"
	PromptLoadProfile    = "Load profile"
	PromptSetRole        = "Set target role"
	PromptSetGoals       = "Set career goals"
	PromptSetJob         = "Set job description"
	PromptAnalyze        = "Analyze my profile"
	PromptMatch          = "Match profile to target role"
	PromptHeadline       = "Rewrite my headline"
	PromptPlan           = "Suggestions for all sections"
	PromptClear          = "Clear session"
	PromptExit           = "Exit"
	quickAnalyzeQuery    = "Analyze my profile"
	quickMatchQuery      = "How well does my profile match the target job?"
	quickHeadlineQuery   = "Rewrite my headline"
	quickPlanQuery       = "Give me suggestions for all sections of my profile"
	defaultChatSelection = 0
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptAsk, PromptLoadProfile, PromptSetRole, PromptSetGoals, PromptSetJob,
		PromptAnalyze, PromptMatch, PromptHeadline, PromptPlan, PromptClear, PromptExit,
	},
	Size:      11,
	CursorPos: defaultChatSelection,
}

var quickQueries = map[string]string{
	PromptAnalyze:  quickAnalyzeQuery,
	PromptMatch:    quickMatchQuery,
	PromptHeadline: quickHeadlineQuery,
	PromptPlan:     quickPlanQuery,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisor session",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("online", false, "search hh.ru for job descriptions when none is set")
	chatCmd.Flags().String("location", "", "preferred job location")
}

// chat is the interactive loop. Failed queries are reported and the loop goes on.
func chat(cmd *cobra.Command) {
	ctx := context.Background()

	a, err := newAdvisor(ctx, true)
	if err != nil {
		log.Fatal(err)
	}

	online, _ := cmd.Flags().GetBool("online")
	location, _ := cmd.Flags().GetString("location")

	snapshot := a.store.Snapshot()
	a.logger.Info("starting the profile-advisor",
		zap.String("version", version),
		zap.String("session_file", a.store.Path()),
		zap.Int("messages", len(snapshot.History)),
		zap.Int("analyses", len(snapshot.Analyses)),
	)
	fmt.Println(a.store.ContextSummary())

	for {
		_, action, err := menu.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			a.logger.Fatal("exiting", zap.Error(err))
		}

		err = handleAction(ctx, a, action, orchestrator.Request{Location: location, SearchOnline: online})
		switch {
		case errors.Is(err, errExit):
			return
		case errors.Is(err, promptui.ErrInterrupt):
			continue
		case err != nil:
			a.logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, a *advisor, action string, req orchestrator.Request) error {
	if query, ok := quickQueries[action]; ok {
		req.Query = query
		return a.ask(ctx, req)
	}

	switch action {
	case PromptAsk:
		query, err := input("Your question", true)
		if err != nil {
			return err
		}
		req.Query = query
		return a.ask(ctx, req)
	case PromptLoadProfile:
		id, err := input("LinkedIn URL or profile JSON file", true)
		if err != nil {
			return err
		}
		p, err := a.loadProfile(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %s (%s)\n", p.FullName, p.Headline)
		return nil
	case PromptSetRole:
		role, err := input(fmt.Sprintf("Target role (e.g. %s)", strings.Join(jobs.Roles(), ", ")), true)
		if err != nil {
			return err
		}
		return a.store.SetTargetRole(ctx, role)
	case PromptSetGoals:
		goals, err := input("Career goals", true)
		if err != nil {
			return err
		}
		return a.store.SetCareerGoals(ctx, goals)
	case PromptSetJob:
		value, err := input("Job description file, or the text itself (empty to unset)", false)
		if err != nil {
			return err
		}
		return a.store.SetJobDescription(ctx, jobText(value))
	case PromptClear:
		if err := a.store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Session cleared.")
		return nil
	case PromptExit:
		a.logger.Info("exiting", zap.String("reason", "exit selected"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// jobText reads value as a file when one exists at that path.
func jobText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if data, err := os.ReadFile(value); err == nil {
		return string(data)
	}
	return value
}

func input(label string, required bool) (string, error) {
	p := promptui.Prompt{Label: label}
	if required {
		p.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value is required")
			}
			return nil
		}
	}

	value, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
