package cmd

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/profile-advisor/internal/orchestrator"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a single question about the loaded profile",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ask(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringP("role", "r", "", "target job role to store in the session")
	askCmd.Flags().String("job-file", "", "file with a job description to match against")
	askCmd.Flags().Bool("online", false, "search hh.ru for a job description when none is given")
	askCmd.Flags().String("location", "", "preferred job location")
}

func ask(cmd *cobra.Command, query string) {
	ctx := context.Background()

	a, err := newAdvisor(ctx, true)
	if err != nil {
		log.Fatal(err)
	}

	if role, _ := cmd.Flags().GetString("role"); role != "" {
		if err := a.store.SetTargetRole(ctx, role); err != nil {
			a.logger.Fatal("saving target role", zap.Error(err))
		}
	}

	if file, _ := cmd.Flags().GetString("job-file"); file != "" {
		text, err := os.ReadFile(file)
		if err != nil {
			a.logger.Fatal("reading job description", zap.Error(err))
		}
		if err := a.store.SetJobDescription(ctx, string(text)); err != nil {
			a.logger.Fatal("saving job description", zap.Error(err))
		}
	}

	online, _ := cmd.Flags().GetBool("online")
	location, _ := cmd.Flags().GetString("location")

	if err := a.ask(ctx, orchestrator.Request{Query: query, Location: location, SearchOnline: online}); err != nil {
		a.logger.Fatal("answering the query", zap.Error(err))
	}
}
