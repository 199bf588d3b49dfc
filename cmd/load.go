package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadCmd = &cobra.Command{
	Use:   "load <linkedin-url|file>",
	Short: "Load a profile into the session from LinkedIn or a saved JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		ctx := context.Background()

		a, err := newAdvisor(ctx, false)
		if err != nil {
			log.Fatal(err)
		}

		p, err := a.loadProfile(ctx, args[0])
		if err != nil {
			a.logger.Fatal("loading profile", zap.Error(err))
		}

		fmt.Printf("Loaded %s: %d positions, %d skills (session %s)\n",
			p.FullName, len(p.Experience), len(p.Skills), a.store.ID())
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
