package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sevigo/merge-warden/internal/app"
	"github.com/sevigo/merge-warden/internal/wire"
)

var (
	githubToken string
	outputJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "merge-warden",
	Short: "merge-warden reviews pull requests and merges the ones that pass.",
	Long: `A CLI for Merge Warden. It runs the review-and-merge pipeline for a pull
request and manages the history of past runs.

Configuration is read from config.yaml and MW_ environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if githubToken != "" {
			// Picked up by config.LoadConfig.
			return os.Setenv("MW_GITHUB_TOKEN", githubToken)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (overrides MW_GITHUB_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")
}

// withApp initializes the application services for one command.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx := context.Background()

	a, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app services: %w\n\nTip: Check that your config.yaml exists and the database is reachable", err)
	}
	defer cleanup()

	return fn(ctx, a)
}

func parseRecordID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid review id %q", raw)
	}
	return id, nil
}
