package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sevigo/merge-warden/internal/app"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/github"
	"github.com/sevigo/merge-warden/internal/server/handler"
)

var reviewCmd = &cobra.Command{
	Use:   "review [repo-url] [pr-url]",
	Short: "Review a pull request and merge it if it passes the gate",
	Long: `Review a pull request and merge it if it passes the gate.

The review command analyses the changed files, asks the configured AI backends
for a verdict, applies the merge gate and, when allowed, backs up the head
commit, syncs the branch with its base and merges.

Examples:
  merge-warden review https://github.com/owner/repo https://github.com/owner/repo/pull/123
  merge-warden review --json https://github.com/owner/repo https://github.com/owner/repo/pull/123
  merge-warden review --markdown https://github.com/owner/repo https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			return runReview(ctx, a, args[0], args[1])
		})
	},
}

var showMarkdown bool

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Render the report as it is posted on the pull request")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(ctx context.Context, a *app.App, repoURL, prURL string) error {
	if !outputJSON {
		fmt.Println(banner("Merge Warden - PR Review", "Target: "+prURL))
		fmt.Println()
	}

	report, err := a.ReviewJob.Run(ctx, &core.Submission{
		RepoURL:     repoURL,
		PRLink:      prURL,
		RequestedBy: "cli",
	})
	if report == nil {
		return fmt.Errorf("review failed: %w", err)
	}
	if err != nil {
		warnColor.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if outputJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(handler.NewRunResponse(report))
	}

	if showMarkdown {
		return renderMarkdown(report)
	}
	printReport(os.Stdout, report)
	return nil
}

func renderMarkdown(report *core.Report) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(github.FormatReport(report))
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Print(out)
	return nil
}
