package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/merge-warden/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Shows the stored outcome and feedback of one review",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseRecordID(args[0])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			rec, err := a.Store.GetReview(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to retrieve review: %w", err)
			}

			if outputJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(rec)
			}

			printRecord(os.Stdout, rec)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Deletes a review from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseRecordID(args[0])
		if err != nil {
			return err
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			if err := a.Store.DeleteReview(ctx, id); err != nil {
				return fmt.Errorf("failed to delete review: %w", err)
			}
			successColor.Printf("Review %d deleted.\n", id)
			return nil
		})
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
}
