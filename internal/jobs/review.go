// Package jobs runs review-and-merge submissions and records their outcome.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/storage"
)

// Pipeline runs one submission end to end.
type Pipeline interface {
	Run(ctx context.Context, sub *core.Submission) (*core.Report, error)
}

// ReviewJob runs the pipeline for a submission and persists the result.
type ReviewJob struct {
	pipeline Pipeline
	store    storage.Store
	logger   *slog.Logger
}

// NewReviewJob creates a new ReviewJob.
func NewReviewJob(pipeline Pipeline, store storage.Store, logger *slog.Logger) *ReviewJob {
	if pipeline == nil {
		panic("pipeline cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{pipeline: pipeline, store: store, logger: logger}
}

// Run executes the review job for a submission. Invalid submissions are
// rejected without being stored. Runs that abort before producing a report
// are stored as Failed with the error as feedback, and the error is returned.
func (j *ReviewJob) Run(ctx context.Context, sub *core.Submission) (*core.Report, error) {
	if err := ValidateSubmission(sub); err != nil {
		j.logger.Warn("submission rejected", "error", err)
		return nil, fmt.Errorf("input validation failed: %w", err)
	}

	j.logger.Info("starting review job", "repo_url", sub.RepoURL, "pr_link", sub.PRLink)

	report, err := j.pipeline.Run(ctx, sub)
	if err != nil {
		j.logger.Error("review job aborted", "pr_link", sub.PRLink, "error", err)
		if errors.Is(err, core.ErrValidation) {
			return nil, err
		}
		if _, saveErr := j.store.UpsertReview(ctx, sub.RepoURL, sub.PRLink, core.StatusFailed, err.Error()); saveErr != nil {
			j.logger.Error("failed to save review record", "pr_link", sub.PRLink, "error", saveErr)
		}
		return nil, err
	}

	rec, err := j.store.UpsertReview(ctx, sub.RepoURL, sub.PRLink, report.Status, report.FeedbackText())
	if err != nil {
		return report, fmt.Errorf("failed to save review record: %w", err)
	}
	report.RecordID = rec.ID

	j.logger.Info("review job completed", "pr_link", sub.PRLink, "status", report.Status, "record_id", rec.ID)
	return report, nil
}
