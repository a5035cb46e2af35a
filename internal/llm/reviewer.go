// Package llm implements the AI review adapter: it renders a review prompt,
// asks each configured model backend in order, and falls back to a
// deterministic scorer when none of them produces a usable reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/diff"
)

var errNoSections = errors.New("reply contains no recognized section markers")

// Reviewer is the AI review adapter. Review has no error outcome.
type Reviewer interface {
	Review(ctx context.Context, req core.ReviewRequest) core.AIReviewResult
}

// Options tunes the adapter.
type Options struct {
	Timeout      time.Duration
	MaxDiffBytes int
}

type reviewer struct {
	backends []Backend
	prompts  *PromptManager
	analyzer *analysis.Analyzer
	opts     Options
	logger   *slog.Logger
}

// NewReviewer returns an adapter that tries backends in the given order.
func NewReviewer(backends []Backend, prompts *PromptManager, analyzer *analysis.Analyzer, opts Options, logger *slog.Logger) Reviewer {
	return &reviewer{
		backends: backends,
		prompts:  prompts,
		analyzer: analyzer,
		opts:     opts,
		logger:   logger,
	}
}

type promptData struct {
	Title       string
	Author      string
	Components  []string
	Files       []core.FileChange
	Diff        string
	Truncated   bool
	BaseContext string
}

func (r *reviewer) Review(ctx context.Context, req core.ReviewRequest) core.AIReviewResult {
	excerpt := diff.Build(req.Diff, req.Files, r.opts.MaxDiffBytes)
	data := promptData{
		Title:       req.Title,
		Author:      req.Author,
		Components:  req.Components,
		Files:       req.Files,
		Diff:        excerpt.Text,
		Truncated:   excerpt.Truncated,
		BaseContext: req.BaseContext,
	}

	for _, b := range r.backends {
		result, err := r.tryBackend(ctx, b, data, req.Files)
		if err != nil {
			r.logger.Warn("AI backend did not produce a usable review", "backend", b.Name, "error", err)
			continue
		}
		r.logger.Info("AI review completed", "backend", b.Name, "score", result.QualityScore, "approved", result.Approved)
		return result
	}

	r.logger.Warn("using fallback scorer", "error", fmt.Errorf("%w: %d backends tried", core.ErrAIUnavailable, len(r.backends)))
	return Fallback(req.Files, r.analyzer)
}

func (r *reviewer) tryBackend(ctx context.Context, b Backend, data promptData, files []core.FileChange) (core.AIReviewResult, error) {
	prompt, err := r.prompts.Render(CodeReviewPrompt, data)
	if err != nil {
		return core.AIReviewResult{}, fmt.Errorf("could not render prompt: %w", err)
	}

	reply, err := generateWithTimeout(ctx, b.Generator, prompt, r.opts.Timeout)
	if err != nil {
		return core.AIReviewResult{}, err
	}

	sections := parseSections(reply)
	if sections.Markers == 0 {
		return core.AIReviewResult{}, errNoSections
	}

	result := scoreReply(sections, files)
	result.Source = b.Name
	return result, nil
}

// generateWithTimeout wraps generation with a hard timeout. A backend that
// ignores cancellation is abandoned rather than waited on.
func generateWithTimeout(ctx context.Context, gen TextGenerator, prompt string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := gen.Generate(ctx, prompt)
		resultCh <- result{resp, err}
	}()

	select {
	case res := <-resultCh:
		return res.resp, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
