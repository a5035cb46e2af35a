// Package merge makes automatic merges reversible and pinned: it creates a
// backup branch at the reviewed head, brings the PR branch up to date with its
// base, re-checks mergeability and performs a single pinned merge call.
package merge

import (
	"context"
	"log/slog"
	"time"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/github"
)

// Sleeper waits between mergeability polls. Implementations must return early
// with the context's error when it is cancelled.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configures backup naming, sync polling and the merge method.
type Options struct {
	BackupPrefix string
	Method       core.MergeMethod
	GracePeriod  time.Duration
	PollAttempts int
	Backoff      float64

	// Now and Sleeper default to the wall clock when nil.
	Now     func() time.Time
	Sleeper Sleeper
}

// Target identifies the pull request being merged. PR is the snapshot the
// review ran against; its HeadSHA is the reviewed commit.
type Target struct {
	Owner string
	Repo  string
	PR    *core.PullRequest
}

// Orchestrator performs the mutating stages of one pipeline run.
type Orchestrator struct {
	client github.Client
	opts   Options
	logger *slog.Logger
}

// New returns an Orchestrator bound to one provider client.
func New(client github.Client, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleeper == nil {
		opts.Sleeper = realSleeper{}
	}
	if opts.PollAttempts < 1 {
		opts.PollAttempts = 1
	}
	if opts.Backoff < 1 {
		opts.Backoff = 1
	}
	if opts.Method == "" {
		opts.Method = core.MergeMethodSquash
	}
	return &Orchestrator{client: client, opts: opts, logger: logger}
}
