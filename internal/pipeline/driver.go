// Package pipeline sequences one review-and-merge run for a pull request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/gate"
	"github.com/sevigo/merge-warden/internal/github"
	"github.com/sevigo/merge-warden/internal/gitutil"
	"github.com/sevigo/merge-warden/internal/llm"
	"github.com/sevigo/merge-warden/internal/merge"
)

const (
	staleAge         = 30 * 24 * time.Hour
	largeFileCount   = 200
	veryLargeFiles   = 500
	briefDescription = 20
	shortSHALen      = 7
)

// Options configures a Driver.
type Options struct {
	Merge      merge.Options
	PostReport bool
	// BaseContextBytes bounds the base branch files sent with the AI review;
	// 0 skips the fetch.
	BaseContextBytes int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Driver runs the pipeline: lookup, preflight, advisory facts, risk analysis,
// AI review, gate, backup, sync and merge. It is not concerned with
// persistence; the returned Report is what callers store.
type Driver struct {
	clients   github.ClientFactory
	analyzer  *analysis.Analyzer
	reviewer  llm.Reviewer
	gate      *gate.Evaluator
	publisher github.ReportPublisher
	opts      Options
	logger    *slog.Logger
}

// NewDriver wires the pipeline stages together.
func NewDriver(
	clients github.ClientFactory,
	analyzer *analysis.Analyzer,
	reviewer llm.Reviewer,
	evaluator *gate.Evaluator,
	publisher github.ReportPublisher,
	opts Options,
	logger *slog.Logger,
) *Driver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		clients:   clients,
		analyzer:  analyzer,
		reviewer:  reviewer,
		gate:      evaluator,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// run holds the state of a single pipeline execution.
type run struct {
	client github.Client
	target merge.Target
	repo   *core.Repository
	report *core.Report
	log    core.FeedbackLog
	logger *slog.Logger
}

// Run executes the pipeline for one submission. Validation, lookup and
// rate-limit failures are returned as errors before any side effect; every
// later outcome is a Report with exactly one status.
func (d *Driver) Run(ctx context.Context, sub *core.Submission) (*core.Report, error) {
	owner, repoName, err := gitutil.ParseRepositoryURL(sub.RepoURL)
	if err != nil {
		return nil, err
	}
	number, err := gitutil.ParsePullRequestNumber(sub.PRLink)
	if err != nil {
		return nil, err
	}

	logger := d.logger.With("repo", owner+"/"+repoName, "pr", number)

	client, err := d.clients.ForInstallation(ctx, sub.InstallationID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	repo, err := client.GetRepository(ctx, owner, repoName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository %s/%s: %w", owner, repoName, err)
	}
	pr, err := client.GetPullRequest(ctx, owner, repoName, number)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pull request #%d: %w", number, err)
	}

	r := &run{
		client: client,
		target: merge.Target{Owner: owner, Repo: repoName, PR: pr},
		repo:   repo,
		logger: logger,
		report: &core.Report{
			RepoURL:   sub.RepoURL,
			PRLink:    sub.PRLink,
			Owner:     owner,
			Repo:      repoName,
			Number:    number,
			HeadSHA:   pr.HeadSHA,
			StartedAt: d.opts.Now(),
		},
	}
	logger.Info("pipeline started", "head", pr.HeadSHA, "requested_by", sub.RequestedBy)

	if err := d.execute(ctx, r); err != nil {
		return nil, err
	}

	r.report.Feedback = r.log.Entries()
	r.report.CompletedAt = d.opts.Now()
	logger.Info("pipeline finished", "status", r.report.Status, "duration", r.report.CompletedAt.Sub(r.report.StartedAt))

	if d.opts.PostReport {
		if err := d.publisher.Publish(ctx, client, r.report); err != nil {
			logger.Warn("failed to post report comment", "error", err)
		}
	}
	return r.report, nil
}

func (d *Driver) execute(ctx context.Context, r *run) error {
	pr := r.target.PR

	if decision, terminal := gate.Preflight(pr); terminal {
		r.log.Append(decision.Reasons...)
		r.report.Decision = &decision
		finishTerminal(r, decision.Status)
		return nil
	}

	files, err := r.client.ListFiles(ctx, r.target.Owner, r.target.Repo, pr.Number)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	reviews, ci, protection := d.collectFacts(ctx, r, files)

	risk := d.analyzer.Assess(files)
	r.report.Risk = &risk
	recordRisk(&r.log, risk)

	rawDiff, err := r.client.GetPullRequestDiff(ctx, r.target.Owner, r.target.Repo, pr.Number)
	if err != nil {
		r.logger.Warn("diff unavailable, using per-file patches", "error", err)
	}
	baseContext := fetchBaseContext(ctx, r.client, r.target.Owner, r.target.Repo, baseBranch(r), files, d.opts.BaseContextBytes)
	for _, e := range baseContext.Errors {
		r.log.Add("Warning: %s", e)
	}
	ai := d.reviewer.Review(ctx, core.ReviewRequest{
		Title:       pr.Title,
		Author:      pr.Author,
		Components:  risk.AffectedComponents,
		Files:       files,
		Diff:        rawDiff,
		BaseContext: baseContext.Text,
	})
	r.report.AI = &ai
	recordAI(&r.log, ai)

	decision := d.gate.Evaluate(gate.Input{PR: pr, CI: ci, Reviews: reviews, Risk: risk, AI: ai, Protection: protection})
	r.report.Decision = &decision
	for _, note := range decision.Advisories {
		r.log.Add("Advisory: %s", note)
	}
	if !decision.Allowed {
		for _, reason := range decision.Reasons {
			r.log.Add("Blocked: %s", reason)
		}
		r.log.Add("PR rejected based on review results")
		r.report.Status = core.StatusRejected
		r.report.Err = fmt.Errorf("%w: %s", core.ErrMergeRejected, strings.Join(decision.Reasons, "; "))
		return nil
	}
	r.log.Add("Merge gate passed")

	d.mergeStages(ctx, r, ai)
	return nil
}

// mergeStages runs backup, sync and merge. It always leaves a final status.
func (d *Driver) mergeStages(ctx context.Context, r *run, ai core.AIReviewResult) {
	orch := merge.New(r.client, d.opts.Merge, r.logger)

	backup, err := orch.Backup(ctx, r.target)
	if err != nil {
		r.log.Add("Backup failed, merge not attempted: %s", github.ProviderMessage(err))
		fail(r, core.StatusFailed, fmt.Errorf("%w: %w", core.ErrMergeFailed, err))
		return
	}
	r.report.Backup = &backup
	if backup.Created {
		r.log.Add("Backup branch %s created at %s", backup.Name, short(backup.SHA))
	} else {
		r.log.Add("Warning: every backup name was taken; using %s as a label only", backup.Name)
	}

	synced, err := orch.Sync(ctx, r.target)
	r.log.Append(synced.Notes...)
	if err != nil {
		if errors.Is(err, core.ErrMergeConflict) {
			r.log.Add("PR has conflicts after syncing with %s; backup %s kept", r.target.PR.BaseRef, backup.Name)
			fail(r, core.StatusConflict, err)
			return
		}
		r.log.Add("Branch sync failed: %s; backup %s kept", github.ProviderMessage(err), backup.Name)
		if !errors.Is(err, core.ErrMergeFailed) {
			err = fmt.Errorf("%w: %w", core.ErrMergeFailed, err)
		}
		fail(r, core.StatusFailed, err)
		return
	}
	if synced.Outcome == core.SyncUpToDate {
		r.log.Add("Branch is up to date with %s", r.target.PR.BaseRef)
	}

	out := orch.Merge(ctx, r.target, synced.HeadSHA, backup, ai)
	r.log.Append(out.Notes...)
	r.report.HeadSHA = synced.HeadSHA
	r.report.Status = out.Status
	r.report.Err = out.Err
}

// collectFacts records the advisory observations about the PR. Fetch failures
// for optional data are noted and the run continues.
func (d *Driver) collectFacts(ctx context.Context, r *run, files []core.FileChange) ([]core.ReviewVerdict, core.CIStatus, core.BranchProtection) {
	pr := r.target.PR
	now := d.opts.Now()

	if !pr.CreatedAt.IsZero() && now.Sub(pr.CreatedAt) > staleAge {
		r.log.Add("PR is over 30 days old, consider updating with latest changes")
	}

	switch n := len(files); {
	case n > veryLargeFiles:
		r.log.Add("Very large PR: %d files changed, consider breaking it down", n)
	case n > largeFileCount:
		r.log.Add("Large PR: %d files changed, might need more thorough review", n)
	}

	switch words := len(strings.Fields(pr.Body)); {
	case words == 0:
		r.log.Add("Missing PR description")
	case words < briefDescription:
		r.log.Add("PR description is brief, consider adding more details")
	}

	base := baseBranch(r)
	if cmp, err := r.client.CompareBranches(ctx, r.target.Owner, r.target.Repo, base, pr.HeadSHA); err != nil {
		r.log.Add("Unable to compare branch with %s: %s", base, github.ProviderMessage(err))
	} else if cmp.BehindBy > 0 {
		r.log.Add("Branch is %d commits behind %s", cmp.BehindBy, base)
	}

	var verdicts []core.ReviewVerdict
	if reviews, err := r.client.ListReviews(ctx, r.target.Owner, r.target.Repo, pr.Number); err != nil {
		r.log.Add("Unable to list reviews: %s", github.ProviderMessage(err))
	} else {
		verdicts = core.CollapseReviews(reviews)
		approvals, changes := core.CountReviews(verdicts)
		r.log.Add("Reviews: %d approval(s), %d change request(s)", approvals, changes)
	}

	ci := core.CIStatus{}
	if status, err := r.client.GetCombinedStatus(ctx, r.target.Owner, r.target.Repo, pr.HeadSHA); err != nil {
		r.log.Add("Unable to read CI status: %s", github.ProviderMessage(err))
	} else {
		ci = *status
		switch ci.State {
		case core.CIStateSuccess:
			r.log.Add("CI checks passed")
		case core.CIStatePending:
			r.log.Add("CI checks are still running")
		default:
			r.log.Add("CI checks failed: %s", ci.State)
			for _, c := range ci.FailingChecks() {
				r.log.Add("- %s: %s", c.Name, checkDetail(c))
			}
		}
	}

	var protection core.BranchProtection
	if bp, err := r.client.GetBranchProtection(ctx, r.target.Owner, r.target.Repo, base); err != nil {
		r.log.Add("Unable to check branch protection rules: %s", github.ProviderMessage(err))
	} else if bp.Protected {
		protection = *bp
		r.log.Add("Branch %s has protection rules enabled", base)
	}

	return verdicts, ci, protection
}

// baseBranch is the PR's base ref, or the default branch when the PR does not name one.
func baseBranch(r *run) string {
	if r.target.PR.BaseRef != "" {
		return r.target.PR.BaseRef
	}
	return r.repo.DefaultBranch
}

func recordRisk(log *core.FeedbackLog, risk core.RiskAssessment) {
	log.Add("Impact: %s (complexity %.1f, components: %s)", risk.ImpactLevel, risk.ComplexityScore, strings.Join(risk.AffectedComponents, ", "))
	if len(risk.HighRiskFiles) > 0 {
		log.Add("High-risk files modified: %s", strings.Join(risk.HighRiskFiles, ", "))
	}
	log.Add("Test files: %d (ratio %.2f)", risk.TestFiles, risk.TestRatio)
}

func recordAI(log *core.FeedbackLog, ai core.AIReviewResult) {
	verdict := "do not merge"
	if ai.Approved {
		verdict = "merge"
	}
	log.Add("AI review (%s): quality score %.1f/10, recommendation: %s", ai.Source, ai.QualityScore, verdict)
	for _, f := range ai.Feedback {
		log.Add("AI: %s", f)
	}
	for _, s := range ai.SecurityIssues {
		log.Add("Security: %s", s)
	}
	for _, b := range ai.BreakingChanges {
		log.Add("Breaking: %s", b)
	}
}

func finishTerminal(r *run, status core.Status) {
	r.report.Status = status
	if status != core.StatusMerged {
		r.report.Err = fmt.Errorf("%w: PR is %s", core.ErrMergeRejected, r.target.PR.State)
	}
}

func fail(r *run, status core.Status, err error) {
	r.report.Status = status
	r.report.Err = err
}

func checkDetail(c core.CheckStatus) string {
	if c.Description != "" {
		return c.Description
	}
	return c.State
}

func short(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}
