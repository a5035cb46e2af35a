package merge

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sevigo/merge-warden/internal/core"
)

// SyncResult is the state of the PR after the branch update settled.
type SyncResult struct {
	Outcome core.SyncOutcome
	// HeadSHA is the commit the merge must be pinned to.
	HeadSHA string
	// Mergeable is the last observed mergeability; nil if never computed.
	Mergeable *bool
	Attempts  int
	Notes     []string
}

// Sync updates the PR branch from its base and polls until mergeability is
// known. A PR that turns out to be conflicting yields core.ErrMergeConflict.
// When the update produced a new head commit, the merge is pinned to it only
// if that commit's parents include the reviewed SHA.
func (o *Orchestrator) Sync(ctx context.Context, t Target) (SyncResult, error) {
	reviewed := t.PR.HeadSHA
	res := SyncResult{HeadSHA: reviewed}

	outcome, err := o.client.UpdateBranch(ctx, t.Owner, t.Repo, t.PR.Number, reviewed)
	if err != nil {
		return res, fmt.Errorf("branch update failed: %w", err)
	}
	res.Outcome = outcome
	o.logger.Info("branch sync requested", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "outcome", outcome)

	pr, err := o.poll(ctx, t, outcome, &res)
	if err != nil {
		return res, err
	}
	res.Mergeable = pr.Mergeable

	if pr.HasConflicts() {
		return res, fmt.Errorf("%w: PR is not mergeable after sync", core.ErrMergeConflict)
	}
	if pr.Mergeable == nil {
		res.Notes = append(res.Notes, fmt.Sprintf("Mergeability still unknown after %d checks, proceeding", res.Attempts))
	}

	if pr.HeadSHA == reviewed || pr.HeadSHA == "" {
		if outcome == core.SyncUpdated {
			res.Notes = append(res.Notes, "Branch update has not produced a new head yet, merging the reviewed commit")
		}
		return res, nil
	}

	parents, err := o.client.GetCommitParents(ctx, t.Owner, t.Repo, pr.HeadSHA)
	if err != nil {
		return res, fmt.Errorf("failed to inspect new head %s: %w", pr.HeadSHA, err)
	}
	if !slices.Contains(parents, reviewed) {
		return res, fmt.Errorf("%w: head moved to %s which does not build on reviewed commit %s", core.ErrMergeFailed, pr.HeadSHA, reviewed)
	}

	res.HeadSHA = pr.HeadSHA
	res.Notes = append(res.Notes, fmt.Sprintf("Branch updated from base, new head %s", pr.HeadSHA))
	return res, nil
}

// poll re-fetches the PR with a growing delay. It stops as soon as
// mergeability is known and, after an update, the new head is visible.
func (o *Orchestrator) poll(ctx context.Context, t Target, outcome core.SyncOutcome, res *SyncResult) (*core.PullRequest, error) {
	delay := o.opts.GracePeriod
	var pr *core.PullRequest

	for attempt := 1; attempt <= o.opts.PollAttempts; attempt++ {
		if err := o.opts.Sleeper.Sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("sync wait interrupted: %w", err)
		}
		delay = time.Duration(float64(delay) * o.opts.Backoff)

		current, err := o.client.GetPullRequest(ctx, t.Owner, t.Repo, t.PR.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to re-fetch PR after sync: %w", err)
		}
		pr = current
		res.Attempts = attempt

		headSettled := outcome == core.SyncUpToDate || pr.HeadSHA != t.PR.HeadSHA
		if pr.Mergeable != nil && headSettled {
			break
		}
		o.logger.Debug("waiting for mergeability", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "attempt", attempt)
	}
	return pr, nil
}
