package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/github"
)

// Outcome is the result of the merge call.
type Outcome struct {
	Status core.Status
	Result *core.MergeResult
	// Err is nil only when Status is Merged.
	Err   error
	Notes []string
}

// Merge performs exactly one merge call pinned to headSHA. On success the
// backup branch is deleted if this run created it; on failure it is kept.
func (o *Orchestrator) Merge(ctx context.Context, t Target, headSHA string, backup core.BackupReference, ai core.AIReviewResult) Outcome {
	req := core.MergeRequest{
		SHA:           headSHA,
		Method:        o.opts.Method,
		CommitTitle:   fmt.Sprintf("%s (#%d)", t.PR.Title, t.PR.Number),
		CommitMessage: commitMessage(ai),
	}

	res, err := o.client.Merge(ctx, t.Owner, t.Repo, t.PR.Number, req)
	if err != nil {
		msg := github.ProviderMessage(err)
		status := ClassifyFailure(msg)
		o.logger.Warn("merge rejected by provider", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "status", status, "error", err)
		return Outcome{
			Status: status,
			Err:    fmt.Errorf("%w: %w", core.ErrMergeFailed, err),
			Notes:  []string{"Merge failed: " + msg},
		}
	}
	if !res.Merged {
		return Outcome{
			Status: core.StatusFailed,
			Result: res,
			Err:    fmt.Errorf("%w: %s", core.ErrMergeFailed, res.Message),
			Notes:  []string{"Merge not performed: " + res.Message},
		}
	}

	out := Outcome{
		Status: core.StatusMerged,
		Result: res,
		Notes:  []string{fmt.Sprintf("Merged with %s as %s", req.Method, res.SHA)},
	}

	if backup.Created {
		if err := o.client.DeleteRef(ctx, t.Owner, t.Repo, backup.Name); err != nil {
			o.logger.Warn("failed to delete backup branch", "repo", t.Owner+"/"+t.Repo, "name", backup.Name, "error", err)
			out.Notes = append(out.Notes, fmt.Sprintf("Backup branch %s could not be deleted: %s", backup.Name, github.ProviderMessage(err)))
		} else {
			out.Notes = append(out.Notes, fmt.Sprintf("Backup branch %s deleted", backup.Name))
		}
	}
	return out
}

// ClassifyFailure maps the provider's merge error text to a final status.
func ClassifyFailure(message string) core.Status {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "status check"):
		return core.StatusPending
	case strings.Contains(lower, "review") && (strings.Contains(lower, "required") || strings.Contains(lower, "approv")):
		return core.StatusReviewNeeded
	default:
		return core.StatusFailed
	}
}

func commitMessage(ai core.AIReviewResult) string {
	verdict := "do not merge"
	if ai.Approved {
		verdict = "merge"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Merged by merge-warden.\n\nAI review (%s): quality %.1f/10, recommendation: %s.", ai.Source, ai.QualityScore, verdict)
	if n := len(ai.SecurityIssues); n > 0 {
		fmt.Fprintf(&sb, "\nSecurity notes: %d.", n)
	}
	return sb.String()
}
