package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
)

const shortSHALen = 7

// CandidateNames returns the backup branch names to try, from least to most
// unique: PR number with short SHA, the same plus a timestamp, then the full
// SHA plus a timestamp.
func CandidateNames(prefix string, number int, sha string, unix int64) []string {
	prefix = strings.TrimSuffix(prefix, "/")
	short := sha
	if len(short) > shortSHALen {
		short = short[:shortSHALen]
	}
	return []string{
		fmt.Sprintf("%s/pr-%d-%s", prefix, number, short),
		fmt.Sprintf("%s/pr-%d-%s-%d", prefix, number, short, unix),
		fmt.Sprintf("%s/pr-%d-%s-%d", prefix, number, sha, unix),
	}
}

// Backup creates a branch pointing at the reviewed head commit. Names that
// already exist are skipped; when every candidate is taken the most unique
// name is returned with Created=false and no error. Other provider failures
// are returned.
func (o *Orchestrator) Backup(ctx context.Context, t Target) (core.BackupReference, error) {
	sha := t.PR.HeadSHA
	names := CandidateNames(o.opts.BackupPrefix, t.PR.Number, sha, o.opts.Now().Unix())

	for _, name := range names {
		taken, err := o.exists(ctx, t, name)
		if err != nil {
			return core.BackupReference{}, err
		}
		if taken {
			o.logger.Debug("backup name taken", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "name", name)
			continue
		}

		err = o.client.CreateRef(ctx, t.Owner, t.Repo, name, sha)
		switch {
		case err == nil:
			o.logger.Info("backup branch created", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "name", name, "sha", sha)
			return core.BackupReference{Name: name, SHA: sha, Created: true}, nil
		case errors.Is(err, core.ErrAlreadyExists):
			// Lost a race with a concurrent run.
			continue
		default:
			return core.BackupReference{}, fmt.Errorf("failed to create backup branch %s: %w", name, err)
		}
	}

	last := names[len(names)-1]
	o.logger.Warn("all backup names taken", "repo", t.Owner+"/"+t.Repo, "pr", t.PR.Number, "name", last)
	return core.BackupReference{Name: last, SHA: sha, Created: false}, nil
}

func (o *Orchestrator) exists(ctx context.Context, t Target, name string) (bool, error) {
	_, err := o.client.GetRef(ctx, t.Owner, t.Repo, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up backup branch %s: %w", name, err)
	}
}
