package jobs

import (
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/gitutil"
)

// ValidateSubmission checks a submission before it is queued or run. When the
// PR link is a full pull request URL it must point into the submitted
// repository.
func ValidateSubmission(sub *core.Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: submission cannot be nil", core.ErrValidation)
	}
	if strings.TrimSpace(sub.RepoURL) == "" {
		return fmt.Errorf("%w: repository URL cannot be empty", core.ErrValidation)
	}
	if strings.TrimSpace(sub.PRLink) == "" {
		return fmt.Errorf("%w: pull request link cannot be empty", core.ErrValidation)
	}

	owner, repo, err := gitutil.ParseRepositoryURL(sub.RepoURL)
	if err != nil {
		return err
	}
	if _, err := gitutil.ParsePullRequestNumber(sub.PRLink); err != nil {
		return err
	}

	prOwner, prRepo, _, err := gitutil.ParsePullRequestURL(sub.PRLink)
	if err != nil {
		// Bare PR links only need a numeric final segment.
		return nil
	}
	if !strings.EqualFold(owner, prOwner) || !strings.EqualFold(repo, prRepo) {
		return fmt.Errorf("%w: pull request %s does not belong to %s/%s", core.ErrValidation, sub.PRLink, owner, repo)
	}
	return nil
}
