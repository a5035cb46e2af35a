// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the review and merge logic.
package core

import "time"

// Repository is the subset of repository metadata the pipeline needs.
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
}

// PullRequest is a point-in-time snapshot of a pull request as reported by the provider.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	Author  string
	State   string // "open" or "closed"
	Merged  bool
	Draft   bool
	HeadSHA string
	HeadRef string
	BaseRef string
	// Mergeable is nil while the provider is still computing mergeability.
	Mergeable      *bool
	MergeableState string
	CreatedAt      time.Time
	HTMLURL        string
}

// IsMergeable reports whether the provider has positively confirmed mergeability.
func (p *PullRequest) IsMergeable() bool {
	return p.Mergeable != nil && *p.Mergeable
}

// HasConflicts reports whether the provider has positively reported the PR as unmergeable.
func (p *PullRequest) HasConflicts() bool {
	return p.Mergeable != nil && !*p.Mergeable
}

// FileStatus mirrors the provider's per-file change status.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileRemoved  FileStatus = "removed"
	FileRenamed  FileStatus = "renamed"
)

// BinaryPatch is the placeholder patch text used for files without a textual diff.
const BinaryPatch = "Binary file"

// FileChange is one file touched by the pull request.
type FileChange struct {
	Path      string
	Additions int
	Deletions int
	Changes   int
	Status    FileStatus
	Patch     string
	Binary    bool
}

// Review is a single raw review entry, in provider submission order.
type Review struct {
	Reviewer    string
	State       ReviewState
	SubmittedAt time.Time
}

// ReviewState is the normalized state of a review.
type ReviewState string

const (
	ReviewApproved         ReviewState = "approved"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewCommented        ReviewState = "commented"
	ReviewDismissed        ReviewState = "dismissed"
)

// ReviewVerdict is one reviewer's most recent state.
type ReviewVerdict struct {
	Reviewer string
	State    ReviewState
}

// CollapseReviews keeps only the latest review per reviewer. Reviews must be in
// submission order; later entries win. The result preserves first-seen reviewer order.
func CollapseReviews(reviews []Review) []ReviewVerdict {
	index := make(map[string]int)
	var verdicts []ReviewVerdict
	for _, r := range reviews {
		if i, ok := index[r.Reviewer]; ok {
			verdicts[i].State = r.State
			continue
		}
		index[r.Reviewer] = len(verdicts)
		verdicts = append(verdicts, ReviewVerdict{Reviewer: r.Reviewer, State: r.State})
	}
	return verdicts
}

// CountReviews tallies approvals and change requests across collapsed verdicts.
func CountReviews(verdicts []ReviewVerdict) (approvals, changesRequested int) {
	for _, v := range verdicts {
		switch v.State {
		case ReviewApproved:
			approvals++
		case ReviewChangesRequested:
			changesRequested++
		}
	}
	return approvals, changesRequested
}

// CI states reported by the combined status endpoint.
const (
	CIStateSuccess = "success"
	CIStatePending = "pending"
	CIStateFailure = "failure"
	CIStateError   = "error"
)

// CheckStatus is one named check contributing to the combined status.
type CheckStatus struct {
	Name        string
	Description string
	State       string
}

// CIStatus is the combined status of the head commit.
type CIStatus struct {
	State  string
	Checks []CheckStatus
}

// FailingChecks returns the checks whose state is not success.
func (s *CIStatus) FailingChecks() []CheckStatus {
	var failing []CheckStatus
	for _, c := range s.Checks {
		if c.State != CIStateSuccess {
			failing = append(failing, c)
		}
	}
	return failing
}

// UnmetRequired returns the required check contexts that are missing from the
// combined status or did not succeed, in the order given.
func (s *CIStatus) UnmetRequired(required []string) []string {
	states := make(map[string]string, len(s.Checks))
	for _, c := range s.Checks {
		states[c.Name] = c.State
	}
	var unmet []string
	for _, name := range required {
		if states[name] != CIStateSuccess {
			unmet = append(unmet, name)
		}
	}
	return unmet
}

// BranchComparison describes how a head ref relates to a base ref.
type BranchComparison struct {
	AheadBy  int
	BehindBy int
	Status   string
}

// BranchProtection is the protection state of a base branch as far as the
// merge decision reads it.
type BranchProtection struct {
	Protected bool
	// RequiredChecks are the status check contexts that must pass before merging.
	RequiredChecks []string
}

// Reference is a named git reference.
type Reference struct {
	Name string
	SHA  string
}

// SyncOutcome is the result of asking the provider to update a PR branch from its base.
type SyncOutcome int

const (
	// SyncUpdated means the provider accepted the update and will create a new head commit.
	SyncUpdated SyncOutcome = iota
	// SyncUpToDate means the branch already contains the base head.
	SyncUpToDate
)

func (o SyncOutcome) String() string {
	if o == SyncUpToDate {
		return "up-to-date"
	}
	return "updated"
}

// MergeMethod selects how the provider combines the PR into its base.
type MergeMethod string

const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodRebase MergeMethod = "rebase"
)

// MergeRequest is a single merge call pinned to a specific head commit.
type MergeRequest struct {
	SHA           string
	Method        MergeMethod
	CommitTitle   string
	CommitMessage string
}

// MergeResult is the provider's reply to a merge call.
type MergeResult struct {
	Merged  bool
	SHA     string
	Message string
}
