// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/merge-warden/internal/core"
)

const (
	headsPrefix = "refs/heads/"
	perPage     = 100
)

// Client defines the GitHub operations the review and merge pipeline needs.
// Every method returns domain types; failures are *ProviderError values that
// match the core provider sentinels with errors.Is.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	GetRepository(ctx context.Context, owner, repo string) (*core.Repository, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PullRequest, error)
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	ListFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error)
	ListReviews(ctx context.Context, owner, repo string, number int) ([]core.Review, error)
	GetCombinedStatus(ctx context.Context, owner, repo, ref string) (*core.CIStatus, error)
	CompareBranches(ctx context.Context, owner, repo, base, head string) (*core.BranchComparison, error)
	GetBranchProtection(ctx context.Context, owner, repo, branch string) (*core.BranchProtection, error)
	ListDirectory(ctx context.Context, owner, repo, dir, ref string) ([]string, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	GetCommitParents(ctx context.Context, owner, repo, sha string) ([]string, error)
	GetRef(ctx context.Context, owner, repo, branch string) (*core.Reference, error)
	CreateRef(ctx context.Context, owner, repo, branch, sha string) error
	DeleteRef(ctx context.Context, owner, repo, branch string) error
	UpdateBranch(ctx context.Context, owner, repo string, number int, expectedHeadSHA string) (core.SyncOutcome, error)
	Merge(ctx context.Context, owner, repo string, number int, req core.MergeRequest) (*core.MergeResult, error)
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

func (g *gitHubClient) GetRepository(ctx context.Context, owner, repo string) (*core.Repository, error) {
	r, _, err := g.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		g.logger.Error("failed to get repository", "owner", owner, "repo", repo, "error", err)
		return nil, classify("get repository", err)
	}
	return &core.Repository{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
	}, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*core.PullRequest, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, classify("get pull request", err)
	}
	return mapPullRequest(pr), nil
}

func mapPullRequest(pr *github.PullRequest) *core.PullRequest {
	return &core.PullRequest{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		Author:         pr.GetUser().GetLogin(),
		State:          pr.GetState(),
		Merged:         pr.GetMerged(),
		Draft:          pr.GetDraft(),
		HeadSHA:        pr.GetHead().GetSHA(),
		HeadRef:        pr.GetHead().GetRef(),
		BaseRef:        pr.GetBase().GetRef(),
		Mergeable:      pr.Mergeable,
		MergeableState: pr.GetMergeableState(),
		CreatedAt:      pr.GetCreatedAt().Time,
		HTMLURL:        pr.GetHTMLURL(),
	}
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", classify("get pull request diff", err)
	}
	return diff, nil
}

// ListFiles retrieves the files modified in a pull request, following
// pagination since GitHub returns at most 100 files per page.
func (g *gitHubClient) ListFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error) {
	var all []core.FileChange
	opts := &github.ListOptions{PerPage: perPage}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, classify("list files", err)
		}

		for _, f := range files {
			fc := core.FileChange{
				Path:      f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
				Status:    core.FileStatus(f.GetStatus()),
				Patch:     f.GetPatch(),
			}
			if fc.Patch == "" {
				fc.Binary = true
				fc.Patch = core.BinaryPatch
			}
			all = append(all, fc)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListReviews returns every review in submission order.
func (g *gitHubClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]core.Review, error) {
	var all []core.Review
	opts := &github.ListOptions{PerPage: perPage}

	for {
		reviews, resp, err := g.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list reviews", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, classify("list reviews", err)
		}

		for _, r := range reviews {
			all = append(all, core.Review{
				Reviewer:    r.GetUser().GetLogin(),
				State:       core.ReviewState(strings.ToLower(r.GetState())),
				SubmittedAt: r.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (g *gitHubClient) GetCombinedStatus(ctx context.Context, owner, repo, ref string) (*core.CIStatus, error) {
	combined, _, err := g.client.Repositories.GetCombinedStatus(ctx, owner, repo, ref, &github.ListOptions{PerPage: perPage})
	if err != nil {
		g.logger.Error("failed to get combined status", "owner", owner, "repo", repo, "ref", ref, "error", err)
		return nil, classify("get combined status", err)
	}

	status := &core.CIStatus{State: combined.GetState()}
	for _, s := range combined.Statuses {
		status.Checks = append(status.Checks, core.CheckStatus{
			Name:        s.GetContext(),
			Description: s.GetDescription(),
			State:       s.GetState(),
		})
	}
	return status, nil
}

func (g *gitHubClient) CompareBranches(ctx context.Context, owner, repo, base, head string) (*core.BranchComparison, error) {
	cmp, _, err := g.client.Repositories.CompareCommits(ctx, owner, repo, base, head, &github.ListOptions{PerPage: 1})
	if err != nil {
		g.logger.Error("failed to compare branches", "owner", owner, "repo", repo, "base", base, "head", head, "error", err)
		return nil, classify("compare branches", err)
	}
	return &core.BranchComparison{
		AheadBy:  cmp.GetAheadBy(),
		BehindBy: cmp.GetBehindBy(),
		Status:   cmp.GetStatus(),
	}, nil
}

// GetBranchProtection reads the protection rules of branch. An unprotected
// branch is not an error.
func (g *gitHubClient) GetBranchProtection(ctx context.Context, owner, repo, branch string) (*core.BranchProtection, error) {
	p, _, err := g.client.Repositories.GetBranchProtection(ctx, owner, repo, branch)
	if err != nil {
		if errors.Is(err, github.ErrBranchNotProtected) {
			return &core.BranchProtection{}, nil
		}
		classified := classify("get branch protection", err)
		if errors.Is(classified, core.ErrNotFound) {
			return &core.BranchProtection{}, nil
		}
		return nil, classified
	}

	bp := &core.BranchProtection{Protected: true}
	if checks := p.GetRequiredStatusChecks(); checks != nil {
		if checks.Checks != nil {
			for _, c := range *checks.Checks {
				bp.RequiredChecks = append(bp.RequiredChecks, c.Context)
			}
		} else if checks.Contexts != nil {
			bp.RequiredChecks = append(bp.RequiredChecks, *checks.Contexts...)
		}
	}
	return bp, nil
}

// ListDirectory returns the paths of the files directly inside dir at ref.
// The repository root is the empty dir.
func (g *gitHubClient) ListDirectory(ctx context.Context, owner, repo, dir, ref string) ([]string, error) {
	_, entries, _, err := g.client.Repositories.GetContents(ctx, owner, repo, dir, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return nil, classify("list directory", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.GetType() == "file" {
			paths = append(paths, e.GetPath())
		}
	}
	return paths, nil
}

// GetFileContent returns the decoded content of a file at ref.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	file, _, _, err := g.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", classify("get file content", err)
	}
	if file == nil {
		return "", &ProviderError{Op: "get file content", Message: path + " is a directory", Kind: core.ErrUnprocessable}
	}
	content, err := file.GetContent()
	if err != nil {
		return "", &ProviderError{Op: "get file content", Message: err.Error(), Kind: core.ErrUnprocessable, Err: err}
	}
	return content, nil
}

func (g *gitHubClient) GetCommitParents(ctx context.Context, owner, repo, sha string) ([]string, error) {
	commit, _, err := g.client.Git.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		g.logger.Error("failed to get commit", "owner", owner, "repo", repo, "sha", sha, "error", err)
		return nil, classify("get commit", err)
	}
	parents := make([]string, 0, len(commit.Parents))
	for _, p := range commit.Parents {
		parents = append(parents, p.GetSHA())
	}
	return parents, nil
}

// GetRef looks up a branch reference. A missing branch yields an error that
// matches core.ErrNotFound.
func (g *gitHubClient) GetRef(ctx context.Context, owner, repo, branch string) (*core.Reference, error) {
	ref, _, err := g.client.Git.GetRef(ctx, owner, repo, headsPrefix+branch)
	if err != nil {
		return nil, classify("get ref", err)
	}
	return &core.Reference{
		Name: strings.TrimPrefix(ref.GetRef(), headsPrefix),
		SHA:  ref.GetObject().GetSHA(),
	}, nil
}

// CreateRef creates a branch pointing at sha. An existing branch yields an
// error that matches core.ErrAlreadyExists.
func (g *gitHubClient) CreateRef(ctx context.Context, owner, repo, branch, sha string) error {
	_, _, err := g.client.Git.CreateRef(ctx, owner, repo, &github.Reference{
		Ref:    github.Ptr(headsPrefix + branch),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	})
	if err != nil {
		return classify("create ref", err)
	}
	return nil
}

func (g *gitHubClient) DeleteRef(ctx context.Context, owner, repo, branch string) error {
	if _, err := g.client.Git.DeleteRef(ctx, owner, repo, headsPrefix+branch); err != nil {
		return classify("delete ref", err)
	}
	return nil
}

// UpdateBranch asks GitHub to merge the base branch into the PR branch. The
// update is pinned to expectedHeadSHA so a branch that moved is not updated.
// "No new commits" is reported as SyncUpToDate, not as an error.
func (g *gitHubClient) UpdateBranch(ctx context.Context, owner, repo string, number int, expectedHeadSHA string) (core.SyncOutcome, error) {
	opts := &github.PullRequestBranchUpdateOptions{}
	if expectedHeadSHA != "" {
		opts.ExpectedHeadSHA = github.Ptr(expectedHeadSHA)
	}

	_, _, err := g.client.PullRequests.UpdateBranch(ctx, owner, repo, number, opts)
	if err == nil {
		return core.SyncUpdated, nil
	}

	// GitHub answers 202 Accepted and finishes the update asynchronously.
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return core.SyncUpdated, nil
	}

	classified := classify("update branch", err)
	if errors.Is(classified, core.ErrUnprocessable) && isUpToDate(ProviderMessage(classified)) {
		return core.SyncUpToDate, nil
	}

	g.logger.Error("failed to update branch", "owner", owner, "repo", repo, "pr", number, "error", err)
	return core.SyncUpdated, classified
}

func isUpToDate(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "no new commits") || strings.Contains(lower, "already up to date")
}

// Merge performs a single merge call pinned to req.SHA.
func (g *gitHubClient) Merge(ctx context.Context, owner, repo string, number int, req core.MergeRequest) (*core.MergeResult, error) {
	result, _, err := g.client.PullRequests.Merge(ctx, owner, repo, number, req.CommitMessage, &github.PullRequestOptions{
		CommitTitle: req.CommitTitle,
		SHA:         req.SHA,
		MergeMethod: string(req.Method),
	})
	if err != nil {
		g.logger.Error("failed to merge pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, classify("merge", err)
	}
	return &core.MergeResult{
		Merged:  result.GetMerged(),
		SHA:     result.GetSHA(),
		Message: result.GetMessage(),
	}, nil
}

// CreateComment creates a new comment on a pull request.
func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: &body}
	_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
		return classify("create comment", err)
	}
	return nil
}
