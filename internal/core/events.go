package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// MergeCommand is the PR comment that asks for a review-and-merge run.
const MergeCommand = "/merge"

// SubmissionFromIssueComment transforms a raw GitHub IssueCommentEvent into a
// Submission. It acts as an anti-corruption layer: only "/merge" comments on
// pull requests, carrying complete repository and installation data, are accepted.
func SubmissionFromIssueComment(event *github.IssueCommentEvent) (*Submission, error) {
	if event.GetAction() != "" && event.GetAction() != "created" {
		return nil, fmt.Errorf("comment action %q is not handled", event.GetAction())
	}

	if !event.GetIssue().IsPullRequest() {
		return nil, fmt.Errorf("comment is not on a pull request")
	}

	if !strings.EqualFold(strings.TrimSpace(event.GetComment().GetBody()), MergeCommand) {
		return nil, fmt.Errorf("comment is not a merge command")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner() == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository or owner information is missing from the event")
	}

	prNumber := event.GetIssue().GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	if event.GetComment().GetUser() == nil || event.GetComment().GetUser().GetLogin() == "" {
		return nil, fmt.Errorf("commenter information is missing from the event")
	}

	if event.GetInstallation() == nil || event.GetInstallation().GetID() == 0 {
		return nil, fmt.Errorf("installation ID is missing from the event")
	}

	repoURL := repo.GetHTMLURL()
	if repoURL == "" {
		repoURL = fmt.Sprintf("https://github.com/%s/%s", repo.GetOwner().GetLogin(), repo.GetName())
	}

	return &Submission{
		RepoURL:        repoURL,
		PRLink:         fmt.Sprintf("%s/pull/%d", strings.TrimSuffix(repoURL, "/"), prNumber),
		RequestedBy:    event.GetComment().GetUser().GetLogin(),
		InstallationID: event.GetInstallation().GetID(),
	}, nil
}
