// Package gitutil parses the repository and pull request URLs accepted at the
// submission boundary. Nothing here touches the network.
package gitutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
)

// ParseRepositoryURL extracts the owner and repository name from the last two
// path segments of a repository URL, e.g. https://github.com/{owner}/{repo}.
func ParseRepositoryURL(raw string) (owner, repo string, err error) {
	segments, err := pathSegments(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid repository URL %q: %w", core.ErrValidation, raw, err)
	}
	if len(segments) < 2 {
		return "", "", fmt.Errorf("%w: repository URL %q must end with /{owner}/{repo}", core.ErrValidation, raw)
	}

	owner = segments[len(segments)-2]
	repo = strings.TrimSuffix(segments[len(segments)-1], ".git")
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: repository URL %q has an empty owner or name", core.ErrValidation, raw)
	}
	return owner, repo, nil
}

// ParsePullRequestNumber extracts the PR number from the final path segment of
// a pull request URL, e.g. https://github.com/{owner}/{repo}/pull/{number}.
func ParsePullRequestNumber(raw string) (int, error) {
	segments, err := pathSegments(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid pull request URL %q: %w", core.ErrValidation, raw, err)
	}
	if len(segments) == 0 {
		return 0, fmt.Errorf("%w: pull request URL %q has no path", core.ErrValidation, raw)
	}

	last := segments[len(segments)-1]
	number, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid PR number '%s' in %q", core.ErrValidation, last, raw)
	}
	if number <= 0 {
		return 0, fmt.Errorf("%w: PR number must be positive, got %d", core.ErrValidation, number)
	}
	return number, nil
}

// ParsePullRequestURL parses a full pull request URL and extracts the owner,
// repo, and PR number. Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(raw string) (owner, repo string, prNumber int, err error) {
	segments, err := pathSegments(raw)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: invalid pull request URL %q: %w", core.ErrValidation, raw, err)
	}
	if len(segments) < 4 || segments[len(segments)-2] != "pull" {
		return "", "", 0, fmt.Errorf("%w: invalid pull request URL format: %s", core.ErrValidation, raw)
	}

	prNumber, err = ParsePullRequestNumber(raw)
	if err != nil {
		return "", "", 0, err
	}
	return segments[len(segments)-4], segments[len(segments)-3], prNumber, nil
}

// pathSegments returns the non-empty path segments of a URL, tolerating a
// missing scheme and a trailing slash.
func pathSegments(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty URL")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}

	var segments []string
	for _, s := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments, nil
}
