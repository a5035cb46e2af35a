package core

import "errors"

// Error taxonomy shared by every component. Errors returned across package
// boundaries wrap one of these so callers can branch with errors.Is.
var (
	// ErrValidation marks malformed submissions. It never reaches the network.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing repository, pull request or reference.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks provider throttling.
	ErrRateLimited = errors.New("rate limited")
	// ErrAlreadyExists marks a create call for something that exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnprocessable marks stale-state or otherwise rejected provider requests.
	ErrUnprocessable = errors.New("unprocessable")
	// ErrProvider marks any other provider failure.
	ErrProvider = errors.New("provider error")
	// ErrAIUnavailable marks that every AI backend failed. It is absorbed by the adapter.
	ErrAIUnavailable = errors.New("ai backends unavailable")
	// ErrMergeConflict marks a run halted because the PR became unmergeable.
	ErrMergeConflict = errors.New("merge conflict")
	// ErrMergeRejected marks a run the gate declined.
	ErrMergeRejected = errors.New("merge rejected")
	// ErrMergeFailed marks a merge the provider refused.
	ErrMergeFailed = errors.New("merge failed")
)
