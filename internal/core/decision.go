package core

// Status is the terminal status tag of a pipeline run.
type Status string

const (
	StatusBlocked      Status = "Blocked"
	StatusRejected     Status = "Rejected"
	StatusPending      Status = "Pending"
	StatusConflict     Status = "Conflict"
	StatusReviewNeeded Status = "ReviewNeeded"
	StatusFailed       Status = "Failed"
	StatusMerged       Status = "Merged"
)

// MergeDecision is the gate evaluator's verdict.
type MergeDecision struct {
	// Allowed is true when no hard blocker applies.
	Allowed bool
	// Actionable is false for terminal PR lifecycles (already merged, closed).
	Actionable bool
	// Reasons lists every hard blocker that applied, in rule order.
	Reasons []string
	// Advisories are non-blocking observations recorded as feedback.
	Advisories []string
	Status     Status
}

// BackupReference is a safety ref pointing at the PR head before any mutation.
type BackupReference struct {
	Name string `json:"name"`
	SHA  string `json:"sha"`
	// Created is false when every candidate name was taken and Name is only a label.
	Created bool `json:"created"`
}
