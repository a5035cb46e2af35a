package core

import "time"

// Submission is a request to review and possibly merge one pull request.
type Submission struct {
	RepoURL string
	PRLink  string
	// RequestedBy identifies who asked for the run (a CLI user, an API caller or a PR commenter).
	RequestedBy string
	// InstallationID is set for runs triggered by a GitHub App webhook.
	InstallationID int64
}

// Report is the outcome of one pipeline run and the shape persisted as a review record.
type Report struct {
	RepoURL  string
	PRLink   string
	Owner    string
	Repo     string
	Number   int
	HeadSHA  string
	Status   Status
	Feedback []string
	Risk     *RiskAssessment
	AI       *AIReviewResult
	Decision *MergeDecision
	Backup   *BackupReference
	// Err is the outcome sentinel for runs that did not merge; nil for Merged.
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time
	// RecordID is the stored review record, once persisted.
	RecordID int64
}

// FeedbackText renders the transcript the way it is stored.
func (r *Report) FeedbackText() string {
	log := FeedbackLog{entries: r.Feedback}
	return log.String()
}

// ReviewRecord is a persisted review outcome.
type ReviewRecord struct {
	ID        int64     `db:"id" json:"id"`
	RepoURL   string    `db:"repo_url" json:"repo_url"`
	PRLink    string    `db:"pr_link" json:"pr_link"`
	Status    Status    `db:"status" json:"status"`
	Feedback  string    `db:"feedback" json:"feedback"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
