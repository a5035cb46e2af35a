package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/internal/gate"
	"github.com/sevigo/merge-warden/internal/github"
	"github.com/sevigo/merge-warden/internal/llm"
	"github.com/sevigo/merge-warden/internal/merge"
	"github.com/sevigo/merge-warden/mocks"
)

const (
	headSHA = "abc1234def5678900000000000000000000000ff"
	repoURL = "https://github.com/octo/app"
	prLink  = "https://github.com/octo/app/pull/7"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeFactory struct {
	client github.Client
	calls  int
}

func (f *fakeFactory) ForInstallation(context.Context, int64) (github.Client, error) {
	f.calls++
	return f.client, nil
}

type fakeReviewer struct {
	result core.AIReviewResult
	got    *core.ReviewRequest
}

func (f *fakeReviewer) Review(_ context.Context, req core.ReviewRequest) core.AIReviewResult {
	f.got = &req
	return f.result
}

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func boolPtr(b bool) *bool { return &b }

func openPR() *core.PullRequest {
	return &core.PullRequest{
		Number:    7,
		Title:     "Add retry to uploader",
		Body:      "Retries failed uploads with exponential backoff so transient storage errors no longer fail the nightly export job.",
		Author:    "octocat",
		State:     "open",
		HeadSHA:   headSHA,
		HeadRef:   "feature/retry",
		BaseRef:   "main",
		Mergeable: boolPtr(true),
		CreatedAt: fixedNow.Add(-24 * time.Hour),
	}
}

func newDriver(client github.Client, reviewer llm.Reviewer) (*Driver, *fakeFactory) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := &fakeFactory{client: client}
	opts := Options{
		Merge: merge.Options{
			BackupPrefix: "merge-warden/backup",
			Method:       core.MergeMethodSquash,
			GracePeriod:  time.Second,
			PollAttempts: 3,
			Backoff:      2,
			Now:          func() time.Time { return fixedNow },
			Sleeper:      noSleep{},
		},
		Now: func() time.Time { return fixedNow },
	}
	analyzer := analysis.New(analysis.DefaultPolicy())
	return NewDriver(factory, analyzer, reviewer, gate.New(1), github.NewReportPublisher(), opts, logger), factory
}

func expectFacts(client *mocks.MockClient, pr *core.PullRequest, files []core.FileChange) {
	client.EXPECT().GetRepository(gomock.Any(), "octo", "app").
		Return(&core.Repository{Owner: "octo", Name: "app", DefaultBranch: "main"}, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(pr, nil)
	client.EXPECT().ListFiles(gomock.Any(), "octo", "app", 7).Return(files, nil)
	client.EXPECT().CompareBranches(gomock.Any(), "octo", "app", "main", headSHA).
		Return(&core.BranchComparison{AheadBy: 1}, nil)
	client.EXPECT().ListReviews(gomock.Any(), "octo", "app", 7).
		Return([]core.Review{{Reviewer: "hubot", State: core.ReviewApproved}}, nil)
	client.EXPECT().GetCombinedStatus(gomock.Any(), "octo", "app", headSHA).
		Return(&core.CIStatus{State: core.CIStateSuccess}, nil)
	client.EXPECT().GetBranchProtection(gomock.Any(), "octo", "app", "main").Return(&core.BranchProtection{}, nil)
	client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return("", nil)
}

func notFound() error {
	return &github.ProviderError{Op: "get ref", Status: 404, Message: "Not Found", Kind: core.ErrNotFound}
}

func TestRun_MergesApprovedPR(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	files := []core.FileChange{
		{Path: "uploader/retry.go", Additions: 40, Deletions: 2, Changes: 42, Status: core.FileModified},
		{Path: "uploader/retry_test.go", Additions: 30, Changes: 30, Status: core.FileAdded},
	}
	expectFacts(client, pr, files)

	backupName := fmt.Sprintf("merge-warden/backup/pr-7-%s", headSHA[:7])
	gomock.InOrder(
		client.EXPECT().GetRef(gomock.Any(), "octo", "app", backupName).Return(nil, notFound()),
		client.EXPECT().CreateRef(gomock.Any(), "octo", "app", backupName, headSHA).Return(nil),
		client.EXPECT().UpdateBranch(gomock.Any(), "octo", "app", 7, headSHA).Return(core.SyncUpToDate, nil),
		client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(openPR(), nil),
		client.EXPECT().Merge(gomock.Any(), "octo", "app", 7, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, _ int, req core.MergeRequest) (*core.MergeResult, error) {
				assert.Equal(t, headSHA, req.SHA)
				assert.Equal(t, core.MergeMethodSquash, req.Method)
				assert.Equal(t, "Add retry to uploader (#7)", req.CommitTitle)
				return &core.MergeResult{Merged: true, SHA: "m3rg3d"}, nil
			}),
		client.EXPECT().DeleteRef(gomock.Any(), "octo", "app", backupName).Return(nil),
	)

	reviewer := &fakeReviewer{result: core.AIReviewResult{Approved: true, QualityScore: 8, Source: "ollama/llama3"}}
	driver, _ := newDriver(client, reviewer)

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	assert.Equal(t, core.StatusMerged, report.Status)
	assert.NoError(t, report.Err)
	require.NotNil(t, report.Backup)
	assert.Equal(t, backupName, report.Backup.Name)
	assert.True(t, report.Backup.Created)
	assert.True(t, report.Decision.Allowed)
	assert.Contains(t, report.Feedback, "Merge gate passed")
	assert.Contains(t, report.Feedback, "Branch is up to date with main")
	assert.Contains(t, report.Feedback, "Backup branch "+backupName+" deleted")
	assert.Equal(t, fixedNow, report.CompletedAt)

	require.NotNil(t, reviewer.got)
	assert.Equal(t, []string{"uploader"}, reviewer.got.Components)
}

func TestRun_SensitiveFileIsAdvisoryOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	files := []core.FileChange{
		{Path: "app/security/auth.py", Additions: 150, Deletions: 20, Changes: 170, Status: core.FileModified},
	}
	expectFacts(client, pr, files)

	client.EXPECT().GetRef(gomock.Any(), "octo", "app", gomock.Any()).Return(nil, notFound())
	client.EXPECT().CreateRef(gomock.Any(), "octo", "app", gomock.Any(), headSHA).Return(nil)
	client.EXPECT().UpdateBranch(gomock.Any(), "octo", "app", 7, headSHA).Return(core.SyncUpToDate, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(openPR(), nil)
	client.EXPECT().Merge(gomock.Any(), "octo", "app", 7, gomock.Any()).Return(&core.MergeResult{Merged: true, SHA: "m3rg3d"}, nil)
	client.EXPECT().DeleteRef(gomock.Any(), "octo", "app", gomock.Any()).Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)
	analyzer := analysis.New(analysis.DefaultPolicy())
	reviewer := llm.NewReviewer(nil, prompts, analyzer, llm.Options{Timeout: time.Second}, logger)

	driver, _ := newDriver(client, reviewer)
	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	require.NotNil(t, report.Risk)
	assert.Equal(t, core.ImpactHigh, report.Risk.ImpactLevel)
	assert.Equal(t, []string{"app/security/auth.py"}, report.Risk.HighRiskFiles)

	require.NotNil(t, report.AI)
	assert.Equal(t, llm.FallbackSource, report.AI.Source)
	assert.LessOrEqual(t, report.AI.QualityScore, 6.0)
	assert.False(t, report.AI.Approved)

	assert.True(t, report.Decision.Allowed)
	assert.Contains(t, report.Decision.Advisories, "High impact change")
	assert.Equal(t, core.StatusMerged, report.Status)
}

func TestRun_ConflictAfterSyncKeepsBackup(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	expectFacts(client, pr, []core.FileChange{{Path: "main.go", Additions: 3, Changes: 3, Status: core.FileModified}})

	conflicted := openPR()
	conflicted.Mergeable = boolPtr(false)

	client.EXPECT().GetRef(gomock.Any(), "octo", "app", gomock.Any()).Return(nil, notFound())
	client.EXPECT().CreateRef(gomock.Any(), "octo", "app", gomock.Any(), headSHA).Return(nil)
	client.EXPECT().UpdateBranch(gomock.Any(), "octo", "app", 7, headSHA).Return(core.SyncUpToDate, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(conflicted, nil)
	client.EXPECT().Merge(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	client.EXPECT().DeleteRef(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reviewer := &fakeReviewer{result: core.AIReviewResult{Approved: true, QualityScore: 8, Source: "ollama/llama3"}}
	driver, _ := newDriver(client, reviewer)

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	assert.Equal(t, core.StatusConflict, report.Status)
	assert.ErrorIs(t, report.Err, core.ErrMergeConflict)
	require.NotNil(t, report.Backup)
	assert.True(t, report.Backup.Created)
}

func TestRun_RejectedByGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	pr.Draft = true
	expectFacts(client, pr, []core.FileChange{{Path: "main.go", Additions: 3, Changes: 3, Status: core.FileModified}})
	client.EXPECT().CreateRef(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reviewer := &fakeReviewer{result: core.AIReviewResult{
		QualityScore:   3,
		SecurityIssues: []string{"Critical: SQL built from request input"},
		Source:         "gemini/gemini-2.5-flash",
	}}
	driver, _ := newDriver(client, reviewer)

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	assert.Equal(t, core.StatusRejected, report.Status)
	assert.ErrorIs(t, report.Err, core.ErrMergeRejected)
	assert.Equal(t, []string{gate.ReasonDraft, gate.ReasonLowQuality, gate.ReasonCriticalSecurity}, report.Decision.Reasons)
	assert.Contains(t, report.Feedback, "PR rejected based on review results")
	assert.Nil(t, report.Backup)
}

func TestRun_TerminalLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(pr *core.PullRequest)
		status  core.Status
		wantErr error
	}{
		{name: "already merged", mutate: func(pr *core.PullRequest) { pr.Merged = true; pr.State = "closed" }, status: core.StatusMerged},
		{name: "closed", mutate: func(pr *core.PullRequest) { pr.State = "closed" }, status: core.StatusBlocked, wantErr: core.ErrMergeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockClient(ctrl)

			pr := openPR()
			tt.mutate(pr)
			client.EXPECT().GetRepository(gomock.Any(), "octo", "app").Return(&core.Repository{DefaultBranch: "main"}, nil)
			client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(pr, nil)

			driver, _ := newDriver(client, &fakeReviewer{})
			report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
			require.NoError(t, err)

			assert.Equal(t, tt.status, report.Status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, report.Err, tt.wantErr)
			} else {
				assert.NoError(t, report.Err)
			}
			assert.Nil(t, report.AI)
		})
	}
}

func TestRun_ValidationFailsBeforeNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	driver, factory := newDriver(client, &fakeReviewer{})
	_, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: "https://github.com/octo/app/pull/abc"})

	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Zero(t, factory.calls)
}

func TestRun_PullRequestNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().GetRepository(gomock.Any(), "octo", "app").Return(&core.Repository{DefaultBranch: "main"}, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).
		Return(nil, &github.ProviderError{Op: "get pull request", Status: 404, Message: "Not Found", Kind: core.ErrNotFound})

	driver, _ := newDriver(client, &fakeReviewer{})
	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRun_OptionalFetchFailuresAreNoted(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	pr.Body = ""
	client.EXPECT().GetRepository(gomock.Any(), "octo", "app").Return(&core.Repository{DefaultBranch: "main"}, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(pr, nil)
	client.EXPECT().ListFiles(gomock.Any(), "octo", "app", 7).Return(nil, nil)
	client.EXPECT().CompareBranches(gomock.Any(), "octo", "app", "main", headSHA).
		Return(&core.BranchComparison{BehindBy: 4}, nil)
	client.EXPECT().ListReviews(gomock.Any(), "octo", "app", 7).
		Return(nil, &github.ProviderError{Op: "list reviews", Status: 502, Message: "Bad Gateway", Kind: core.ErrProvider})
	client.EXPECT().GetCombinedStatus(gomock.Any(), "octo", "app", headSHA).
		Return(&core.CIStatus{State: core.CIStateFailure, Checks: []core.CheckStatus{{Name: "lint", State: "failure", Description: "2 issues"}}}, nil)
	client.EXPECT().GetBranchProtection(gomock.Any(), "octo", "app", "main").
		Return(nil, &github.ProviderError{Op: "get branch protection", Status: 403, Message: "Resource not accessible by integration", Kind: core.ErrProvider})
	client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return("", nil)

	reviewer := &fakeReviewer{result: core.AIReviewResult{QualityScore: 2, Source: "ollama/llama3"}}
	driver, _ := newDriver(client, reviewer)

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	assert.Equal(t, core.StatusRejected, report.Status)
	assert.Contains(t, report.Feedback, "Missing PR description")
	assert.Contains(t, report.Feedback, "Branch is 4 commits behind main")
	assert.Contains(t, report.Feedback, "Unable to list reviews: Bad Gateway")
	assert.Contains(t, report.Feedback, "CI checks failed: failure")
	assert.Contains(t, report.Feedback, "- lint: 2 issues")
	assert.Contains(t, report.Feedback, "Unable to check branch protection rules: Resource not accessible by integration")
}

func TestRun_ProtectedBranchRequiredChecks(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	client.EXPECT().GetRepository(gomock.Any(), "octo", "app").Return(&core.Repository{DefaultBranch: "main"}, nil)
	client.EXPECT().GetPullRequest(gomock.Any(), "octo", "app", 7).Return(pr, nil)
	client.EXPECT().ListFiles(gomock.Any(), "octo", "app", 7).
		Return([]core.FileChange{{Path: "main.go", Additions: 3, Changes: 3, Status: core.FileModified}}, nil)
	client.EXPECT().CompareBranches(gomock.Any(), "octo", "app", "main", headSHA).Return(&core.BranchComparison{}, nil)
	client.EXPECT().ListReviews(gomock.Any(), "octo", "app", 7).Return(nil, nil)
	client.EXPECT().GetCombinedStatus(gomock.Any(), "octo", "app", headSHA).
		Return(&core.CIStatus{State: core.CIStatePending, Checks: []core.CheckStatus{
			{Name: "build", State: core.CIStateSuccess},
			{Name: "e2e", State: core.CIStatePending},
		}}, nil)
	client.EXPECT().GetBranchProtection(gomock.Any(), "octo", "app", "main").
		Return(&core.BranchProtection{Protected: true, RequiredChecks: []string{"build", "e2e"}}, nil)
	client.EXPECT().GetPullRequestDiff(gomock.Any(), "octo", "app", 7).Return("", nil)

	// Draft keeps the run out of the merge stages.
	pr.Draft = true
	reviewer := &fakeReviewer{result: core.AIReviewResult{Approved: true, QualityScore: 8, Source: "ollama/llama3"}}
	driver, _ := newDriver(client, reviewer)

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	assert.Equal(t, core.StatusRejected, report.Status)
	assert.Contains(t, report.Feedback, "Branch main has protection rules enabled")
	assert.Contains(t, report.Feedback, "Advisory: Not all required status checks have passed: e2e")
}

func TestRun_BaseContextReachesReviewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	pr := openPR()
	pr.Draft = true
	expectFacts(client, pr, []core.FileChange{
		{Path: "uploader/retry.go", Additions: 3, Changes: 3, Status: core.FileModified},
		{Path: "uploader/backoff.go", Additions: 9, Changes: 9, Status: core.FileAdded},
	})
	client.EXPECT().ListDirectory(gomock.Any(), "octo", "app", "uploader", "main").
		Return([]string{"uploader/client.go", "uploader/retry.go"}, nil)
	client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", "uploader/retry.go", "main").Return("package uploader\n", nil)
	client.EXPECT().GetFileContent(gomock.Any(), "octo", "app", "uploader/client.go", "main").
		Return("", &github.ProviderError{Op: "get file content", Status: 404, Message: "Not Found", Kind: core.ErrNotFound})

	reviewer := &fakeReviewer{result: core.AIReviewResult{Approved: true, QualityScore: 8, Source: "ollama/llama3"}}
	driver, _ := newDriver(client, reviewer)
	driver.opts.BaseContextBytes = 4000

	report, err := driver.Run(t.Context(), &core.Submission{RepoURL: repoURL, PRLink: prLink})
	require.NoError(t, err)

	require.NotNil(t, reviewer.got)
	assert.Equal(t, "File: uploader/retry.go\npackage uploader\n\n", reviewer.got.BaseContext)
	assert.Contains(t, report.Feedback, "Warning: Failed to fetch uploader/client.go: Not Found")
}
