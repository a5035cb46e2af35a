package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/merge-warden/internal/core"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakePipeline struct {
	mu     sync.Mutex
	report *core.Report
	err    error
	calls  int
}

func (f *fakePipeline) Run(_ context.Context, sub *core.Submission) (*core.Report, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := *f.report
	r.RepoURL, r.PRLink = sub.RepoURL, sub.PRLink
	return &r, nil
}

type savedReview struct {
	repoURL, prLink string
	status          core.Status
	feedback        string
}

type memoryStore struct {
	mu    sync.Mutex
	saved []savedReview
	err   error
}

func (m *memoryStore) UpsertReview(_ context.Context, repoURL, prLink string, status core.Status, feedback string) (*core.ReviewRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.saved = append(m.saved, savedReview{repoURL, prLink, status, feedback})
	return &core.ReviewRecord{ID: int64(len(m.saved)), RepoURL: repoURL, PRLink: prLink, Status: status, Feedback: feedback}, nil
}

func (m *memoryStore) GetReview(context.Context, int64) (*core.ReviewRecord, error) {
	return nil, core.ErrNotFound
}

func (m *memoryStore) ListReviews(context.Context, int) ([]core.ReviewRecord, error) {
	return nil, nil
}

func (m *memoryStore) DeleteReview(context.Context, int64) error {
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

var validSubmission = core.Submission{
	RepoURL: "https://github.com/octo/app",
	PRLink:  "https://github.com/octo/app/pull/7",
}

func TestReviewJob_PersistsReport(t *testing.T) {
	pipeline := &fakePipeline{report: &core.Report{Status: core.StatusRejected, Feedback: []string{"Missing PR description", "PR rejected based on review results"}}}
	store := &memoryStore{}
	job := NewReviewJob(pipeline, store, discard)

	sub := validSubmission
	report, err := job.Run(t.Context(), &sub)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.RecordID)
	require.Len(t, store.saved, 1)
	assert.Equal(t, core.StatusRejected, store.saved[0].status)
	assert.Equal(t, "Missing PR description\nPR rejected based on review results", store.saved[0].feedback)
}

func TestReviewJob_EmptyFeedbackIsStoredAsNoIssues(t *testing.T) {
	store := &memoryStore{}
	job := NewReviewJob(&fakePipeline{report: &core.Report{Status: core.StatusMerged}}, store, discard)

	sub := validSubmission
	_, err := job.Run(t.Context(), &sub)
	require.NoError(t, err)
	assert.Equal(t, core.NoIssuesFound, store.saved[0].feedback)
}

func TestReviewJob_InvalidSubmissionIsNotRun(t *testing.T) {
	pipeline := &fakePipeline{report: &core.Report{}}
	store := &memoryStore{}
	job := NewReviewJob(pipeline, store, discard)

	_, err := job.Run(t.Context(), &core.Submission{RepoURL: "https://github.com/octo/app", PRLink: "https://github.com/octo/app/pull/x"})

	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Zero(t, pipeline.calls)
	assert.Empty(t, store.saved)
}

func TestReviewJob_AbortedRunIsStoredAsFailed(t *testing.T) {
	lookupErr := fmt.Errorf("failed to look up pull request #7: %w", core.ErrNotFound)
	store := &memoryStore{}
	job := NewReviewJob(&fakePipeline{err: lookupErr}, store, discard)

	sub := validSubmission
	_, err := job.Run(t.Context(), &sub)

	assert.ErrorIs(t, err, core.ErrNotFound)
	require.Len(t, store.saved, 1)
	assert.Equal(t, core.StatusFailed, store.saved[0].status)
	assert.Contains(t, store.saved[0].feedback, "failed to look up pull request #7")
}

func TestReviewJob_StoreFailureStillReturnsReport(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}
	job := NewReviewJob(&fakePipeline{report: &core.Report{Status: core.StatusMerged}}, store, discard)

	sub := validSubmission
	report, err := job.Run(t.Context(), &sub)

	assert.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, core.StatusMerged, report.Status)
}

func TestDispatcher_RunsQueuedSubmissions(t *testing.T) {
	store := &memoryStore{}
	job := NewReviewJob(&fakePipeline{report: &core.Report{Status: core.StatusPending}}, store, discard)
	d := NewDispatcher(job, 2, discard)

	for i := 1; i <= 5; i++ {
		sub := core.Submission{RepoURL: validSubmission.RepoURL, PRLink: fmt.Sprintf("%s/pull/%d", validSubmission.RepoURL, i)}
		require.NoError(t, d.Dispatch(t.Context(), &sub))
	}
	d.Stop()

	assert.Equal(t, 5, store.count())
}

func TestDispatcher_RejectsInvalidSubmission(t *testing.T) {
	d := NewDispatcher(NewReviewJob(&fakePipeline{report: &core.Report{}}, &memoryStore{}, discard), 1, discard)
	defer d.Stop()

	err := d.Dispatch(t.Context(), &core.Submission{RepoURL: "https://github.com/octo/app"})
	assert.ErrorIs(t, err, core.ErrValidation)
}
