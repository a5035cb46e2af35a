package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/core"
)

type fakeGenerator struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func newTestReviewer(t *testing.T, backends ...Backend) Reviewer {
	t.Helper()
	pm, err := NewPromptManager()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReviewer(backends, pm, analysis.New(analysis.DefaultPolicy()), Options{Timeout: time.Second, MaxDiffBytes: 12000}, logger)
}

func change(path string, n int) core.FileChange {
	return core.FileChange{Path: path, Additions: n, Changes: n, Status: core.FileModified, Patch: "@@ -1 +1 @@\n+x"}
}

func TestReview_PrimaryBackend(t *testing.T) {
	gen := &fakeGenerator{reply: `SECURITY:
- Password compared without constant time
QUALITY:
- critical: panics on nil config
- Naming is inconsistent
BREAKING: none
PERFORMANCE: fine
RECOMMENDATION: YES`}
	r := newTestReviewer(t, Backend{Name: "ollama/llama3", Provider: "ollama", Generator: gen})

	req := core.ReviewRequest{
		Title:      "Add login",
		Author:     "octocat",
		Components: []string{"app"},
		Files:      []core.FileChange{change("app/login.go", 40), change("app/login_test.go", 20)},
	}
	got := r.Review(context.Background(), req)

	assert.Equal(t, "ollama/llama3", got.Source)
	assert.True(t, got.Approved)
	assert.InDelta(t, 8.0-1.5-2.0, got.QualityScore, 0.0001)
	assert.Equal(t, []string{"Password compared without constant time"}, got.SecurityIssues)
	assert.Equal(t, []string{"critical: panics on nil config", "Naming is inconsistent", "fine"}, got.Feedback)
	assert.Equal(t, 1, got.TestCoverage.TestFiles)
	assert.InDelta(t, 0.5, got.TestCoverage.Ratio, 0.0001)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Title: Add login")
	assert.Contains(t, gen.prompts[0], "Affected components: app")
	assert.Contains(t, gen.prompts[0], "- app/login.go (modified, 40 additions, 0 deletions)")
	assert.Contains(t, gen.prompts[0], "File: app/login.go")
}

func TestReview_FallsThroughBackends(t *testing.T) {
	failing := &fakeGenerator{err: errors.New("connection refused")}
	unusable := &fakeGenerator{reply: "Looks great, ship it!"}
	good := &fakeGenerator{reply: "RECOMMENDATION: NO"}

	r := newTestReviewer(t,
		Backend{Name: "a", Provider: "ollama", Generator: failing},
		Backend{Name: "b", Provider: "gemini", Generator: unusable},
		Backend{Name: "c", Provider: "ollama", Generator: good},
	)

	got := r.Review(context.Background(), core.ReviewRequest{Files: []core.FileChange{change("a.go", 600)}})

	assert.Equal(t, "c", got.Source)
	assert.False(t, got.Approved)
	assert.InDelta(t, 7.0, got.QualityScore, 0.0001)
	assert.Len(t, failing.prompts, 1)
	assert.Len(t, unusable.prompts, 1)
}

func TestReview_TimeoutUsesFallback(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewReviewer(
		[]Backend{{Name: "slow", Provider: "ollama", Generator: &fakeGenerator{block: true}}},
		pm, analysis.New(analysis.DefaultPolicy()),
		Options{Timeout: 10 * time.Millisecond, MaxDiffBytes: 12000}, logger,
	)

	got := r.Review(context.Background(), core.ReviewRequest{Files: []core.FileChange{change("a.go", 10), change("a_test.go", 10)}})

	assert.Equal(t, FallbackSource, got.Source)
	assert.InDelta(t, 7.0, got.QualityScore, 0.0001)
	assert.True(t, got.Approved)
}

func TestReview_IsTotal(t *testing.T) {
	r := newTestReviewer(t)

	inputs := []core.ReviewRequest{
		{},
		{Files: []core.FileChange{{Path: "logo.png", Binary: true}}},
		{Files: []core.FileChange{change("secret/token/auth/password.go", 100000)}},
	}
	for _, req := range inputs {
		got := r.Review(context.Background(), req)
		assert.Equal(t, FallbackSource, got.Source)
		assert.GreaterOrEqual(t, got.QualityScore, 0.0)
		assert.LessOrEqual(t, got.QualityScore, 10.0)
	}
}

func TestFallback_SizeAndCoverage(t *testing.T) {
	files := []core.FileChange{change("pkg/a.go", 300), change("pkg/b.go", 300)}

	got := Fallback(files, analysis.New(analysis.DefaultPolicy()))

	assert.InDelta(t, 5.0, got.QualityScore, 0.0001)
	assert.False(t, got.Approved)
	assert.Empty(t, got.SecurityIssues)
	assert.Equal(t, FallbackSource, got.Source)
	assert.Len(t, got.Feedback, 2)
}

func TestFallback_SecurityFile(t *testing.T) {
	files := []core.FileChange{change("app/security/auth.py", 170)}

	got := Fallback(files, analysis.New(analysis.DefaultPolicy()))

	assert.InDelta(t, 5.0, got.QualityScore, 0.0001)
	assert.LessOrEqual(t, got.QualityScore, 6.0)
	assert.False(t, got.Approved)
	require.Len(t, got.SecurityIssues, 1)
	assert.Equal(t, "Security-sensitive file modified: app/security/auth.py", got.SecurityIssues[0])
	for _, issue := range got.SecurityIssues {
		lower := strings.ToLower(issue)
		assert.NotContains(t, lower, "critical")
		assert.NotContains(t, lower, "severe")
	}
}

func TestFallback_CleanChangeApproves(t *testing.T) {
	files := []core.FileChange{change("pkg/a.go", 10), change("pkg/a_test.go", 10)}

	got := Fallback(files, analysis.New(analysis.DefaultPolicy()))

	assert.InDelta(t, 7.0, got.QualityScore, 0.0001)
	assert.True(t, got.Approved)
}

func TestScoreReply_Clamps(t *testing.T) {
	reply := sectionedReply{Security: make([]string, 10), Markers: 1}
	got := scoreReply(reply, nil)
	assert.Zero(t, got.QualityScore)
}

func TestReview_BaseContextInPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "RECOMMENDATION: yes"}
	r := newTestReviewer(t, Backend{Name: "ollama/llama3", Provider: "ollama", Generator: gen})

	r.Review(context.Background(), core.ReviewRequest{
		Files:       []core.FileChange{change("app/login.go", 5)},
		BaseContext: "File: app/session.go\npackage app\n",
	})

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Relevant Base Branch Context:\nFile: app/session.go")
}

func TestReview_EchoedPromptIsNotApproval(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)
	prompt, err := pm.Render(CodeReviewPrompt, promptData{Files: []core.FileChange{change("a.go", 5)}})
	require.NoError(t, err)

	r := newTestReviewer(t, Backend{Name: "echo", Provider: "ollama", Generator: &fakeGenerator{reply: prompt}})
	got := r.Review(context.Background(), core.ReviewRequest{Files: []core.FileChange{change("a.go", 5)}})

	assert.Equal(t, "echo", got.Source)
	assert.False(t, got.Approved)
	assert.NotContains(t, prompt, "Relevant Base Branch Context")
}
