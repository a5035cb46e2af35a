package llm

import (
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/analysis"
	"github.com/sevigo/merge-warden/internal/core"
)

const (
	// FallbackSource marks a verdict produced without any model backend.
	FallbackSource = "fallback"

	primaryBaseScore    = 8.0
	securityLinePenalty = 1.5
	breakingLinePenalty = 1.0
	criticalQualityHit  = 2.0

	fallbackBaseScore    = 7.0
	fallbackApproveScore = 7.0
	lowTestRatio         = 0.1

	largeChangeLines   = 500
	largeChangePenalty = 1.0

	minScore = 0.0
	maxScore = 10.0
)

// scoreReply converts a parsed model reply into a review result.
func scoreReply(reply sectionedReply, files []core.FileChange) core.AIReviewResult {
	score := primaryBaseScore
	score -= securityLinePenalty * float64(len(reply.Security))
	score -= breakingLinePenalty * float64(len(reply.Breaking))
	for _, q := range reply.Quality {
		if strings.Contains(strings.ToLower(q), "critical") {
			score -= criticalQualityHit
		}
	}
	if core.TotalChanges(files) > largeChangeLines {
		score -= largeChangePenalty
	}

	feedback := make([]string, 0, len(reply.Quality)+len(reply.Performance))
	feedback = append(feedback, reply.Quality...)
	feedback = append(feedback, reply.Performance...)

	return core.AIReviewResult{
		Approved:        recommends(reply.Recommendation),
		QualityScore:    clamp(score),
		SecurityIssues:  reply.Security,
		BreakingChanges: reply.Breaking,
		Feedback:        feedback,
		TestCoverage:    coverage(files, reply.Tests),
	}
}

func recommends(lines []string) bool {
	text := strings.ToUpper(strings.Join(lines, " "))
	return strings.Contains(text, "YES") || strings.Contains(text, "APPROVE")
}

// Fallback is the deterministic scorer used when no backend produced a usable
// reply. It never fails. The sensitive file scan is independent of the risk
// analyzer's result so the two can be compared.
func Fallback(files []core.FileChange, analyzer *analysis.Analyzer) core.AIReviewResult {
	score := fallbackBaseScore
	var feedback []string

	total := core.TotalChanges(files)
	if total > largeChangeLines {
		score -= largeChangePenalty
		feedback = append(feedback, fmt.Sprintf("Large change set: %d lines changed", total))
	}

	cov := coverage(files, nil)
	if cov.Ratio < lowTestRatio {
		score--
		feedback = append(feedback, fmt.Sprintf("Low test coverage: %.0f%% of changed files are tests", cov.Ratio*100))
	}

	var security []string
	for _, f := range files {
		if analyzer.IsSensitive(f.Path) {
			score--
			security = append(security, "Security-sensitive file modified: "+f.Path)
		}
	}

	score = clamp(score)
	return core.AIReviewResult{
		Approved:       score >= fallbackApproveScore && len(security) == 0,
		QualityScore:   score,
		SecurityIssues: security,
		Feedback:       feedback,
		TestCoverage:   cov,
		Source:         FallbackSource,
	}
}

func coverage(files []core.FileChange, notes []string) core.TestCoverage {
	cov := core.TestCoverage{Notes: notes}
	for _, f := range files {
		if analysis.IsTestFile(f.Path) {
			cov.TestFiles++
		}
	}
	if len(files) > 0 {
		cov.Ratio = float64(cov.TestFiles) / float64(len(files))
	}
	return cov
}

func clamp(score float64) float64 {
	return max(minScore, min(maxScore, score))
}
