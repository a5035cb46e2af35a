package core

// ImpactLevel classifies the blast radius of a change set.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// RiskAssessment is the derived risk and complexity snapshot of a change set.
type RiskAssessment struct {
	HighRiskFiles      []string
	ComplexityScore    float64
	ImpactLevel        ImpactLevel
	TestRatio          float64
	TestFiles          int
	AffectedComponents []string
	// CoveredPaths are the source paths that a test file in the change set appears to cover.
	CoveredPaths []string
}

// TestCoverage holds structured notes about tests in the change set.
type TestCoverage struct {
	Ratio     float64
	TestFiles int
	Notes     []string
}

// AIReviewResult is the output of the AI review adapter. It has the same shape
// whether it came from a model backend or from the deterministic fallback scorer.
type AIReviewResult struct {
	Approved        bool
	QualityScore    float64
	SecurityIssues  []string
	BreakingChanges []string
	Feedback        []string
	TestCoverage    TestCoverage
	// Source names the backend that produced the verdict, or "fallback".
	Source string
}

// ReviewRequest is everything the AI review adapter sees about a pull request.
type ReviewRequest struct {
	Title      string
	Author     string
	Components []string
	Files      []FileChange
	// Diff is the raw unified diff of the PR, when available.
	Diff string
	// BaseContext holds base-branch files next to the changes, already bounded.
	BaseContext string
}

// TotalChanges sums the provider-reported change counts of all files.
func TotalChanges(files []FileChange) int {
	total := 0
	for _, f := range files {
		total += f.Changes
	}
	return total
}
