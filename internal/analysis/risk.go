// Package analysis computes risk and complexity signals from a pull request's file changes.
package analysis

import (
	"path"
	"sort"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
)

const (
	complexityPerLine     = 0.1
	largeFileChanges      = 100
	largeFileMultiplier   = 1.5
	highComplexityScore   = 50
	mediumComplexityScore = 20

	// RootComponent groups files that live at the repository root.
	RootComponent = "root"
)

// Policy is the set of patterns that flag a file as high risk.
type Policy struct {
	SensitiveKeywords  []string
	HighRiskFiles      []string
	HighRiskExtensions []string
}

// DefaultPolicy returns the built-in risk patterns.
func DefaultPolicy() Policy {
	return Policy{
		SensitiveKeywords: []string{
			"security", "auth", "password", "crypto",
			"payment", "token", "secret", "credential",
		},
		HighRiskFiles: []string{
			"settings.py", "config.py", "requirements.txt", "package.json",
			"Dockerfile", "docker-compose.yml", ".env",
		},
		HighRiskExtensions: []string{".sql", ".sh", ".env", ".yml", ".yaml"},
	}
}

// Analyzer is a pure risk calculator. The zero value is not usable; use New.
type Analyzer struct {
	policy Policy
}

// New returns an Analyzer for the given policy.
func New(policy Policy) *Analyzer {
	return &Analyzer{policy: policy}
}

// IsSensitive reports whether the lowercased path contains a sensitive keyword.
func (a *Analyzer) IsSensitive(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, kw := range a.policy.SensitiveKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsHighRisk reports whether a file is sensitive by keyword, name or extension.
// High-risk names match anywhere in the path, so variants such as
// Dockerfile.prod or .env.production are flagged too.
func (a *Analyzer) IsHighRisk(filePath string) bool {
	if a.IsSensitive(filePath) {
		return true
	}
	for _, name := range a.policy.HighRiskFiles {
		if strings.Contains(filePath, name) {
			return true
		}
	}
	base := path.Base(filePath)
	for _, ext := range a.policy.HighRiskExtensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// Assess computes the risk assessment for a change set. An empty input yields
// a zero-valued assessment with a low impact level.
func (a *Analyzer) Assess(files []core.FileChange) core.RiskAssessment {
	assessment := core.RiskAssessment{ImpactLevel: core.ImpactLow}
	if len(files) == 0 {
		return assessment
	}

	components := make(map[string]struct{})
	covered := make(map[string]struct{})

	for _, f := range files {
		components[TopLevelComponent(f.Path)] = struct{}{}

		if a.IsHighRisk(f.Path) {
			assessment.HighRiskFiles = append(assessment.HighRiskFiles, f.Path)
		}

		delta := float64(f.Additions+f.Deletions) * complexityPerLine
		if f.Changes > largeFileChanges {
			delta *= largeFileMultiplier
		}
		assessment.ComplexityScore += delta

		if IsTestFile(f.Path) {
			assessment.TestFiles++
			covered[CoveredPath(f.Path)] = struct{}{}
		}
	}

	assessment.TestRatio = float64(assessment.TestFiles) / float64(len(files))
	assessment.AffectedComponents = sortedKeys(components)
	assessment.CoveredPaths = sortedKeys(covered)
	assessment.ImpactLevel = ImpactFor(assessment.ComplexityScore, len(assessment.HighRiskFiles) > 0)
	return assessment
}

// ImpactFor applies the impact thresholds; the high condition is checked first.
func ImpactFor(score float64, hasHighRisk bool) core.ImpactLevel {
	switch {
	case score > highComplexityScore || hasHighRisk:
		return core.ImpactHigh
	case score > mediumComplexityScore:
		return core.ImpactMedium
	default:
		return core.ImpactLow
	}
}

// TopLevelComponent returns the first path segment, or RootComponent for root files.
func TopLevelComponent(filePath string) string {
	trimmed := strings.TrimPrefix(filePath, "/")
	if i := strings.Index(trimmed, "/"); i > 0 {
		return trimmed[:i]
	}
	return RootComponent
}

// IsTestFile reports whether the path looks like a test.
func IsTestFile(filePath string) bool {
	return strings.Contains(strings.ToLower(filePath), "test")
}

// CoveredPath strips the test markers from a test file path.
func CoveredPath(filePath string) string {
	p := strings.ReplaceAll(filePath, "tests/", "")
	return strings.ReplaceAll(p, "test_", "")
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
