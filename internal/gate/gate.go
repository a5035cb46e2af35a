// Package gate decides whether a reviewed pull request may be merged automatically.
package gate

import (
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
)

const minQualityScore = 5.0

// Hard blocker reasons, in rule order.
const (
	ReasonConflicts        = "PR has conflicts"
	ReasonDraft            = "PR is in draft state"
	ReasonLowQuality       = "AI quality score too low"
	ReasonCriticalSecurity = "critical security issues found"
)

// Input is everything the gate looks at.
type Input struct {
	PR      *core.PullRequest
	CI      core.CIStatus
	Reviews []core.ReviewVerdict
	Risk    core.RiskAssessment
	AI      core.AIReviewResult
	// Protection is the base branch protection; the zero value means unprotected.
	Protection core.BranchProtection
}

// Evaluator applies the hard blocker rules and records advisory notes.
type Evaluator struct {
	requiredApprovals int
}

// New returns an Evaluator. requiredApprovals only affects advisory notes.
func New(requiredApprovals int) *Evaluator {
	return &Evaluator{requiredApprovals: requiredApprovals}
}

// Preflight handles terminal PR lifecycles. It returns false when the PR is
// open and the pipeline should continue.
func Preflight(pr *core.PullRequest) (core.MergeDecision, bool) {
	switch {
	case pr.Merged:
		return core.MergeDecision{
			Status:  core.StatusMerged,
			Reasons: []string{"PR is already merged"},
		}, true
	case pr.State == "closed":
		return core.MergeDecision{
			Status:  core.StatusBlocked,
			Reasons: []string{"PR is closed"},
		}, true
	default:
		return core.MergeDecision{}, false
	}
}

// Evaluate returns the merge decision. Every applicable hard blocker is listed;
// advisories never change the outcome.
func (e *Evaluator) Evaluate(in Input) core.MergeDecision {
	if d, terminal := Preflight(in.PR); terminal {
		return d
	}

	var reasons []string
	if in.PR.HasConflicts() {
		reasons = append(reasons, ReasonConflicts)
	}
	if in.PR.Draft {
		reasons = append(reasons, ReasonDraft)
	}
	if in.AI.QualityScore < minQualityScore {
		reasons = append(reasons, ReasonLowQuality)
	}
	if HasCriticalSecurityIssue(in.AI.SecurityIssues) {
		reasons = append(reasons, ReasonCriticalSecurity)
	}

	decision := core.MergeDecision{
		Allowed:    len(reasons) == 0,
		Actionable: true,
		Reasons:    reasons,
		Advisories: e.advisories(in),
		Status:     core.StatusPending,
	}
	if !decision.Allowed {
		decision.Status = core.StatusRejected
	}
	return decision
}

// HasCriticalSecurityIssue reports whether any issue text mentions "critical"
// or "severe", case-insensitively.
func HasCriticalSecurityIssue(issues []string) bool {
	for _, issue := range issues {
		lower := strings.ToLower(issue)
		if strings.Contains(lower, "critical") || strings.Contains(lower, "severe") {
			return true
		}
	}
	return false
}

func (e *Evaluator) advisories(in Input) []string {
	var notes []string

	approvals, changesRequested := core.CountReviews(in.Reviews)
	if changesRequested > 0 {
		notes = append(notes, fmt.Sprintf("%d reviewer(s) requested changes", changesRequested))
	}
	if approvals < e.requiredApprovals {
		notes = append(notes, fmt.Sprintf("Needs %d approval(s), has %d", e.requiredApprovals, approvals))
	}

	if in.CI.State != core.CIStateSuccess {
		note := fmt.Sprintf("CI state is %q", displayState(in.CI.State))
		if failing := in.CI.FailingChecks(); len(failing) > 0 {
			names := make([]string, 0, len(failing))
			for _, c := range failing {
				names = append(names, fmt.Sprintf("%s (%s)", c.Name, c.State))
			}
			note += "; failing checks: " + strings.Join(names, ", ")
		}
		notes = append(notes, note)
	}
	if in.Protection.Protected {
		if unmet := in.CI.UnmetRequired(in.Protection.RequiredChecks); len(unmet) > 0 {
			notes = append(notes, "Not all required status checks have passed: "+strings.Join(unmet, ", "))
		}
	}

	if !HasCriticalSecurityIssue(in.AI.SecurityIssues) {
		for _, issue := range in.AI.SecurityIssues {
			notes = append(notes, "Security note: "+issue)
		}
	}
	if !in.AI.Approved {
		notes = append(notes, "AI review does not recommend merging")
	}
	if in.Risk.ImpactLevel == core.ImpactHigh {
		notes = append(notes, "High impact change")
	}
	return notes
}

func displayState(state string) string {
	if state == "" {
		return "unknown"
	}
	return state
}
