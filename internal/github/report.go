package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/sevigo/merge-warden/internal/core"
)

// ReportPublisher posts a run's transcript back to its pull request.
type ReportPublisher interface {
	Publish(ctx context.Context, client Client, report *core.Report) error
}

type reportPublisher struct{}

// NewReportPublisher creates and returns a new instance of a reportPublisher.
func NewReportPublisher() ReportPublisher {
	return &reportPublisher{}
}

func (p *reportPublisher) Publish(ctx context.Context, client Client, report *core.Report) error {
	if report.Owner == "" || report.Repo == "" || report.Number <= 0 {
		return fmt.Errorf("report has no pull request identity")
	}
	return client.CreateComment(ctx, report.Owner, report.Repo, report.Number, FormatReport(report))
}

// FormatReport renders the report as a pull request comment: a status
// headline, the score table and the ordered transcript.
func FormatReport(report *core.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s Merge Warden: %s\n\n", statusIcon(report.Status), report.Status)

	if report.AI != nil || report.Risk != nil {
		sb.WriteString("| Signal | Value |\n")
		sb.WriteString("|--------|-------|\n")
		if report.AI != nil {
			fmt.Fprintf(&sb, "| Quality score | %.1f / 10 |\n", report.AI.QualityScore)
			fmt.Fprintf(&sb, "| AI recommendation | %s |\n", recommendation(report.AI.Approved))
			fmt.Fprintf(&sb, "| Reviewed by | %s |\n", report.AI.Source)
		}
		if report.Risk != nil {
			fmt.Fprintf(&sb, "| Impact | %s %s |\n", impactEmoji(report.Risk.ImpactLevel), report.Risk.ImpactLevel)
			fmt.Fprintf(&sb, "| Complexity | %.1f |\n", report.Risk.ComplexityScore)
			fmt.Fprintf(&sb, "| High-risk files | %d |\n", len(report.Risk.HighRiskFiles))
		}
		sb.WriteString("\n")
	}

	if report.Backup != nil && report.Backup.Created && report.Status != core.StatusMerged {
		fmt.Fprintf(&sb, "> [!NOTE]\n> Backup branch `%s` points at `%s`.\n\n", report.Backup.Name, shortSHA(report.Backup.SHA))
	}

	sb.WriteString("<details>\n<summary>Transcript</summary>\n\n")
	for _, line := range core.SplitFeedback(report.FeedbackText()) {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	sb.WriteString("\n</details>\n")

	return sb.String()
}

func statusIcon(status core.Status) string {
	switch status {
	case core.StatusMerged:
		return "✅"
	case core.StatusPending, core.StatusReviewNeeded:
		return "⏳"
	case core.StatusConflict:
		return "⚔️"
	case core.StatusRejected, core.StatusBlocked:
		return "🚫"
	case core.StatusFailed:
		return "❌"
	default:
		return "📝"
	}
}

func impactEmoji(level core.ImpactLevel) string {
	switch level {
	case core.ImpactHigh:
		return "🔴"
	case core.ImpactMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func recommendation(approved bool) string {
	if approved {
		return "merge"
	}
	return "do not merge"
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
