package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/sevigo/merge-warden/internal/core"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
	labelColor   = color.New(color.FgWhite, color.Bold)
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("51")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 2)

func banner(title, subtitle string) string {
	return bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, subtitle))
}

func statusColor(s core.Status) *color.Color {
	switch s {
	case core.StatusMerged:
		return successColor
	case core.StatusPending, core.StatusReviewNeeded:
		return warnColor
	default:
		return errorColor
	}
}

func printReport(w io.Writer, r *core.Report) {
	labelColor.Fprint(w, "Status: ")
	statusColor(r.Status).Fprintln(w, r.Status)

	if r.RecordID != 0 {
		dimColor.Fprintf(w, "Record: #%d\n", r.RecordID)
	}
	if r.AI != nil {
		fmt.Fprintf(w, "Quality score: %.1f / 10 (%s)\n", r.AI.QualityScore, r.AI.Source)
	}
	if r.Risk != nil {
		fmt.Fprintf(w, "Impact: %s, complexity %.1f\n", r.Risk.ImpactLevel, r.Risk.ComplexityScore)
	}
	if r.Backup != nil && r.Backup.Created {
		fmt.Fprintf(w, "Backup: %s\n", r.Backup.Name)
	}
	if !r.StartedAt.IsZero() && !r.CompletedAt.IsZero() {
		dimColor.Fprintf(w, "Took %s\n", r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}

	fmt.Fprintln(w)
	titleColor.Fprintln(w, "Feedback")
	if len(r.Feedback) == 0 {
		dimColor.Fprintln(w, "  (none)")
		return
	}
	for _, line := range r.Feedback {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func printRecord(w io.Writer, rec *core.ReviewRecord) {
	titleColor.Fprintf(w, "Review #%d\n", rec.ID)
	fmt.Fprintf(w, "Repository: %s\n", rec.RepoURL)
	fmt.Fprintf(w, "Pull request: %s\n", rec.PRLink)
	labelColor.Fprint(w, "Status: ")
	statusColor(rec.Status).Fprintln(w, rec.Status)
	dimColor.Fprintf(w, "Updated: %s\n\n", rec.UpdatedAt.Format(time.RFC3339))

	for _, line := range core.SplitFeedback(rec.Feedback) {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func printRecords(w io.Writer, records []core.ReviewRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPULL REQUEST\tUPDATED")
	fmt.Fprintln(tw, "--\t------\t------------\t-------")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", rec.ID, rec.Status, rec.PRLink, rec.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
