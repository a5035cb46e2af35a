package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/merge-warden/internal/core"
	"github.com/sevigo/merge-warden/mocks"
)

func TestFormatReport(t *testing.T) {
	tests := []struct {
		name     string
		report   *core.Report
		contains []string
		excludes []string
	}{
		{
			name: "merged run",
			report: &core.Report{
				Status:   core.StatusMerged,
				Feedback: []string{"AI quality score: 8.0", "Merged as def456"},
				AI:       &core.AIReviewResult{QualityScore: 8, Approved: true, Source: "ollama/llama3"},
				Risk:     &core.RiskAssessment{ImpactLevel: core.ImpactLow, ComplexityScore: 3.2},
				Backup:   &core.BackupReference{Name: "merge-warden/backup/pr-5-abc1234", Created: true},
			},
			contains: []string{
				"### ✅ Merge Warden: Merged",
				"| Quality score | 8.0 / 10 |",
				"| Reviewed by | ollama/llama3 |",
				"| Impact | 🟢 low |",
				"- AI quality score: 8.0\n- Merged as def456\n",
			},
			excludes: []string{"Backup branch"},
		},
		{
			name: "conflict keeps backup note",
			report: &core.Report{
				Status: core.StatusConflict,
				Backup: &core.BackupReference{Name: "merge-warden/backup/pr-5-abc1234", SHA: "abc1234def", Created: true},
			},
			contains: []string{
				"### ⚔️ Merge Warden: Conflict",
				"Backup branch `merge-warden/backup/pr-5-abc1234` points at `abc1234`",
				"- No issues found.",
			},
			excludes: []string{"| Signal |"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReport(tt.report)
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, got, e)
			}
		})
	}
}

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	report := &core.Report{Owner: "octo", Repo: "app", Number: 5, Status: core.StatusRejected}
	client.EXPECT().
		CreateComment(gomock.Any(), "octo", "app", 5, FormatReport(report)).
		Return(nil)

	assert.NoError(t, NewReportPublisher().Publish(t.Context(), client, report))
}

func TestPublish_MissingIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	err := NewReportPublisher().Publish(t.Context(), client, &core.Report{Status: core.StatusFailed})
	assert.Error(t, err)
}
