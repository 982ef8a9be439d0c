package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/report"
	"github.com/dt-pm-tools/jira-report/internal/source"
)

func sampleReport() report.Report {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return report.Report{
		RunID:       "0b7f9a52-5d7e-4a3c-9d55-8c0e0e2b9a11",
		GeneratedAt: now,
		Title:       "Weekly Operations Report - Week 41",
		Week:        41,
		Summary:     metrics.Summary{Total: 12, P1: 2, CancelledOrResolved: 3, Valid: 10, Excluded: 2},
		Triage:      metrics.TriageRatio(8, 2),
		Priorities:  metrics.Distribution{{Name: "P1", Count: 2}, {Name: "P3", Count: 10}},
		Clusters:    metrics.Distribution{{Name: "apps-prod-01", Count: 12}},
		Weekly: metrics.WeeklyTable{
			View:    metrics.ValidView,
			Columns: []string{"W41", "W40"},
			Rows:    []metrics.WeeklyRow{{Name: "apps-prod-01", Counts: []int{7, 3}}},
		},
		P1Alerts: []report.P1Alert{{Key: "ISD-1", Summary: "Outage | checkout", Status: "Open", Assignee: "Dana"}},
		Postmortems: []source.Postmortem{
			{Title: "PM: checkout", URL: "https://wiki/pm/1", Created: now},
		},
	}
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(sampleReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "---\n"))
	assert.Contains(t, out, "# Weekly Operations Report - Week 41\n")
	assert.Contains(t, out, "- Total Tickets: 12\n")
	assert.Contains(t, out, "- Triage: 75.0% (2 of 8 untriaged)\n")
	assert.Contains(t, out, "| Name | W41 | W40 |\n")
	assert.Contains(t, out, "| apps-prod-01 | 7 | 3 |\n")
	assert.Contains(t, out, `| ISD-1 | Outage \| checkout | Open | Dana |`)
	assert.Contains(t, out, "- [PM: checkout](https://wiki/pm/1) (2026-10-18)\n")
	assert.NotContains(t, out, "Week over Week")
	assert.NotContains(t, out, "Priority Changes")
}

func TestMarshal_EmptySections(t *testing.T) {
	r := sampleReport()
	r.P1Alerts = nil
	r.Postmortems = nil

	out, err := Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, out, "No P1 alerts\n")
	assert.Contains(t, out, "No Post Mortems created in the last week.\n")
}

func TestMarshal_TrendAndBreakdowns(t *testing.T) {
	r := sampleReport()
	r.Trend = metrics.WeeklyTable{
		View:    metrics.TrendView,
		Columns: []string{"W41", "W40"},
		Rows: []metrics.WeeklyRow{
			{Name: metrics.TrendAll, Counts: []int{9, 4}},
			{Name: metrics.TrendValid, Counts: []int{8, 3}},
			{Name: metrics.TrendExcluded, Counts: []int{1, 1}},
		},
	}
	r.AlertPriorities = metrics.PriorityBreakdown{
		Columns: []string{"P1", "P2"},
		Rows:    []metrics.PriorityRow{{Name: "Outage Reporting", Counts: []int{2, 1}}},
	}
	r.CancellationReasons = metrics.Distribution{{Name: "Duplicate", Count: 2}}

	out, err := Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, out, "## Weekly Trend\n\n| Name | W41 | W40 |\n")
	assert.Contains(t, out, "| All Tickets | 9 | 4 |\n")
	assert.Contains(t, out, "## Alert Types by Priority\n\n| Name | P1 | P2 | Total |\n")
	assert.Contains(t, out, "| Outage Reporting | 2 | 1 | 3 |\n")
	assert.NotContains(t, out, "User Requests by Priority")
	assert.Contains(t, out, "## Cancellation Reasons\n\n| Name | Count |\n| --- | --- |\n| Duplicate | 2 |\n")
}

func TestMarshal_Deltas(t *testing.T) {
	r := sampleReport()
	r.Deltas = report.Compare(metrics.Summary{Total: 9, P1: 4}, r.Summary)

	out, err := Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, out, "| Total | 9 | 12 | +3 |")
	assert.Contains(t, out, "| P1 | 4 | 2 | -2 |")
}

func TestReadSummary_FromMarshal(t *testing.T) {
	r := sampleReport()
	out, err := Marshal(r)
	require.NoError(t, err)

	fm, err := ReadSummary(out)
	require.NoError(t, err)

	assert.Equal(t, r.RunID, fm.RunID)
	assert.Equal(t, 41, fm.Week)
	assert.Equal(t, r.Summary, fm.Summary)
	assert.Equal(t, "2026-10-18T12:00:00Z", fm.Generated)
	assert.InDelta(t, 75.0, fm.Triage.Percent, 1e-9)
}

func TestReadSummary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "# Report\n"},
		{"unterminated", "---\nrunId: x\n"},
		{"bad yaml", "---\nrunId: [\n---\n"},
		{"missing run id", "---\ntitle: Report\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSummary(tt.content)
			assert.Error(t, err)
		})
	}
}
