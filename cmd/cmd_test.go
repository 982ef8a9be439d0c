package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-report/internal/config"
	"github.com/dt-pm-tools/jira-report/internal/markdown"
	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/report"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

func TestPipelineRules(t *testing.T) {
	rules := pipelineRules(config.Default())

	require.Len(t, rules.AlertKeywords, 3)
	assert.Equal(t, ticket.Keyword{Match: "troubleshooting", Label: "Troubleshooting"}, rules.AlertKeywords[0])
	assert.Equal(t, []string{"cancelled"}, rules.ExcludedStatuses)

	_, err := ticket.NewPipeline(rules, nil)
	assert.NoError(t, err)
}

func TestApplyPrevious(t *testing.T) {
	prev := report.Report{RunID: "prev", Title: "W40", Summary: metrics.Summary{Total: 4, P1: 1}}
	md, err := markdown.Marshal(prev)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "prev.md")
	require.NoError(t, os.WriteFile(path, []byte(md), 0644))

	cur := report.Report{Summary: metrics.Summary{Total: 6, P1: 1}}
	require.NoError(t, applyPrevious(&cur, path))

	require.NotEmpty(t, cur.Deltas)
	assert.Equal(t, 2, cur.Deltas[0].Change)

	assert.NoError(t, applyPrevious(&cur, ""))
	assert.Error(t, applyPrevious(&cur, filepath.Join(t.TempDir(), "missing.md")))
}

func TestRenderReport_UnknownFormat(t *testing.T) {
	err := renderReport(report.Report{}, "pdf", "")
	assert.ErrorContains(t, err, "unknown format")
}

func TestLegacyCommand(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "dump.json")
	outDir := filepath.Join(dir, "out")

	records := []ticket.Record{
		{Key: "ISD-1", Summary: "Outage on cluster apps-prod-01 namespace wiz", Status: "Open", Priority: "Highest", Assignee: "Dana", Created: "2026-10-12T09:00:00.000+0000"},
		{Key: "ISD-2", Summary: "Troubleshooting login", Status: "Cancelled", Priority: "Medium", Created: "2026-10-13T09:00:00.000+0000"},
		{Key: "ISD-3", Summary: "Quota request", Status: "Open", Priority: "Low", Created: "2026-10-14T09:00:00.000+0000"},
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dumpPath, data, 0644))

	cfgFile = filepath.Join(dir, "missing.yaml")
	legacyDump = dumpPath
	legacyOutDir = outDir
	t.Cleanup(func() { cfgFile, legacyDump, legacyOutDir, legacyReasons = "", "dump.json", "reports", "" })

	require.NoError(t, legacyCmd.RunE(legacyCmd, nil))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "tickets.parquet")
	assert.Contains(t, names, report.CancellationsFile)

	var reportFile string
	for _, n := range names {
		if strings.HasPrefix(n, "weekly_report_w") {
			reportFile = n
		}
	}
	require.NotEmpty(t, reportFile)

	content, err := os.ReadFile(filepath.Join(outDir, reportFile))
	require.NoError(t, err)
	fm, err := markdown.ReadSummary(string(content))
	require.NoError(t, err)
	assert.Equal(t, 3, fm.Summary.Total)
	assert.Equal(t, 1, fm.Summary.Excluded)

	tsv, err := os.ReadFile(filepath.Join(outDir, report.CancellationsFile))
	require.NoError(t, err)
	assert.Contains(t, string(tsv), "ISD-2\tTroubleshooting login\tNo Reason Provided")
	assert.Contains(t, string(content), "| No Reason Provided | 1 |")

	edited := strings.Replace(string(tsv), report.NoReason, "Duplicate", 1)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, report.CancellationsFile), []byte(edited), 0644))
	require.NoError(t, legacyCmd.RunE(legacyCmd, nil))

	tsv, err = os.ReadFile(filepath.Join(outDir, report.CancellationsFile))
	require.NoError(t, err)
	assert.Contains(t, string(tsv), "ISD-2\tTroubleshooting login\tDuplicate", "entered reasons survive a rerun")
	content, err = os.ReadFile(filepath.Join(outDir, reportFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Cancellation Reasons")
	assert.Contains(t, string(content), "| Duplicate | 1 |")

	legacyReasons = filepath.Join(dir, "missing.tsv")
	assert.Error(t, legacyCmd.RunE(legacyCmd, nil))
}

func TestReadDump_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := readDump(path)
	assert.Error(t, err)
}
