package markdown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/report"
)

// Marshal renders a report as markdown with YAML frontmatter.
func Marshal(r report.Report) (string, error) {
	fm, err := yaml.Marshal(Frontmatter{
		RunID:     r.RunID,
		Title:     r.Title,
		Week:      r.Week,
		Generated: r.GeneratedAt.UTC().Format(time.RFC3339),
		Summary:   r.Summary,
		Triage:    r.Triage,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	b.WriteString(fmt.Sprintf("# %s\n\n", r.Title))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(fmt.Sprintf("- Total Tickets: %d\n", r.Summary.Total))
	b.WriteString(fmt.Sprintf("- P1 Tickets: %d\n", r.Summary.P1))
	b.WriteString(fmt.Sprintf("- Cancelled/Resolved: %d\n", r.Summary.CancelledOrResolved))
	b.WriteString(fmt.Sprintf("- Valid Alerts: %d\n", r.Summary.Valid))
	b.WriteString(fmt.Sprintf("- Excluded: %d\n", r.Summary.Excluded))
	b.WriteString(fmt.Sprintf("- Triage: %.1f%% (%d of %d untriaged)\n\n", r.Triage.Percent, r.Triage.Untriaged, r.Triage.Total))

	if len(r.Deltas) > 0 {
		b.WriteString("## Week over Week\n\n")
		rows := make([][]string, 0, len(r.Deltas))
		for _, d := range r.Deltas {
			rows = append(rows, []string{d.Name, strconv.Itoa(d.Previous), strconv.Itoa(d.Current), signed(d.Change)})
		}
		writeTable(&b, []string{"Metric", "Previous", "Current", "Delta"}, rows)
	}

	b.WriteString("## P1 - Post Mortems\n\n")
	if len(r.Postmortems) == 0 {
		b.WriteString("No Post Mortems created in the last week.\n\n")
	} else {
		for _, pm := range r.Postmortems {
			b.WriteString(fmt.Sprintf("- [%s](%s) (%s)\n", pm.Title, pm.URL, pm.Created.Format("2006-01-02")))
		}
		b.WriteString("\n")
	}

	writeDistribution(&b, "Priority Distribution", r.Priorities)
	writeDistribution(&b, "Cluster Distribution", r.Clusters)
	writeDistribution(&b, "Namespace Distribution", r.Namespaces)
	writeDistribution(&b, "Alert Type Distribution", r.AlertTypes)

	writeWeekly(&b, "Weekly Trend", r.Trend)
	writeWeekly(&b, "Weekly Valid Alerts", r.Weekly)
	writeWeekly(&b, "Weekly Cancelled Alerts", r.WeeklyCancelled)

	writeBreakdown(&b, "Alert Types by Priority", r.AlertPriorities)
	if len(r.UserRequestPriorities.Rows) > 0 {
		writeBreakdown(&b, "User Requests by Priority", r.UserRequestPriorities)
	}

	b.WriteString("## P1 Alerts\n\n")
	if len(r.P1Alerts) == 0 {
		b.WriteString("No P1 alerts\n\n")
	} else {
		rows := make([][]string, 0, len(r.P1Alerts))
		for _, a := range r.P1Alerts {
			rows = append(rows, []string{a.Key, a.Summary, a.Status, a.Assignee})
		}
		writeTable(&b, []string{"Key", "Summary", "Status", "Assignee"}, rows)
	}

	if len(r.ClusterAlerts) > 0 {
		writeDistribution(&b, "Untriaged Alerts by Cluster", r.ClusterAlerts)
	}
	if len(r.NamespaceAlerts) > 0 {
		writeDistribution(&b, "Untriaged Alerts by Namespace", r.NamespaceAlerts)
	}

	if len(r.CancellationReasons) > 0 {
		writeDistribution(&b, "Cancellation Reasons", r.CancellationReasons)
	}

	if len(r.Transcripts) > 0 {
		b.WriteString("## Priority Changes\n\n")
		var rows [][]string
		for _, key := range r.Transcripts.Keys() {
			for _, tr := range r.Transcripts[key] {
				rows = append(rows, []string{key, tr.Timestamp.Format("2006-01-02 15:04"), tr.Priority})
			}
		}
		writeTable(&b, []string{"Ticket", "When", "Change"}, rows)
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func writeDistribution(b *strings.Builder, title string, counts []metrics.Count) {
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Count)})
	}
	writeTable(b, []string{"Name", "Count"}, rows)
}

func writeWeekly(b *strings.Builder, title string, table metrics.WeeklyTable) {
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	headers := append([]string{"Name"}, table.Columns...)
	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		line := []string{row.Name}
		for _, c := range row.Counts {
			line = append(line, strconv.Itoa(c))
		}
		rows = append(rows, line)
	}
	writeTable(b, headers, rows)
}

func writeBreakdown(b *strings.Builder, title string, breakdown metrics.PriorityBreakdown) {
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	headers := append([]string{"Name"}, breakdown.Columns...)
	headers = append(headers, "Total")
	rows := make([][]string, 0, len(breakdown.Rows))
	for _, row := range breakdown.Rows {
		line := []string{row.Name}
		for _, c := range row.Counts {
			line = append(line, strconv.Itoa(c))
		}
		rows = append(rows, append(line, strconv.Itoa(row.Total())))
	}
	writeTable(b, headers, rows)
}

// writeTable writes a pipe table. Pipes inside cells are escaped.
func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	cols := len(headers)

	b.WriteString("| ")
	b.WriteString(strings.Join(escapeRow(headers), " | "))
	b.WriteString(" |\n")

	sep := make([]string, cols)
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| ")
	b.WriteString(strings.Join(sep, " | "))
	b.WriteString(" |\n")

	for _, row := range rows {
		b.WriteString("| ")
		b.WriteString(strings.Join(escapeRow(padRow(row, cols)), " | "))
		b.WriteString(" |\n")
	}
	b.WriteString("\n")
}

func padRow(row []string, cols int) []string {
	for len(row) < cols {
		row = append(row, "")
	}
	return row
}

func escapeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.ReplaceAll(cell, "|", `\|`)
	}
	return out
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
