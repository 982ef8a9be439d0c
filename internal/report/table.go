package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dt-pm-tools/jira-report/internal/metrics"
)

const (
	noP1Alerts     = "No P1 alerts"
	noPostmortems  = "No Post Mortems created in the last week."
	postmortemDate = "2006-01-02"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// WriteTable renders r as human-readable terminal tables.
func WriteTable(w io.Writer, r Report) error {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(r.Title))
	fmt.Fprintf(w, "Run %s at %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	heading(w, "Executive Summary")
	fmt.Fprintf(w, "Total Tickets: %d\nP1 Tickets: %d\nCancelled/Resolved: %d\nValid Alerts: %d\nExcluded: %d\n",
		r.Summary.Total, r.Summary.P1, r.Summary.CancelledOrResolved, r.Summary.Valid, r.Summary.Excluded)
	fmt.Fprintf(w, "Triage: %.1f%% (%d of %d untriaged)\n", r.Triage.Percent, r.Triage.Untriaged, r.Triage.Total)
	if len(r.UnmappedPriorities) > 0 {
		fmt.Fprintln(w, warnColor.Sprintf("Unmapped priorities: %s", strings.Join(r.UnmappedPriorities, ", ")))
	}

	if len(r.Deltas) > 0 {
		heading(w, "Week over Week")
		if err := writeDeltas(w, r.Deltas); err != nil {
			return err
		}
	}

	for _, d := range []struct {
		title string
		dist  metrics.Distribution
	}{
		{"Priority Distribution", r.Priorities},
		{"Cluster Distribution", r.Clusters},
		{"Namespace Distribution", r.Namespaces},
		{"Alert Type Distribution", r.AlertTypes},
	} {
		heading(w, d.title)
		if err := writeCounts(w, d.dist); err != nil {
			return err
		}
	}

	heading(w, "Weekly Trend")
	if err := writeWeekly(w, r.Trend); err != nil {
		return err
	}
	heading(w, "Weekly Valid Alerts")
	if err := writeWeekly(w, r.Weekly); err != nil {
		return err
	}
	heading(w, "Weekly Cancelled Alerts")
	if err := writeWeekly(w, r.WeeklyCancelled); err != nil {
		return err
	}

	heading(w, "Alert Types by Priority")
	if err := writeBreakdown(w, r.AlertPriorities); err != nil {
		return err
	}
	if len(r.UserRequestPriorities.Rows) > 0 {
		heading(w, "User Requests by Priority")
		if err := writeBreakdown(w, r.UserRequestPriorities); err != nil {
			return err
		}
	}

	heading(w, "P1 Alerts")
	if err := writeP1(w, r.P1Alerts); err != nil {
		return err
	}

	if len(r.ClusterAlerts) > 0 {
		heading(w, "Untriaged Alerts by Cluster")
		if err := writeCounts(w, r.ClusterAlerts); err != nil {
			return err
		}
	}
	if len(r.NamespaceAlerts) > 0 {
		heading(w, "Untriaged Alerts by Namespace")
		if err := writeCounts(w, r.NamespaceAlerts); err != nil {
			return err
		}
	}

	if len(r.CancellationReasons) > 0 {
		heading(w, "Cancellation Reasons")
		if err := writeCounts(w, r.CancellationReasons); err != nil {
			return err
		}
	}

	heading(w, "P1 - Post Mortems")
	if len(r.Postmortems) == 0 {
		fmt.Fprintln(w, noPostmortems)
	}
	for _, pm := range r.Postmortems {
		fmt.Fprintf(w, "- %s (%s) %s\n", pm.Title, pm.Created.Format(postmortemDate), pm.URL)
	}

	if len(r.Transcripts) > 0 {
		heading(w, "Priority Changes")
		for _, key := range r.Transcripts.Keys() {
			for _, tr := range r.Transcripts[key] {
				fmt.Fprintf(w, "%s  %s  %s\n", key, tr.Timestamp.Format("2006-01-02 15:04"), tr.Priority)
			}
		}
	}
	return nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingColor.Sprint(title))
}

func render(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCounts(w io.Writer, counts []metrics.Count) error {
	data := make([][]string, 0, len(counts))
	for _, c := range counts {
		data = append(data, []string{c.Name, strconv.Itoa(c.Count)})
	}
	return render(w, []string{"Name", "Count"}, data)
}

func writeWeekly(w io.Writer, table metrics.WeeklyTable) error {
	headers := append([]string{"Name"}, table.Columns...)
	headers = append(headers, "Total")

	data := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		line := []string{row.Name}
		for _, c := range row.Counts {
			line = append(line, strconv.Itoa(c))
		}
		line = append(line, strconv.Itoa(row.Total()))
		data = append(data, line)
	}
	return render(w, headers, data)
}

func writeBreakdown(w io.Writer, b metrics.PriorityBreakdown) error {
	headers := append([]string{"Name"}, b.Columns...)
	headers = append(headers, "Total")

	data := make([][]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		line := []string{row.Name}
		for _, c := range row.Counts {
			line = append(line, strconv.Itoa(c))
		}
		line = append(line, strconv.Itoa(row.Total()))
		data = append(data, line)
	}
	return render(w, headers, data)
}

func writeP1(w io.Writer, alerts []P1Alert) error {
	if len(alerts) == 0 {
		fmt.Fprintln(w, noP1Alerts)
		return nil
	}
	data := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		data = append(data, []string{a.Key, a.Summary, a.Status, a.Assignee})
	}
	return render(w, []string{"Key", "Summary", "Status", "Assignee"}, data)
}

func writeDeltas(w io.Writer, deltas []Delta) error {
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	data := make([][]string, 0, len(deltas))
	for _, d := range deltas {
		var change string
		switch {
		case d.Change > 0:
			change = red(fmt.Sprintf("+%d ▲", d.Change))
		case d.Change < 0:
			change = green(fmt.Sprintf("%d ▼", d.Change))
		default:
			change = "0"
		}
		data = append(data, []string{d.Name, strconv.Itoa(d.Previous), strconv.Itoa(d.Current), change})
	}
	return render(w, []string{"Metric", "Previous", "Current", "Delta"}, data)
}
