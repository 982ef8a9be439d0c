package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Label string    `json:"label" yaml:"label"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether ts falls inside the window. The zero time never does.
func (w Window) Contains(ts time.Time) bool {
	return !ts.IsZero() && !ts.Before(w.Start) && ts.Before(w.End)
}

// WeeklyWindows returns count consecutive windows of days each, ending at now,
// most recent first. Labels are the ISO week number of each window's start.
func WeeklyWindows(now time.Time, count, days int) []Window {
	if count <= 0 || days <= 0 {
		return []Window{}
	}
	span := time.Duration(days) * 24 * time.Hour

	windows := make([]Window, 0, count)
	end := now
	for i := 0; i < count; i++ {
		start := end.Add(-span)
		_, week := start.ISOWeek()
		windows = append(windows, Window{
			Label: fmt.Sprintf("W%02d", week),
			Start: start,
			End:   end,
		})
		end = start
	}
	return windows
}

// View selects which side of the exclusion filter a weekly table counts.
type View string

const (
	ValidView     View = "valid"
	CancelledView View = "cancelled"
	TrendView     View = "trend"
)

// Row names of the WeeklyTrend table.
const (
	TrendAll      = "All Tickets"
	TrendValid    = "Valid"
	TrendExcluded = "Excluded"
)

// WeeklyRow is one name's counts, aligned with WeeklyTable.Columns.
type WeeklyRow struct {
	Name   string `json:"name" yaml:"name"`
	Counts []int  `json:"counts" yaml:"counts"`
}

// WeeklyTable is a name x week count matrix.
type WeeklyTable struct {
	View    View        `json:"view" yaml:"view"`
	Columns []string    `json:"columns" yaml:"columns"`
	Rows    []WeeklyRow `json:"rows" yaml:"rows"`
}

// Attributed reports whether t belongs to name: its extracted cluster or
// namespace equals name, or its summary mentions name. Case-insensitive.
func Attributed(t ticket.Ticket, name string) bool {
	if name == "" {
		return false
	}
	if strings.EqualFold(t.Cluster, name) || strings.EqualFold(t.Namespace, name) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Summary), strings.ToLower(name))
}

// WeeklyCounts counts, per name and window, the tickets on the chosen side
// of filter. Both views over the same inputs share rows and columns.
func WeeklyCounts(tickets []ticket.Ticket, names []string, windows []Window, filter *ticket.Filter, view View) WeeklyTable {
	valid, excluded := filter.Partition(tickets)
	selected := valid
	if view == CancelledView {
		selected = excluded
	}

	table := WeeklyTable{
		View:    view,
		Columns: make([]string, len(windows)),
		Rows:    make([]WeeklyRow, 0, len(names)),
	}
	for i, w := range windows {
		table.Columns[i] = w.Label
	}

	for _, name := range names {
		row := WeeklyRow{Name: name, Counts: make([]int, len(windows))}
		for _, t := range selected {
			if !Attributed(t, name) {
				continue
			}
			for i, w := range windows {
				if w.Contains(t.Created) {
					row.Counts[i]++
				}
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// WeeklyTrend counts every ticket per window regardless of attribution, with
// the valid and excluded sides of filter as separate rows.
func WeeklyTrend(tickets []ticket.Ticket, windows []Window, filter *ticket.Filter) WeeklyTable {
	valid, excluded := filter.Partition(tickets)

	table := WeeklyTable{View: TrendView, Columns: make([]string, len(windows))}
	for i, w := range windows {
		table.Columns[i] = w.Label
	}
	table.Rows = []WeeklyRow{
		{Name: TrendAll, Counts: countWindows(tickets, windows)},
		{Name: TrendValid, Counts: countWindows(valid, windows)},
		{Name: TrendExcluded, Counts: countWindows(excluded, windows)},
	}
	return table
}

func countWindows(tickets []ticket.Ticket, windows []Window) []int {
	counts := make([]int, len(windows))
	for _, t := range tickets {
		for i, w := range windows {
			if w.Contains(t.Created) {
				counts[i]++
			}
		}
	}
	return counts
}

// Total sums one row across all windows.
func (r WeeklyRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}
