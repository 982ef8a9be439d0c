package metrics

import (
	"sort"
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// PriorityRow is one group's ticket counts per priority, aligned with
// PriorityBreakdown.Columns.
type PriorityRow struct {
	Name   string `json:"name" yaml:"name"`
	Counts []int  `json:"counts" yaml:"counts"`
}

// Total sums the row across all priorities.
func (r PriorityRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// PriorityBreakdown is a group x priority count matrix. Columns follow
// ticket.Priorities; rows are ordered by total descending, then name.
type PriorityBreakdown struct {
	Columns []string      `json:"columns" yaml:"columns"`
	Rows    []PriorityRow `json:"rows" yaml:"rows"`
}

// BreakdownByPriority groups tickets by key and counts each group per priority.
func BreakdownByPriority(tickets []ticket.Ticket, key func(ticket.Ticket) string) PriorityBreakdown {
	column := make(map[ticket.Priority]int, len(ticket.Priorities))
	b := PriorityBreakdown{Columns: make([]string, len(ticket.Priorities)), Rows: []PriorityRow{}}
	for i, p := range ticket.Priorities {
		column[p] = i
		b.Columns[i] = string(p)
	}

	index := make(map[string]int)
	for _, t := range tickets {
		name := key(t)
		i, ok := index[name]
		if !ok {
			i = len(b.Rows)
			index[name] = i
			b.Rows = append(b.Rows, PriorityRow{Name: name, Counts: make([]int, len(b.Columns))})
		}
		col, ok := column[t.Priority]
		if !ok {
			col = column[ticket.PriorityUnknown]
		}
		b.Rows[i].Counts[col]++
	}

	sort.SliceStable(b.Rows, func(i, j int) bool {
		ti, tj := b.Rows[i].Total(), b.Rows[j].Total()
		if ti != tj {
			return ti > tj
		}
		return b.Rows[i].Name < b.Rows[j].Name
	})
	return b
}

// AlertTypesByPriority is the alert type x priority breakdown.
func AlertTypesByPriority(tickets []ticket.Ticket) PriorityBreakdown {
	return BreakdownByPriority(tickets, func(t ticket.Ticket) string { return t.AlertType })
}

// UserRequestType returns the first label that t's alert type equals or its
// summary contains, ignoring case.
func UserRequestType(t ticket.Ticket, labels []string) (string, bool) {
	summary := strings.ToLower(t.Summary)
	for _, label := range labels {
		if label == "" {
			continue
		}
		if strings.EqualFold(t.AlertType, label) || strings.Contains(summary, strings.ToLower(label)) {
			return label, true
		}
	}
	return "", false
}

// SplitUserRequests separates user-side requests from alerts. Batch order is kept.
func SplitUserRequests(tickets []ticket.Ticket, labels []string) (requests, alerts []ticket.Ticket) {
	requests = make([]ticket.Ticket, 0)
	alerts = make([]ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if _, ok := UserRequestType(t, labels); ok {
			requests = append(requests, t)
		} else {
			alerts = append(alerts, t)
		}
	}
	return requests, alerts
}

// UserRequestsByPriority breaks user-side requests down by matched label and priority.
func UserRequestsByPriority(requests []ticket.Ticket, labels []string) PriorityBreakdown {
	return BreakdownByPriority(requests, func(t ticket.Ticket) string {
		label, _ := UserRequestType(t, labels)
		return label
	})
}
