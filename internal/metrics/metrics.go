// Package metrics aggregates a classified ticket batch into the tables the report consumes.
//
// Every function accepts an empty batch and returns a zero-valued result.
package metrics

import (
	"sort"
	"strings"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// Count is one category of a Distribution.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Distribution is a group-by-and-count result ordered by count descending, then name.
type Distribution []Count

// Distribute groups tickets by key.
func Distribute(tickets []ticket.Ticket, key func(ticket.Ticket) string) Distribution {
	counts := make(map[string]int)
	for _, t := range tickets {
		counts[key(t)]++
	}
	return fromCounts(counts)
}

// Tally counts occurrences of each name. Blank names are skipped.
func Tally(names []string) Distribution {
	counts := make(map[string]int)
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			counts[n]++
		}
	}
	return fromCounts(counts)
}

func fromCounts(counts map[string]int) Distribution {
	d := make(Distribution, 0, len(counts))
	for name, n := range counts {
		d = append(d, Count{Name: name, Count: n})
	}
	sort.Slice(d, func(i, j int) bool {
		if d[i].Count != d[j].Count {
			return d[i].Count > d[j].Count
		}
		return d[i].Name < d[j].Name
	})
	return d
}

// ByPriority counts tickets per normalized priority.
func ByPriority(tickets []ticket.Ticket) Distribution {
	return Distribute(tickets, func(t ticket.Ticket) string { return string(t.Priority) })
}

// ByCluster counts tickets per extracted cluster.
func ByCluster(tickets []ticket.Ticket) Distribution {
	return Distribute(tickets, func(t ticket.Ticket) string { return t.Cluster })
}

// ByNamespace counts tickets per extracted namespace.
func ByNamespace(tickets []ticket.Ticket) Distribution {
	return Distribute(tickets, func(t ticket.Ticket) string { return t.Namespace })
}

// ByAlertType counts tickets per alert source.
func ByAlertType(tickets []ticket.Ticket) Distribution {
	return Distribute(tickets, func(t ticket.Ticket) string { return t.AlertType })
}

// Total sums all counts.
func (d Distribution) Total() int {
	total := 0
	for _, c := range d {
		total += c.Count
	}
	return total
}

// Get returns the count for name, or zero.
func (d Distribution) Get(name string) int {
	for _, c := range d {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// Triage is the share of board tickets that already have a handler.
type Triage struct {
	Total     int     `json:"total" yaml:"total"`
	Untriaged int     `json:"untriaged" yaml:"untriaged"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// TriageRatio computes (total-untriaged)/total*100. No tickets, or nothing
// left untriaged, counts as fully triaged.
func TriageRatio(total, untriaged int) Triage {
	tr := Triage{Total: total, Untriaged: untriaged, Percent: 100}
	if total == 0 || untriaged == 0 {
		return tr
	}
	tr.Percent = float64(total-untriaged) / float64(total) * 100
	return tr
}

// TriageFromAssignees derives the ratio from a batch when no board counts are
// available: unassigned tickets count as untriaged.
func TriageFromAssignees(tickets []ticket.Ticket) Triage {
	untriaged := 0
	for _, t := range tickets {
		if t.Assignee == "" || t.Assignee == ticket.Unassigned {
			untriaged++
		}
	}
	return TriageRatio(len(tickets), untriaged)
}

// Summary holds the executive-summary counts of a batch.
type Summary struct {
	Total               int `json:"total" yaml:"total"`
	P1                  int `json:"p1" yaml:"p1"`
	CancelledOrResolved int `json:"cancelledOrResolved" yaml:"cancelled_or_resolved"`
	Flagged             int `json:"flagged" yaml:"flagged"`
	Valid               int `json:"valid" yaml:"valid"`
	Excluded            int `json:"excluded" yaml:"excluded"`
}

var closedStatuses = map[string]bool{"cancelled": true, "closed": true, "resolved": true}

// Summarize counts the batch. CancelledOrResolved looks at status only;
// Flagged counts the keyword-derived cancelled flag.
func Summarize(tickets []ticket.Ticket, filter *ticket.Filter) Summary {
	s := Summary{Total: len(tickets)}
	for _, t := range tickets {
		if t.Priority == ticket.P1 {
			s.P1++
		}
		if closedStatuses[strings.ToLower(t.Status)] {
			s.CancelledOrResolved++
		}
		if t.Cancelled {
			s.Flagged++
		}
	}
	valid, excluded := filter.Partition(tickets)
	s.Valid, s.Excluded = len(valid), len(excluded)
	return s
}

// WithPriority returns the tickets of priority p in batch order.
func WithPriority(tickets []ticket.Ticket, p ticket.Priority) []ticket.Ticket {
	out := make([]ticket.Ticket, 0)
	for _, t := range tickets {
		if t.Priority == p {
			out = append(out, t)
		}
	}
	return out
}
