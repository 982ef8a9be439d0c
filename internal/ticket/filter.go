package ticket

import "strings"

// Dedupe keeps the first ticket seen for each key.
func Dedupe(tickets []Ticket) []Ticket {
	seen := make(map[string]struct{}, len(tickets))
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if _, dup := seen[t.Key]; dup {
			continue
		}
		seen[t.Key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Filter separates valid alerts from noise: excluded statuses and the
// duplicate-handling assignee.
type Filter struct {
	statuses  []string
	duplicate string
}

// NewFilter creates a Filter. Statuses compare case-insensitively; the
// duplicate assignee compares exactly, and an empty one matches nothing.
func NewFilter(excludedStatuses []string, duplicateAssignee string) *Filter {
	var statuses []string
	for _, s := range excludedStatuses {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}
	return &Filter{statuses: statuses, duplicate: duplicateAssignee}
}

// IsExcluded reports whether t is noise for either reason. A nil Filter excludes nothing.
func (f *Filter) IsExcluded(t Ticket) bool {
	if f == nil {
		return false
	}
	for _, s := range f.statuses {
		if strings.EqualFold(t.Status, s) {
			return true
		}
	}
	return f.duplicate != "" && t.Assignee == f.duplicate
}

// Partition splits tickets into the valid and excluded views. Every ticket
// lands in exactly one of them.
func (f *Filter) Partition(tickets []Ticket) (valid, excluded []Ticket) {
	valid = make([]Ticket, 0, len(tickets))
	excluded = make([]Ticket, 0)
	for _, t := range tickets {
		if f.IsExcluded(t) {
			excluded = append(excluded, t)
		} else {
			valid = append(valid, t)
		}
	}
	return valid, excluded
}

// Valid returns the tickets that count as alerts.
func (f *Filter) Valid(tickets []Ticket) []Ticket {
	valid, _ := f.Partition(tickets)
	return valid
}

// Excluded returns only the cancelled or duplicate-handled tickets.
func (f *Filter) Excluded(tickets []Ticket) []Ticket {
	_, excluded := f.Partition(tickets)
	return excluded
}
