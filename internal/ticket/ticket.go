// Package ticket turns raw issue-tracker records into normalized, classified tickets.
//
// Every stage takes a batch and returns a new one; raw records and earlier
// stage outputs are never modified in place.
package ticket

import (
	"strings"
	"time"
)

// Unknown is the value of any extracted or mapped field that could not be resolved.
const Unknown = "Unknown"

// Unassigned stands in for an absent assignee or priority.
const Unassigned = "Unassigned"

// Priority is the normalized ordinal priority.
type Priority string

// The closed set of normalized priorities.
const (
	P1              Priority = "P1"
	P2              Priority = "P2"
	P3              Priority = "P3"
	P4              Priority = "P4"
	PriorityUnknown Priority = Unknown
)

// Priorities lists the closed set in ordinal order.
var Priorities = []Priority{P1, P2, P3, P4, PriorityUnknown}

// ParsePriority returns p if it names a member of the closed set, otherwise PriorityUnknown.
func ParsePriority(s string) Priority {
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}
	return PriorityUnknown
}

// Record is a raw ticket as delivered by the ticket source.
// Empty strings mean the field was absent.
type Record struct {
	Key        string   `json:"key"`
	Summary    string   `json:"summary"`
	Status     string   `json:"status"`
	Priority   string   `json:"priority"`
	Assignee   string   `json:"assignee"`
	Resolution string   `json:"resolution,omitempty"`
	Created    string   `json:"created"`
	Updated    string   `json:"updated"`
	History    []Change `json:"history,omitempty"`
}

// Change is one field change from a ticket's change history.
type Change struct {
	AuthorID   string    `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`
	Field      string    `json:"field"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Timestamp  time.Time `json:"timestamp"`
}

// Ticket is the flat, normalized and classified form of a Record.
type Ticket struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	RawPriority string    `json:"rawPriority"`
	Priority    Priority  `json:"priority"`
	Status      string    `json:"status"`
	Cancelled   bool      `json:"cancelled"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Assignee    string    `json:"assignee"`
	Resolution  string    `json:"resolution,omitempty"`
	Cluster     string    `json:"cluster"`
	Namespace   string    `json:"namespace"`
	AlertType   string    `json:"alertType"`
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp formats seen in API responses and data dumps
// and returns the instant in UTC. Unparseable or empty input yields the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
