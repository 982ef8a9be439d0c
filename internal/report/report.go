// Package report assembles the weekly operations report from a processed ticket
// batch and renders it as terminal tables, JSON, Parquet and a cancellation list.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dt-pm-tools/jira-report/internal/history"
	"github.com/dt-pm-tools/jira-report/internal/metrics"
	"github.com/dt-pm-tools/jira-report/internal/source"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

// P1Alert is one row of the P1 alert list.
type P1Alert struct {
	Key      string `json:"key" yaml:"key"`
	Summary  string `json:"summary" yaml:"summary"`
	Status   string `json:"status" yaml:"status"`
	Assignee string `json:"assignee" yaml:"assignee"`
}

// Report is everything a rendered report shows.
type Report struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Title       string    `json:"title"`
	Week        int       `json:"week"`

	Summary    metrics.Summary      `json:"summary"`
	Deltas     []Delta              `json:"deltas,omitempty"`
	Priorities metrics.Distribution `json:"priorities"`
	Clusters   metrics.Distribution `json:"clusters"`
	Namespaces metrics.Distribution `json:"namespaces"`
	AlertTypes metrics.Distribution `json:"alertTypes"`
	Triage     metrics.Triage       `json:"triage"`

	Trend           metrics.WeeklyTable `json:"trend"`
	Weekly          metrics.WeeklyTable `json:"weekly"`
	WeeklyCancelled metrics.WeeklyTable `json:"weeklyCancelled"`

	AlertPriorities       metrics.PriorityBreakdown `json:"alertPriorities"`
	UserRequestPriorities metrics.PriorityBreakdown `json:"userRequestPriorities"`
	CancellationReasons   metrics.Distribution      `json:"cancellationReasons,omitempty"`

	P1Alerts        []P1Alert           `json:"p1Alerts"`
	ClusterAlerts   []metrics.Count     `json:"clusterAlerts"`
	NamespaceAlerts []metrics.Count     `json:"namespaceAlerts"`
	Postmortems     []source.Postmortem `json:"postmortems"`
	Transcripts     history.Transcripts `json:"transcripts,omitempty"`

	UnmappedPriorities []string `json:"unmappedPriorities,omitempty"`
}

// Input carries the already-fetched data a Report is built from.
type Input struct {
	Now      time.Time
	Title    string
	Tickets  []ticket.Ticket
	Filter   *ticket.Filter
	Names    []string
	Weeks    int
	WeekDays int

	// UserRequestTypes split user-side requests out of the alert type breakdown.
	UserRequestTypes []string

	Triage             metrics.Triage
	ClusterAlerts      []metrics.Count
	NamespaceAlerts    []metrics.Count
	Postmortems        []source.Postmortem
	Transcripts        history.Transcripts
	UnmappedPriorities []string

	Cancellations []Cancellation
}

// WeekNumber is the reporting week: the ISO week of now minus one.
func WeekNumber(now time.Time) int {
	_, week := now.ISOWeek()
	return week - 1
}

// Title formats the report heading.
func Title(base string, now time.Time) string {
	return fmt.Sprintf("%s - Week %d", base, WeekNumber(now))
}

// Build computes every aggregate of in. It does no I/O.
func Build(in Input) Report {
	windows := metrics.WeeklyWindows(in.Now, in.Weeks, in.WeekDays)
	requests, alerts := metrics.SplitUserRequests(in.Tickets, in.UserRequestTypes)

	r := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: in.Now,
		Title:       Title(in.Title, in.Now),
		Week:        WeekNumber(in.Now),

		Summary:    metrics.Summarize(in.Tickets, in.Filter),
		Priorities: metrics.ByPriority(in.Tickets),
		Clusters:   metrics.ByCluster(in.Tickets),
		Namespaces: metrics.ByNamespace(in.Tickets),
		AlertTypes: metrics.ByAlertType(in.Tickets),
		Triage:     in.Triage,

		Trend:           metrics.WeeklyTrend(in.Tickets, windows, in.Filter),
		Weekly:          metrics.WeeklyCounts(in.Tickets, in.Names, windows, in.Filter, metrics.ValidView),
		WeeklyCancelled: metrics.WeeklyCounts(in.Tickets, in.Names, windows, in.Filter, metrics.CancelledView),

		AlertPriorities:       metrics.AlertTypesByPriority(alerts),
		UserRequestPriorities: metrics.UserRequestsByPriority(requests, in.UserRequestTypes),
		CancellationReasons:   CancellationReasons(in.Cancellations),

		P1Alerts:        P1Alerts(in.Tickets),
		ClusterAlerts:   orEmpty(in.ClusterAlerts),
		NamespaceAlerts: orEmpty(in.NamespaceAlerts),
		Postmortems:     in.Postmortems,
		Transcripts:     in.Transcripts,

		UnmappedPriorities: in.UnmappedPriorities,
	}
	if r.Postmortems == nil {
		r.Postmortems = []source.Postmortem{}
	}
	return r
}

// P1Alerts lists the P1 tickets in batch order.
func P1Alerts(tickets []ticket.Ticket) []P1Alert {
	p1 := metrics.WithPriority(tickets, ticket.P1)
	out := make([]P1Alert, 0, len(p1))
	for _, t := range p1 {
		out = append(out, P1Alert{Key: t.Key, Summary: t.Summary, Status: t.Status, Assignee: t.Assignee})
	}
	return out
}

func orEmpty(c []metrics.Count) []metrics.Count {
	if c == nil {
		return []metrics.Count{}
	}
	return c
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
