// Package history builds per-ticket priority-change transcripts from change history.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dt-pm-tools/jira-report/internal/logging"
	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

const priorityField = "priority"

// Transition is one priority change. Priority reads "{from}->{to}".
type Transition struct {
	Priority  string    `json:"priority" yaml:"priority"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Transcripts maps ticket keys to their time-ordered transitions.
type Transcripts map[string][]Transition

// Keys returns the ticket keys in sorted order.
func (t Transcripts) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fetcher loads the change history of one ticket.
type Fetcher interface {
	Changes(ctx context.Context, key string) ([]ticket.Change, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, key string) ([]ticket.Change, error)

// Changes calls f.
func (f FetcherFunc) Changes(ctx context.Context, key string) ([]ticket.Change, error) {
	return f(ctx, key)
}

// Tracker extracts priority transitions, skipping changes made by ignored authors.
type Tracker struct {
	ignored map[string]struct{}
	logger  *zap.Logger
}

// NewTracker creates a Tracker. Ignored entries match either an author's
// account id or display name.
func NewTracker(ignoredAuthors []string, logger *zap.Logger) *Tracker {
	ignored := make(map[string]struct{}, len(ignoredAuthors))
	for _, a := range ignoredAuthors {
		if a = strings.TrimSpace(a); a != "" {
			ignored[a] = struct{}{}
		}
	}
	return &Tracker{ignored: ignored, logger: logging.OrNop(logger)}
}

func (t *Tracker) isIgnored(c ticket.Change) bool {
	if _, ok := t.ignored[c.AuthorID]; ok && c.AuthorID != "" {
		return true
	}
	_, ok := t.ignored[c.AuthorName]
	return ok && c.AuthorName != ""
}

// Track returns the priority transitions in changes, oldest first.
func (t *Tracker) Track(changes []ticket.Change) []Transition {
	out := make([]Transition, 0)
	for _, c := range changes {
		if !strings.EqualFold(c.Field, priorityField) || t.isIgnored(c) {
			continue
		}
		out = append(out, Transition{
			Priority:  fmt.Sprintf("%s->%s", c.From, c.To),
			Timestamp: c.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Collect fetches and tracks every key. A failed fetch is logged and leaves
// that ticket without transitions; it never stops the rest of the batch.
// Tickets without transitions are omitted.
func (t *Tracker) Collect(ctx context.Context, keys []string, fetcher Fetcher) Transcripts {
	transcripts := make(Transcripts)
	for _, key := range keys {
		changes, err := fetcher.Changes(ctx, key)
		if err != nil {
			t.logger.Warn("failed to fetch change history", zap.String("ticket", key), zap.Error(err))
			continue
		}
		if tr := t.Track(changes); len(tr) > 0 {
			transcripts[key] = tr
		}
	}
	return transcripts
}

// FromRecords tracks the history already embedded in records, as found in data dumps.
func (t *Tracker) FromRecords(records []ticket.Record) Transcripts {
	transcripts := make(Transcripts)
	for _, r := range records {
		if tr := t.Track(r.History); len(tr) > 0 {
			transcripts[r.Key] = tr
		}
	}
	return transcripts
}
