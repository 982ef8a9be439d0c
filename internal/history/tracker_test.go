package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

func at(hour int) time.Time {
	return time.Date(2026, 10, 14, hour, 0, 0, 0, time.UTC)
}

func changes() []ticket.Change {
	return []ticket.Change{
		{AuthorID: "u-1", AuthorName: "Dana", Field: "priority", From: "High", To: "Highest", Timestamp: at(12)},
		{AuthorID: "u-2", AuthorName: "Automation for Jira", Field: "priority", From: "Low", To: "High", Timestamp: at(9)},
		{AuthorID: "u-1", AuthorName: "Dana", Field: "status", From: "Open", To: "Done", Timestamp: at(13)},
		{AuthorID: "bot-7", AuthorName: "Sync", Field: "Priority", From: "Medium", To: "High", Timestamp: at(10)},
		{AuthorID: "u-3", AuthorName: "Lee", Field: "priority", From: "Medium", To: "Low", Timestamp: at(8)},
	}
}

func TestTracker_Track(t *testing.T) {
	tr := NewTracker([]string{"Automation for Jira", "bot-7"}, nil)

	got := tr.Track(changes())

	assert.Equal(t, []Transition{
		{Priority: "Medium->Low", Timestamp: at(8)},
		{Priority: "High->Highest", Timestamp: at(12)},
	}, got)
}

func TestTracker_TrackEmpty(t *testing.T) {
	got := NewTracker(nil, nil).Track(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTracker_Collect_IsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tr := NewTracker(nil, zap.New(core))

	fetcher := FetcherFunc(func(_ context.Context, key string) ([]ticket.Change, error) {
		switch key {
		case "ISD-2":
			return nil, errors.New("boom")
		case "ISD-3":
			return []ticket.Change{{Field: "status"}}, nil
		}
		return changes(), nil
	})

	got := tr.Collect(context.Background(), []string{"ISD-1", "ISD-2", "ISD-3", "ISD-4"}, fetcher)

	assert.Equal(t, []string{"ISD-1", "ISD-4"}, got.Keys())
	assert.Len(t, got["ISD-1"], 4)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed to fetch change history", entry.Message)
	assert.Equal(t, "ISD-2", entry.ContextMap()["ticket"])
}

func TestTracker_FromRecords(t *testing.T) {
	tr := NewTracker([]string{"u-3"}, nil)

	got := tr.FromRecords([]ticket.Record{
		{Key: "ISD-1", History: changes()},
		{Key: "ISD-2"},
	})

	require.Contains(t, got, "ISD-1")
	assert.NotContains(t, got, "ISD-2")
	assert.Equal(t, "Low->High", got["ISD-1"][0].Priority)
}
