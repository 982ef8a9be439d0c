package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 9, 0, 0, 0, time.UTC)
}

func TestWeeklyWindows(t *testing.T) {
	windows := WeeklyWindows(now, 5, 7)
	require.Len(t, windows, 5)

	assert.Equal(t, now, windows[0].End)
	assert.Equal(t, now.AddDate(0, 0, -7), windows[0].Start)
	assert.Equal(t, "W41", windows[0].Label)
	assert.Equal(t, "W40", windows[1].Label)

	for i := 1; i < len(windows); i++ {
		assert.Equal(t, windows[i].End, windows[i-1].Start, "windows must be contiguous")
	}
}

func TestWeeklyWindows_Degenerate(t *testing.T) {
	assert.Empty(t, WeeklyWindows(now, 0, 7))
	assert.Empty(t, WeeklyWindows(now, 5, 0))
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: day(11), End: day(18)}
	assert.True(t, w.Contains(day(11)))
	assert.False(t, w.Contains(day(18)))
	assert.False(t, w.Contains(time.Time{}))
}

func TestAttributed(t *testing.T) {
	tk := ticket.Ticket{Cluster: "apps-prod-01", Namespace: "wiz", Summary: "Disk alert on PAYMENTS"}

	assert.True(t, Attributed(tk, "APPS-PROD-01"))
	assert.True(t, Attributed(tk, "wiz"))
	assert.True(t, Attributed(tk, "payments"))
	assert.False(t, Attributed(tk, "cdp-prod"))
	assert.False(t, Attributed(tk, ""))
}

func weeklyBatch() []ticket.Ticket {
	return []ticket.Ticket{
		{Key: "1", Cluster: "apps-prod-01", Status: "Open", Created: day(15)},
		{Key: "2", Cluster: "apps-prod-01", Status: "Open", Created: day(8)},
		{Key: "3", Cluster: "apps-prod-01", Status: "Cancelled", Created: day(16)},
		{Key: "4", Cluster: "cdp-prod", Status: "Open", Created: day(1)},
		{Key: "5", Cluster: "cdp-prod", Status: "Open", Assignee: "Duplicate Bot", Created: day(2)},
		{Key: "6", Cluster: "cdp-prod", Status: "Open"},
	}
}

func TestWeeklyCounts(t *testing.T) {
	windows := WeeklyWindows(now, 3, 7)
	filter := ticket.NewFilter([]string{"cancelled"}, "Duplicate Bot")
	names := []string{"apps-prod-01", "cdp-prod", "quiet"}

	valid := WeeklyCounts(weeklyBatch(), names, windows, filter, ValidView)
	cancelled := WeeklyCounts(weeklyBatch(), names, windows, filter, CancelledView)

	assert.Equal(t, ValidView, valid.View)
	assert.Equal(t, []string{"W41", "W40", "W39"}, valid.Columns)
	assert.Equal(t, valid.Columns, cancelled.Columns)

	assert.Equal(t, []WeeklyRow{
		{Name: "apps-prod-01", Counts: []int{1, 1, 0}},
		{Name: "cdp-prod", Counts: []int{0, 0, 1}},
		{Name: "quiet", Counts: []int{0, 0, 0}},
	}, valid.Rows)

	assert.Equal(t, []WeeklyRow{
		{Name: "apps-prod-01", Counts: []int{1, 0, 0}},
		{Name: "cdp-prod", Counts: []int{0, 0, 1}},
		{Name: "quiet", Counts: []int{0, 0, 0}},
	}, cancelled.Rows)

	for i := range valid.Rows {
		assert.Equal(t, valid.Rows[i].Name, cancelled.Rows[i].Name)
	}
	assert.Equal(t, 2, valid.Rows[0].Total())
}

func TestWeeklyCounts_EmptyBatch(t *testing.T) {
	windows := WeeklyWindows(now, 2, 7)
	table := WeeklyCounts(nil, []string{"apps-prod-01"}, windows, nil, ValidView)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, []int{0, 0}, table.Rows[0].Counts)
}

func TestWeeklyTrend(t *testing.T) {
	windows := WeeklyWindows(now, 3, 7)
	filter := ticket.NewFilter([]string{"cancelled"}, "Duplicate Bot")

	batch := append(weeklyBatch(),
		ticket.Ticket{Key: "7", Cluster: ticket.Unknown, Summary: "Password reset", Status: "Open", Created: day(17)},
	)
	trend := WeeklyTrend(batch, windows, filter)

	assert.Equal(t, TrendView, trend.View)
	assert.Equal(t, []string{"W41", "W40", "W39"}, trend.Columns)
	assert.Equal(t, []WeeklyRow{
		{Name: TrendAll, Counts: []int{3, 1, 2}},
		{Name: TrendValid, Counts: []int{2, 1, 1}},
		{Name: TrendExcluded, Counts: []int{1, 0, 1}},
	}, trend.Rows)

	clusters := WeeklyCounts(batch, []string{"apps-prod-01", "cdp-prod"}, windows, filter, ValidView)
	attributed := 0
	for _, row := range clusters.Rows {
		attributed += row.Total()
	}
	assert.Less(t, attributed, trend.Rows[1].Total(), "unattributed tickets still count in the trend")
}

func TestWeeklyTrend_Empty(t *testing.T) {
	trend := WeeklyTrend(nil, WeeklyWindows(now, 2, 7), nil)

	require.Len(t, trend.Rows, 3)
	for _, row := range trend.Rows {
		assert.Equal(t, []int{0, 0}, row.Counts)
	}
}
