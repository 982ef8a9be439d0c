package report

import "github.com/dt-pm-tools/jira-report/internal/metrics"

// Delta is the week-over-week change of one summary count.
type Delta struct {
	Name     string `json:"name"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Change   int    `json:"change"`
}

// Compare lists the summary counts of prev and cur side by side.
func Compare(prev, cur metrics.Summary) []Delta {
	pairs := []struct {
		name      string
		prev, cur int
	}{
		{"Total", prev.Total, cur.Total},
		{"P1", prev.P1, cur.P1},
		{"Cancelled/Resolved", prev.CancelledOrResolved, cur.CancelledOrResolved},
		{"Valid", prev.Valid, cur.Valid},
		{"Excluded", prev.Excluded, cur.Excluded},
	}

	deltas := make([]Delta, 0, len(pairs))
	for _, p := range pairs {
		deltas = append(deltas, Delta{Name: p.name, Previous: p.prev, Current: p.cur, Change: p.cur - p.prev})
	}
	return deltas
}
