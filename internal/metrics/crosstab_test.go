package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/jira-report/internal/ticket"
)

var userRequestLabels = []string{"Team Change Request", "Change Request", "Password Reset Request"}

func requestBatch() []ticket.Ticket {
	return []ticket.Ticket{
		{Key: "ISD-1", Summary: "Outage on apps-prod-01", AlertType: "Outage Reporting", Priority: ticket.P1},
		{Key: "ISD-2", Summary: "Outage again", AlertType: "Outage Reporting", Priority: ticket.P3},
		{Key: "ISD-3", Summary: "Wiz finding", AlertType: "Wiz findings", Priority: ticket.P2},
		{Key: "ISD-4", Summary: "Team change request for Lee", AlertType: ticket.Unknown, Priority: ticket.P4},
		{Key: "ISD-5", Summary: "Password reset request", AlertType: ticket.Unknown, Priority: ticket.PriorityUnknown},
		{Key: "ISD-6", Summary: "Outage", AlertType: "Outage Reporting", Priority: ticket.P1},
	}
}

func TestAlertTypesByPriority(t *testing.T) {
	b := AlertTypesByPriority(requestBatch())

	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "Unknown"}, b.Columns)
	require.Len(t, b.Rows, 3)
	assert.Equal(t, PriorityRow{Name: "Outage Reporting", Counts: []int{2, 0, 1, 0, 0}}, b.Rows[0])
	assert.Equal(t, PriorityRow{Name: ticket.Unknown, Counts: []int{0, 0, 0, 1, 1}}, b.Rows[1])
	assert.Equal(t, PriorityRow{Name: "Wiz findings", Counts: []int{0, 1, 0, 0, 0}}, b.Rows[2])
	assert.Equal(t, 3, b.Rows[0].Total())
}

func TestUserRequestType(t *testing.T) {
	label, ok := UserRequestType(ticket.Ticket{Summary: "TEAM CHANGE REQUEST: Lee"}, userRequestLabels)
	assert.True(t, ok)
	assert.Equal(t, "Team Change Request", label, "first matching label wins")

	label, ok = UserRequestType(ticket.Ticket{AlertType: "change request"}, userRequestLabels)
	assert.True(t, ok)
	assert.Equal(t, "Change Request", label)

	_, ok = UserRequestType(ticket.Ticket{Summary: "Outage"}, userRequestLabels)
	assert.False(t, ok)
	_, ok = UserRequestType(ticket.Ticket{Summary: "Password reset request"}, nil)
	assert.False(t, ok)
}

func TestSplitUserRequests(t *testing.T) {
	requests, alerts := SplitUserRequests(requestBatch(), userRequestLabels)

	require.Len(t, requests, 2)
	assert.Equal(t, "ISD-4", requests[0].Key)
	assert.Equal(t, "ISD-5", requests[1].Key)
	assert.Len(t, alerts, 4)

	b := UserRequestsByPriority(requests, userRequestLabels)
	require.Len(t, b.Rows, 2)
	assert.Equal(t, PriorityRow{Name: "Password Reset Request", Counts: []int{0, 0, 0, 0, 1}}, b.Rows[0])
	assert.Equal(t, PriorityRow{Name: "Team Change Request", Counts: []int{0, 0, 0, 1, 0}}, b.Rows[1])
}

func TestBreakdownByPriority_Empty(t *testing.T) {
	b := AlertTypesByPriority(nil)
	assert.Len(t, b.Columns, len(ticket.Priorities))
	assert.NotNil(t, b.Rows)
	assert.Empty(t, b.Rows)
}

func TestTally(t *testing.T) {
	d := Tally([]string{"Duplicate", "No Reason Provided", "Duplicate", " ", "Customer withdrew"})

	assert.Equal(t, Distribution{
		{Name: "Duplicate", Count: 2},
		{Name: "Customer withdrew", Count: 1},
		{Name: "No Reason Provided", Count: 1},
	}, d)
	assert.Equal(t, 4, d.Total())
}
