package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testRules() Rules {
	return Rules{
		ClusterPattern:    testClusterPattern,
		NamespacePattern:  testNamespacePattern,
		PriorityMap:       testPriorityMap,
		CancelledKeywords: testCancelledKeywords,
		AlertKeywords:     testKeywords,
		ExcludedStatuses:  []string{"cancelled"},
		DuplicateAssignee: "Duplicate Bot",
	}
}

func testRecords() []Record {
	return []Record{
		{Key: "ISD-1", Summary: "Outage on cluster apps-prod-01 namespace wiz", Status: "Open", Priority: "Highest", Assignee: "Dana", Created: "2026-10-12T09:00:00.000+0000"},
		{Key: "ISD-2", Summary: "Troubleshooting login", Status: "Cancelled", Priority: "Blocker", Created: "2026-10-13T09:00:00.000+0000"},
		{Key: "ISD-3", Summary: "k8s cdp-staging node pressure resolved", Status: "Done", Priority: "Low", Assignee: "Duplicate Bot", Created: "2026-10-14T09:00:00.000+0000"},
		{Key: "ISD-1", Summary: "Outage on cluster apps-prod-01 namespace wiz", Status: "Open", Priority: "Highest", Assignee: "Dana"},
		{Key: "ISD-4", Summary: "Quota request", Status: "Open", Priority: "Critical"},
	}
}

func TestPipeline_Process(t *testing.T) {
	p, err := NewPipeline(testRules(), zap.NewNop())
	require.NoError(t, err)

	res := p.Process(testRecords())

	require.Len(t, res.Tickets, 4)
	assert.Equal(t, 1, res.DuplicatesDropped)
	assert.Equal(t, []string{"Blocker", "Critical"}, res.UnmappedPriorities)

	byKey := map[string]Ticket{}
	for _, tk := range res.Tickets {
		byKey[tk.Key] = tk
	}

	assert.Equal(t, P1, byKey["ISD-1"].Priority)
	assert.Equal(t, "apps-prod-01,namespace:wiz", byKey["ISD-1"].AlertType)
	assert.False(t, byKey["ISD-1"].Cancelled)

	assert.Equal(t, PriorityUnknown, byKey["ISD-2"].Priority)
	assert.True(t, byKey["ISD-2"].Cancelled)
	assert.Equal(t, "Troubleshooting", byKey["ISD-2"].AlertType)
	assert.Equal(t, Unassigned, byKey["ISD-2"].Assignee)

	assert.Equal(t, "cdp-staging", byKey["ISD-3"].Cluster)
	assert.Equal(t, "cdp-staging", byKey["ISD-3"].AlertType)
	assert.True(t, byKey["ISD-3"].Cancelled)

	assert.Equal(t, Unknown, byKey["ISD-4"].AlertType)

	for _, tk := range res.Tickets {
		assert.NotEmpty(t, tk.Cluster)
		assert.NotEmpty(t, tk.Namespace)
		assert.Contains(t, Priorities, tk.Priority)
	}
}

func TestPipeline_SingleUnmappedWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p, err := NewPipeline(testRules(), zap.New(core))
	require.NoError(t, err)

	p.Process(testRecords())

	warnings := logs.FilterMessage("unmapped priority values fell back to Unknown").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, []interface{}{"Blocker", "Critical"}, warnings[0].ContextMap()["values"])
}

func TestPipeline_NoWarningWhenAllMapped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p, err := NewPipeline(testRules(), zap.New(core))
	require.NoError(t, err)

	p.Process([]Record{{Key: "A", Priority: "High"}})
	assert.Zero(t, logs.Len())
}

func TestPipeline_Idempotent(t *testing.T) {
	p, err := NewPipeline(testRules(), nil)
	require.NoError(t, err)

	first := p.Process(testRecords())
	second := p.Process(testRecords())
	assert.Equal(t, first, second)
}

func TestPipeline_DoesNotMutateInput(t *testing.T) {
	p, err := NewPipeline(testRules(), nil)
	require.NoError(t, err)

	records := testRecords()
	p.Process(records)
	assert.Equal(t, testRecords(), records)
}

func TestPipeline_EmptyBatch(t *testing.T) {
	p, err := NewPipeline(testRules(), nil)
	require.NoError(t, err)

	res := p.Process(nil)
	assert.NotNil(t, res.Tickets)
	assert.Empty(t, res.Tickets)
	assert.Empty(t, res.UnmappedPriorities)
}

func TestPipeline_ValidPlusExcludedEqualsTotal(t *testing.T) {
	p, err := NewPipeline(testRules(), nil)
	require.NoError(t, err)

	res := p.Process(testRecords())
	valid, excluded := p.Filter().Partition(res.Tickets)

	assert.Equal(t, len(res.Tickets), len(valid)+len(excluded))
	assert.Len(t, excluded, 2)
}

func TestNewPipeline_BadPattern(t *testing.T) {
	rules := testRules()
	rules.ClusterPattern = "("
	_, err := NewPipeline(rules, nil)
	assert.Error(t, err)
}
