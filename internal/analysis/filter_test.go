package analysis

import (
	"testing"

	"github.com/critiq-dev/critiq-cli/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIssues() []api.CodeIssue {
	return []api.CodeIssue{
		{ID: 1, Severity: "critical", Title: "hardcoded secret"},
		{ID: 2, Severity: "High", Title: "sql injection"},
		{ID: 3, Severity: "low", Title: "unused import"},
		{ID: 4, Severity: "HIGH", Title: "path traversal"},
		{ID: 5, Severity: "medium", Title: "n+1 query"},
	}
}

func TestFilterIssues_AllReturnsInputUnchanged(t *testing.T) {
	issues := sampleIssues()

	got := FilterIssues(issues, SeverityAll)
	require.Len(t, got, len(issues))
	for i := range issues {
		assert.Equal(t, issues[i].ID, got[i].ID, "order must be preserved")
	}

	// Empty severity behaves like "all"; case-insensitive too
	assert.Len(t, FilterIssues(issues, ""), len(issues))
	assert.Len(t, FilterIssues(issues, "ALL"), len(issues))

	// Empty input
	assert.Empty(t, FilterIssues(nil, SeverityAll))
}

func TestFilterIssues_BySeverity(t *testing.T) {
	issues := sampleIssues()

	high := FilterIssues(issues, SeverityHigh)
	require.Len(t, high, 2)
	assert.Equal(t, int64(2), high[0].ID)
	assert.Equal(t, int64(4), high[1].ID)

	critical := FilterIssues(issues, "CRITICAL")
	require.Len(t, critical, 1)
	assert.Equal(t, int64(1), critical[0].ID)

	low := FilterIssues(issues, SeverityLow)
	require.Len(t, low, 1)
	assert.Equal(t, int64(3), low[0].ID)
}

func TestFilterIssues_UnionOfKnownSeveritiesCoversAllKnownIssues(t *testing.T) {
	issues := sampleIssues()

	var union []api.CodeIssue
	for _, sev := range Known {
		union = append(union, FilterIssues(issues, sev)...)
	}

	var known int
	for _, issue := range issues {
		if IsKnown(Severity(issue.Severity)) {
			known++
		}
	}
	assert.Len(t, union, known)
}

func TestRank(t *testing.T) {
	assert.Equal(t, 4, Rank(SeverityCritical))
	assert.Equal(t, 3, Rank(SeverityHigh))
	assert.Equal(t, 2, Rank(SeverityMedium))
	assert.Equal(t, 1, Rank(SeverityLow))
	assert.Equal(t, 0, Rank("bogus"))
	assert.Equal(t, 4, Rank("Critical"), "rank is case-insensitive")
}

func TestGroupIssues(t *testing.T) {
	grouped := GroupIssues(sampleIssues())

	require.Len(t, grouped[SeverityHigh], 2)
	assert.Equal(t, int64(2), grouped[SeverityHigh][0].ID)
	assert.Equal(t, int64(4), grouped[SeverityHigh][1].ID)
	assert.Len(t, grouped[SeverityCritical], 1)
	assert.Len(t, grouped[SeverityMedium], 1)
	assert.Len(t, grouped[SeverityLow], 1)
}
