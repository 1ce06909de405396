package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/critiq-dev/critiq-cli/internal/analysis"
	"github.com/critiq-dev/critiq-cli/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedAnalysis() *api.Analysis {
	score := 7.5
	line := 14
	return &api.Analysis{
		ID:             7,
		RepositoryID:   42,
		Status:         api.StatusCompleted,
		OverallScore:   &score,
		TotalIssues:    2,
		HighIssues:     1,
		LowIssues:      1,
		Summary:        "Two issues found.",
		FilesAnalyzed:  12,
		LinesAnalyzed:  840,
		TokensUsed:     5200,
		EstimatedCost:  0.031,
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Issues: []api.CodeIssue{
			{ID: 1, Severity: "high", Category: "security", FilePath: "db/query.go", LineNumber: &line,
				Title: "SQL injection", Description: "Query concatenates user input."},
			{ID: 2, Severity: "low", Category: "style", FilePath: "main.go",
				Title: "Unused variable", Description: "x is assigned but never read."},
		},
	}
}

func TestWriteAnalysis_TextCompleted(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteAnalysis(&sb, "text", completedAnalysis(), analysis.SeverityAll))

	out := sb.String()
	assert.Contains(t, out, "Analysis #7")
	assert.Contains(t, out, "Status: completed")
	assert.Contains(t, out, "Score: 7.5/10")
	assert.Contains(t, out, "SQL injection")
	assert.Contains(t, out, "db/query.go:14")
	assert.Contains(t, out, "Unused variable")
}

func TestWriteAnalysis_TextFilteredBySeverity(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteAnalysis(&sb, "text", completedAnalysis(), analysis.SeverityHigh))

	out := sb.String()
	assert.Contains(t, out, "SQL injection")
	assert.NotContains(t, out, "Unused variable")
}

func TestWriteAnalysis_TextPending(t *testing.T) {
	var sb strings.Builder
	job := &api.Analysis{ID: 7, RepositoryID: 42, Status: api.StatusPending}
	require.NoError(t, WriteAnalysis(&sb, "text", job, analysis.SeverityAll))
	assert.Contains(t, sb.String(), "still in progress")
}

func TestWriteAnalysis_TextFailed(t *testing.T) {
	var sb strings.Builder
	job := &api.Analysis{ID: 7, RepositoryID: 42, Status: api.StatusFailed, ErrorMessage: "clone failed"}
	require.NoError(t, WriteAnalysis(&sb, "text", job, analysis.SeverityAll))
	assert.Contains(t, sb.String(), "clone failed")
}

func TestWriteAnalysis_JSONAppliesFilter(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteAnalysis(&sb, "json", completedAnalysis(), analysis.SeverityLow))

	var decoded api.Analysis
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "Unused variable", decoded.Issues[0].Title)
}

func TestWriteRepositories_Text(t *testing.T) {
	var sb strings.Builder
	repos := []api.Repository{
		{ID: 1, FullName: "octocat/hello", Language: "Go", StarsCount: 3, Description: "Greets"},
		{ID: 2, FullName: "octocat/secret", IsPrivate: true},
	}
	require.NoError(t, WriteRepositories(&sb, "text", repos))

	out := sb.String()
	assert.Contains(t, out, "octocat/hello")
	assert.Contains(t, out, "private")
	assert.Contains(t, out, "2 repositories")
}

func TestWriteRepositories_EmptyHintsSync(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteRepositories(&sb, "text", nil))
	assert.Contains(t, sb.String(), "critiq repos sync")
}

func TestWriteStats_Text(t *testing.T) {
	var sb strings.Builder
	stats := api.RepositoryStats{
		TotalRepositories: 3,
		TotalStars:        12,
		TotalForks:        4,
		PrivateCount:      1,
		PublicCount:       2,
		Languages:         map[string]int{"Go": 2, "Python": 1},
	}
	require.NoError(t, WriteStats(&sb, "text", stats))

	out := sb.String()
	assert.Contains(t, out, "Repositories: 3 (2 public, 1 private)")
	assert.Contains(t, out, "Stars: 12   Forks: 4")
	// Count-descending order
	assert.Less(t, strings.Index(out, "Go"), strings.Index(out, "Python"))
}

func TestWriteUser_Formats(t *testing.T) {
	user := api.User{ID: 1, Username: "octocat", Name: "The Octocat",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	var sb strings.Builder
	require.NoError(t, WriteUser(&sb, "text", user))
	assert.Contains(t, sb.String(), "Logged in as octocat (The Octocat)")

	sb.Reset()
	require.NoError(t, WriteUser(&sb, "json", user))
	var decoded api.User
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
	assert.Equal(t, "octocat", decoded.Username)
}

func TestWrapTextCountsRunes(t *testing.T) {
	// "résumé" is 6 runes but 8 bytes; width must be measured in runes
	lines := wrapText("résumé résumé résumé", 13)
	require.Len(t, lines, 2)
	assert.Equal(t, "résumé résumé", lines[0])
	assert.Equal(t, "résumé", lines[1])

	assert.Equal(t, []string{"short"}, wrapText("short", 40))

	// A word longer than the width still lands on its own line
	lines = wrapText("a verylongunbreakableword b", 10)
	assert.Equal(t, []string{"a", "verylongunbreakableword", "b"}, lines)
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "résumé", truncate("résumé", 6))
	assert.Equal(t, "résu…", truncate("résumés", 5))
}

func TestUnsupportedFormat(t *testing.T) {
	var sb strings.Builder
	assert.Error(t, WriteUser(&sb, "yaml", api.User{}))
	assert.Error(t, WriteAnalysisList(&sb, "table", nil))
}
