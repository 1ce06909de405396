package analysis

import (
	"strings"

	"github.com/critiq-dev/critiq-cli/internal/api"
)

// FilterIssues returns the issues matching severity, preserving order.
// "all" (or empty) returns the input slice unchanged. Matching is
// case-insensitive. Pure: safe to call on every render.
func FilterIssues(issues []api.CodeIssue, severity Severity) []api.CodeIssue {
	if severity == "" || normalize(severity) == SeverityAll {
		return issues
	}
	want := strings.ToLower(string(severity))
	var out []api.CodeIssue
	for _, issue := range issues {
		if strings.ToLower(issue.Severity) == want {
			out = append(out, issue)
		}
	}
	return out
}

// GroupIssues buckets issues by normalized severity, preserving order
// within each bucket.
func GroupIssues(issues []api.CodeIssue) map[Severity][]api.CodeIssue {
	m := make(map[Severity][]api.CodeIssue)
	for _, issue := range issues {
		m[normalize(Severity(issue.Severity))] = append(m[normalize(Severity(issue.Severity))], issue)
	}
	return m
}
