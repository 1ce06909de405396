// Package analysis holds the pure domain logic around analysis results:
// severity ordering, issue filtering, and client-side stats derivation.
package analysis

import "strings"

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"

	// SeverityAll is the filter value that matches everything.
	SeverityAll Severity = "all"
)

// Known lists the severity levels in descending order.
var Known = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns a numeric rank for sorting (higher = more severe).
func Rank(s Severity) int {
	switch normalize(s) {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IsKnown reports whether s is one of the four severity levels.
func IsKnown(s Severity) bool {
	return Rank(s) > 0
}

func normalize(s Severity) Severity {
	return Severity(strings.ToLower(string(s)))
}
