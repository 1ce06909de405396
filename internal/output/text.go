package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/critiq-dev/critiq-cli/internal/analysis"
	"github.com/critiq-dev/critiq-cli/internal/api"
)

// WriteUser renders the authenticated identity.
func WriteUser(w io.Writer, format string, user api.User) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, user)
	}

	ew := &errWriter{w: w}
	ew.printf("Logged in as %s", user.Username)
	if user.Name != "" {
		ew.printf(" (%s)", user.Name)
	}
	ew.println("")
	if user.Email != "" {
		ew.printf("Email:  %s\n", user.Email)
	}
	if user.GitHubURL != "" {
		ew.printf("GitHub: %s\n", user.GitHubURL)
	}
	ew.printf("Member since %s\n", user.CreatedAt.Format("2006-01-02"))
	return ew.err
}

// WriteRepositories renders a repository listing.
func WriteRepositories(w io.Writer, format string, repos []api.Repository) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, repos)
	}

	ew := &errWriter{w: w}
	if len(repos) == 0 {
		ew.println("No repositories synced yet. Run: critiq repos sync")
		return ew.err
	}
	for _, r := range repos {
		visibility := "public"
		if r.IsPrivate {
			visibility = "private"
		}
		ew.printf("%6d  %-40s  %-10s  %s", r.ID, r.FullName, visibility, langOrDash(r.Language))
		ew.printf("  ★ %d", r.StarsCount)
		ew.println("")
		if r.Description != "" {
			ew.printf("        %s\n", truncate(r.Description, 100))
		}
	}
	ew.printf("\n%d repositories\n", len(repos))
	return ew.err
}

// WriteStats renders the repository aggregate.
func WriteStats(w io.Writer, format string, stats api.RepositoryStats) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, stats)
	}

	ew := &errWriter{w: w}
	ew.printf("Repositories: %d (%d public, %d private)\n",
		stats.TotalRepositories, stats.PublicCount, stats.PrivateCount)
	ew.printf("Stars: %d   Forks: %d\n", stats.TotalStars, stats.TotalForks)

	if len(stats.Languages) > 0 {
		ew.println("Languages:")
		// Stable order: by count descending, then name
		type langCount struct {
			name  string
			count int
		}
		langs := make([]langCount, 0, len(stats.Languages))
		for name, count := range stats.Languages {
			langs = append(langs, langCount{name, count})
		}
		sort.Slice(langs, func(i, j int) bool {
			if langs[i].count != langs[j].count {
				return langs[i].count > langs[j].count
			}
			return langs[i].name < langs[j].name
		})
		for _, lc := range langs {
			ew.printf("  %-20s %d\n", lc.name, lc.count)
		}
	}
	return ew.err
}

// WriteAnalysis renders one analysis job with its issues, filtered by
// severity ("all" keeps everything).
func WriteAnalysis(w io.Writer, format string, a *api.Analysis, severity analysis.Severity) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	issues := analysis.FilterIssues(a.Issues, severity)
	if format == "json" {
		filtered := *a
		filtered.Issues = issues
		return writeJSON(w, &filtered)
	}

	ew := &errWriter{w: w}
	ew.printf("Analysis #%d (repository %d)\n", a.ID, a.RepositoryID)
	ew.printf("Status: %s\n", a.Status)
	ew.println(strings.Repeat("─", 60))

	switch a.Status {
	case api.StatusPending, api.StatusRunning:
		ew.println("The analysis is still in progress. Re-run this command to refresh.")
		return ew.err
	case api.StatusFailed:
		msg := a.ErrorMessage
		if msg == "" {
			msg = "no error detail provided"
		}
		ew.printf("The analysis failed: %s\n", msg)
		return ew.err
	}

	if a.OverallScore != nil {
		ew.printf("Score: %.1f/10\n", *a.OverallScore)
	}
	ew.printf("Issues: %d total (%d critical, %d high, %d medium, %d low)\n",
		a.TotalIssues, a.CriticalIssues, a.HighIssues, a.MediumIssues, a.LowIssues)
	ew.printf("Analyzed %d files, %d lines (%d tokens, est. $%.4f)\n",
		a.FilesAnalyzed, a.LinesAnalyzed, a.TokensUsed, a.EstimatedCost)

	if a.Summary != "" {
		ew.println("")
		for _, line := range wrapText(a.Summary, 76) {
			ew.printf("%s\n", line)
		}
	}

	if len(issues) == 0 {
		if severity != "" && severity != analysis.SeverityAll {
			ew.printf("\nNo %s issues.\n", strings.ToLower(string(severity)))
		} else {
			ew.println("\nNo issues found. Looks good!")
		}
		return ew.err
	}

	grouped := analysis.GroupIssues(issues)
	for _, sev := range analysis.Known {
		bucket := grouped[sev]
		if len(bucket) == 0 {
			continue
		}
		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))
		for _, issue := range bucket {
			loc := issue.FilePath
			if issue.LineNumber != nil {
				loc = fmt.Sprintf("%s:%d", issue.FilePath, *issue.LineNumber)
			}
			ew.printf("\n  %s  %s\n", loc, issue.Title)
			ew.printf("  Category: %s\n", issue.Category)
			for _, line := range wrapText(issue.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if issue.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(issue.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}
	return ew.err
}

// WriteAnalysisList renders past analysis runs without issue bodies.
func WriteAnalysisList(w io.Writer, format string, runs []api.Analysis) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(w, runs)
	}

	ew := &errWriter{w: w}
	if len(runs) == 0 {
		ew.println("No analyses yet. Run: critiq analyze <repository-id>")
		return ew.err
	}
	for _, a := range runs {
		ew.printf("%6d  repo %-6d  %-9s  %3d issues  %s\n",
			a.ID, a.RepositoryID, a.Status, a.TotalIssues, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return ew.err
}

func severityIcon(s analysis.Severity) string {
	switch s {
	case analysis.SeverityCritical:
		return "[!!!]"
	case analysis.SeverityHigh:
		return "[!!]"
	case analysis.SeverityMedium:
		return "[!]"
	case analysis.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func langOrDash(lang string) string {
	if lang == "" {
		return "-"
	}
	return lang
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// wrapText breaks text into lines of at most width runes, greedy on word
// boundaries. Width is counted in runes so multibyte text wraps where it
// displays, not where it encodes.
func wrapText(text string, width int) []string {
	if utf8.RuneCountInString(text) <= width {
		return []string{text}
	}
	var lines []string
	var current []string
	length := 0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if length > 0 && length+1+wordLen > width {
			lines = append(lines, strings.Join(current, " "))
			current, length = current[:0], 0
		}
		if length > 0 {
			length++
		}
		current = append(current, word)
		length += wordLen
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
