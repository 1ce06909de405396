package analysis

import "github.com/critiq-dev/critiq-cli/internal/api"

// ComputeRepositoryStats derives the aggregate over a repository list.
// The backend serves the same aggregate from /repositories/stats/summary;
// this local derivation covers views that already hold the list.
func ComputeRepositoryStats(repos []api.Repository) api.RepositoryStats {
	stats := api.RepositoryStats{
		TotalRepositories: len(repos),
		Languages:         make(map[string]int),
	}
	for _, r := range repos {
		stats.TotalStars += r.StarsCount
		stats.TotalForks += r.ForksCount
		if r.Language != "" {
			stats.Languages[r.Language]++
		}
		if r.IsPrivate {
			stats.PrivateCount++
		} else {
			stats.PublicCount++
		}
	}
	return stats
}
