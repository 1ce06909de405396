// Package workflow orchestrates the repository and analysis actions: sync,
// listing, stats, and analysis triggering with routing to the results view.
package workflow

import (
	"context"
	"sync"

	"github.com/critiq-dev/critiq-cli/internal/analysis"
	"github.com/critiq-dev/critiq-cli/internal/api"
)

// Gateway is the slice of the backend client the orchestrator needs.
type Gateway interface {
	SyncRepositories(ctx context.Context) (*api.SyncResult, error)
	ListRepositories(ctx context.Context, skip, limit int) ([]api.Repository, error)
	FetchRepositoryStats(ctx context.Context) (*api.RepositoryStats, error)
	StartAnalysis(ctx context.Context, repositoryID int64) (*api.AnalysisStart, error)
	FetchAnalysis(ctx context.Context, analysisID int64) (*api.Analysis, error)
	ListAnalyses(ctx context.Context, skip, limit int) ([]api.Analysis, error)
}

// ResultsRoute addresses the results view for a triggered analysis. Every
// non-error trigger outcome routes there, whatever the returned status;
// the results view owns polling and re-fetching.
type ResultsRoute struct {
	AnalysisID int64
	Status     string
}

// Orchestrator holds the locally cached repository list and stats snapshot.
// It never blocks on job completion and never deduplicates concurrent
// triggers for the same repository.
type Orchestrator struct {
	gateway Gateway

	mu    sync.Mutex
	repos []api.Repository
	stats *api.RepositoryStats
	epoch uint64
}

// NewOrchestrator creates an orchestrator with an empty repository list.
func NewOrchestrator(gateway Gateway) *Orchestrator {
	return &Orchestrator{gateway: gateway}
}

// Sync re-imports the user's repositories through the backend. On success
// the held list is replaced with the returned set and the stats snapshot is
// refreshed; on failure the prior list stays untouched and the error
// surfaces to the caller.
func (o *Orchestrator) Sync(ctx context.Context) (*api.SyncResult, error) {
	o.mu.Lock()
	epoch := o.epoch
	o.mu.Unlock()

	result, err := o.gateway.SyncRepositories(ctx)
	if err != nil {
		return nil, err
	}

	stats, statsErr := o.gateway.FetchRepositoryStats(ctx)
	if statsErr != nil {
		// Fall back to a local derivation over the fresh list
		derived := analysis.ComputeRepositoryStats(result.Repositories)
		stats = &derived
	}

	o.apply(epoch, result.Repositories, stats)
	return result, nil
}

// Refresh populates the list and stats from the backend, for initial view
// state after session establishment.
func (o *Orchestrator) Refresh(ctx context.Context, skip, limit int) ([]api.Repository, error) {
	o.mu.Lock()
	epoch := o.epoch
	o.mu.Unlock()

	repos, err := o.gateway.ListRepositories(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	stats, statsErr := o.gateway.FetchRepositoryStats(ctx)
	if statsErr != nil {
		derived := analysis.ComputeRepositoryStats(repos)
		stats = &derived
	}

	o.apply(epoch, repos, stats)
	return repos, nil
}

// Repositories returns the held repository list.
func (o *Orchestrator) Repositories() []api.Repository {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.repos
}

// Stats returns the held stats snapshot, or ok=false before the first
// successful refresh.
func (o *Orchestrator) Stats() (api.RepositoryStats, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stats == nil {
		return api.RepositoryStats{}, false
	}
	return *o.stats, true
}

// StartAnalysis triggers an analysis for one repository and returns the
// route to its results view. Completed and failed statuses route exactly
// like pending and running ones; only a trigger error keeps the caller
// where it is.
func (o *Orchestrator) StartAnalysis(ctx context.Context, repositoryID int64) (ResultsRoute, error) {
	started, err := o.gateway.StartAnalysis(ctx, repositoryID)
	if err != nil {
		return ResultsRoute{}, err
	}
	return ResultsRoute{AnalysisID: started.AnalysisID, Status: started.Status}, nil
}

// OpenAnalysis fetches the current snapshot of one analysis job. The job
// may still be pending or running; callers re-fetch on demand.
func (o *Orchestrator) OpenAnalysis(ctx context.Context, analysisID int64) (*api.Analysis, error) {
	return o.gateway.FetchAnalysis(ctx, analysisID)
}

// History returns a page of the user's past analysis runs.
func (o *Orchestrator) History(ctx context.Context, skip, limit int) ([]api.Analysis, error) {
	return o.gateway.ListAnalyses(ctx, skip, limit)
}

// Reset discards the held list and stats, e.g. on logout. Any in-flight
// refresh started before the reset is dropped when it lands.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.repos = nil
	o.stats = nil
}

// apply installs a refreshed list only if no Reset happened since the
// caller observed epoch, so a late response never resurrects stale state.
func (o *Orchestrator) apply(epoch uint64, repos []api.Repository, stats *api.RepositoryStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.epoch != epoch {
		return
	}
	o.repos = repos
	o.stats = stats
}
