package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// Pruner defaults.
const (
	// DefaultStaleDays is the staleness threshold when none is given
	DefaultStaleDays = 30
	// DefaultPruneRowCap bounds how many stale rows one invocation deletes
	DefaultPruneRowCap = 500
	// pruneDeleteBatch is the sub-batch size for deletes
	pruneDeleteBatch = 100
)

// PruneOptions control one prune run. Setting Stale, or a positive
// StaleDays, runs the staleness strategy; otherwise the live-check strategy
// re-fetches each source's current URL set and removes orphans.
type PruneOptions struct {
	// DryRun reports what would be deleted without mutating anything
	DryRun bool `json:"dry_run"`
	// Sources restricts pruning to the named sources when non-empty
	Sources []string `json:"sources,omitempty"`
	// Stale selects the staleness strategy at the default threshold
	Stale bool `json:"stale,omitempty"`
	// StaleDays selects the staleness strategy with an explicit threshold
	StaleDays int `json:"stale_days,omitempty"`
}

// PruneResult is the outcome of one prune run.
type PruneResult struct {
	JobsToDelete int               `json:"jobs_to_delete"`
	JobsDeleted  int               `json:"jobs_deleted"`
	Orphaned     []string          `json:"orphaned"`
	Logs         []models.LogEntry `json:"logs"`
}

// PruneService removes orphaned or stale postings.
type PruneService struct {
	stores   *repos.Stores
	registry *sources.Registry
	rowCap   int
	now      func() time.Time
}

// NewPruneService creates a pruner over the given stores and source
// registry.
func NewPruneService(stores *repos.Stores, registry *sources.Registry) *PruneService {
	return &PruneService{
		stores:   stores,
		registry: registry,
		rowCap:   DefaultPruneRowCap,
		now:      time.Now,
	}
}

// Run executes one prune invocation using the strategy selected by opts.
func (s *PruneService) Run(ctx context.Context, opts PruneOptions) (*PruneResult, error) {
	log := NewRunLog()
	run := &models.SyncHistory{
		RunID:     uuid.NewString(),
		SyncType:  models.SyncTypePrune,
		Status:    models.SyncStatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.stores.History.Create(ctx, run); err != nil {
		return nil, err
	}

	var result *PruneResult
	var err error
	if opts.Stale || opts.StaleDays > 0 {
		result, err = s.pruneStale(ctx, opts, log)
	} else {
		result, err = s.pruneOrphans(ctx, opts, log)
	}
	if err != nil {
		s.failPruneRun(ctx, run, log, err)
		return nil, err
	}

	now := s.now().UTC()
	run.Status = models.SyncStatusCompleted
	run.CompletedAt = &now
	run.Stats = models.SyncStats{Deleted: result.JobsDeleted}
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to finalize run row: %v", err)
	}

	result.Logs = log.Entries()
	return result, nil
}

// pruneStale deletes postings whose updated_at is older than the threshold,
// capped at rowCap rows and deleted in sub-batches.
func (s *PruneService) pruneStale(ctx context.Context, opts PruneOptions, log *RunLog) (*PruneResult, error) {
	staleDays := opts.StaleDays
	if staleDays <= 0 {
		staleDays = DefaultStaleDays
	}
	cutoff := s.now().UTC().AddDate(0, 0, -staleDays)

	result := &PruneResult{}
	stale, err := s.stores.Postings.ListStale(ctx, cutoff, opts.Sources, s.rowCap)
	if err != nil {
		return nil, err
	}
	result.JobsToDelete = len(stale)
	log.Infof("prune: %d postings stale since %s", len(stale), cutoff.Format(time.RFC3339))

	if opts.DryRun {
		return result, nil
	}

	for lo := 0; lo < len(stale); lo += pruneDeleteBatch {
		hi := lo + pruneDeleteBatch
		if hi > len(stale) {
			hi = len(stale)
		}
		ids := make([]uint, 0, hi-lo)
		for _, p := range stale[lo:hi] {
			ids = append(ids, p.ID)
		}
		deleted, err := s.stores.Postings.DeleteByIDs(ctx, ids)
		if err != nil {
			log.Errorf("prune: delete batch failed: %v", err)
			continue
		}
		result.JobsDeleted += int(deleted)
	}
	log.Infof("prune: deleted %d stale postings", result.JobsDeleted)
	return result, nil
}

// pruneOrphans re-fetches each source's current URL set and deletes stored
// postings absent from it. A source whose live fetch fails is skipped whole:
// without a complete URL set, absence proves nothing.
func (s *PruneService) pruneOrphans(ctx context.Context, opts PruneOptions, log *RunLog) (*PruneResult, error) {
	sourceNames := opts.Sources
	if len(sourceNames) == 0 {
		var err error
		sourceNames, err = s.stores.Postings.DistinctSources(ctx)
		if err != nil {
			return nil, err
		}
	}

	result := &PruneResult{}
	for _, name := range sourceNames {
		liveURLs, err := s.liveURLSet(ctx, name, log)
		if err != nil {
			log.Warnf("prune: skipping source %s: %v", name, err)
			continue
		}

		stored, err := s.stores.Postings.ListBySource(ctx, name)
		if err != nil {
			return nil, err
		}

		var orphanIDs []uint
		for _, posting := range stored {
			if _, ok := liveURLs[posting.SourceURL]; ok {
				continue
			}
			orphanIDs = append(orphanIDs, posting.ID)
			result.Orphaned = append(result.Orphaned, posting.SourceURL)
		}
		result.JobsToDelete += len(orphanIDs)
		log.Infof("prune: source %s has %d orphaned of %d stored postings", name, len(orphanIDs), len(stored))

		if opts.DryRun {
			continue
		}
		for lo := 0; lo < len(orphanIDs); lo += pruneDeleteBatch {
			hi := lo + pruneDeleteBatch
			if hi > len(orphanIDs) {
				hi = len(orphanIDs)
			}
			deleted, err := s.stores.Postings.DeleteByIDs(ctx, orphanIDs[lo:hi])
			if err != nil {
				log.Errorf("prune: delete batch failed: %v", err)
				continue
			}
			result.JobsDeleted += int(deleted)
		}
	}
	return result, nil
}

// liveURLSet fetches the complete current URL set of one source. For ATS
// sources this walks every discovered company on that source; aggregators
// are fetched as a whole feed.
func (s *PruneService) liveURLSet(ctx context.Context, sourceName string, log *RunLog) (map[string]struct{}, error) {
	src := s.registry.Get(sourceName)
	if src == nil {
		return nil, errUnknownSource
	}

	urls := make(map[string]struct{})
	if !src.PerCompany() {
		postings, err := src.Fetch(ctx, sources.FetchOptions{})
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			urls[p.SourceURL] = struct{}{}
		}
		return urls, nil
	}

	companies, err := s.stores.Companies.ListDiscovered(ctx)
	if err != nil {
		return nil, err
	}
	for _, company := range companies {
		if company.Source != sourceName {
			continue
		}
		postings, err := src.Fetch(ctx, sources.FetchOptions{Company: company.Slug})
		if err != nil {
			// One unreadable company poisons the whole set for this source.
			return nil, err
		}
		for _, p := range postings {
			urls[p.SourceURL] = struct{}{}
		}
	}
	return urls, nil
}

func (s *PruneService) failPruneRun(ctx context.Context, run *models.SyncHistory, log *RunLog, cause error) {
	now := s.now().UTC()
	run.Status = models.SyncStatusFailed
	run.CompletedAt = &now
	run.Error = cause.Error()
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to record run failure: %v", err)
	}
}
