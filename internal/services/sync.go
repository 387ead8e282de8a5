package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/sanitize"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// Sync orchestrator defaults.
const (
	// DefaultSyncWindowSize is how many worklist items one tick processes
	DefaultSyncWindowSize = 5
	// DefaultMaxJobsPerCompany caps postings fetched per company per tick
	DefaultMaxJobsPerCompany = 20
	// DefaultSyncBudget is the wall-clock budget of one tick
	DefaultSyncBudget = 25 * time.Second
)

// SyncOptions control one orchestrator tick.
type SyncOptions struct {
	// Sources restricts the tick to the named sources when non-empty
	Sources []string `json:"sources,omitempty"`
	// UpdateExisting re-writes mutable fields of postings already stored
	UpdateExisting bool `json:"update_existing"`
	// AddNew inserts postings not yet stored
	AddNew bool `json:"add_new"`
	// MaxJobsPerCompany caps postings fetched per company item
	MaxJobsPerCompany int `json:"max_jobs_per_company"`
}

// DefaultSyncOptions returns the options used when a caller passes none.
func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		UpdateExisting:    true,
		AddNew:            true,
		MaxJobsPerCompany: DefaultMaxJobsPerCompany,
	}
}

// SyncResult is the outcome of one tick.
type SyncResult struct {
	Added   int               `json:"added"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
	Logs    []models.LogEntry `json:"logs"`
}

// SyncService advances synchronization by bounded ticks over a rotating
// worklist of (source, company) items and aggregator pseudo-items.
type SyncService struct {
	stores   *repos.Stores
	registry *sources.Registry

	windowSize    int
	budget        time.Duration
	writerMaxSize int
	writerMaxWait time.Duration
	now           func() time.Time
}

// NewSyncService creates a sync orchestrator over the given stores and
// source registry.
func NewSyncService(stores *repos.Stores, registry *sources.Registry) *SyncService {
	return &SyncService{
		stores:        stores,
		registry:      registry,
		windowSize:    DefaultSyncWindowSize,
		budget:        DefaultSyncBudget,
		writerMaxSize: DefaultWriterMaxSize,
		writerMaxWait: DefaultWriterMaxWait,
		now:           time.Now,
	}
}

// RunTick processes one bounded window of the worklist. Item-level failures
// are logged and skipped; a returned error is reserved for failures outside
// the per-item loop and comes with a failed SyncHistory row retaining the
// logs collected so far.
func (s *SyncService) RunTick(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	if opts.MaxJobsPerCompany <= 0 {
		opts.MaxJobsPerCompany = DefaultMaxJobsPerCompany
	}

	log := NewRunLog()
	run := &models.SyncHistory{
		RunID:     uuid.NewString(),
		SyncType:  models.SyncTypeJobs,
		Status:    models.SyncStatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.stores.History.Create(ctx, run); err != nil {
		return nil, err
	}

	result, err := s.runTick(ctx, opts, run, log)
	if err != nil {
		s.failRun(ctx, run, log, err)
		return nil, err
	}
	return result, nil
}

func (s *SyncService) runTick(ctx context.Context, opts SyncOptions, run *models.SyncHistory, log *RunLog) (*SyncResult, error) {
	started := s.now()

	worklist, err := BuildWorklist(ctx, s.stores.Companies, s.registry, opts.Sources)
	if err != nil {
		return nil, err
	}
	cursor, err := s.stores.History.GetCursor(ctx, models.SyncTypeJobs)
	if err != nil {
		return nil, err
	}

	writer := NewBatchWriter(s.stores.Postings, s.writerMaxSize, s.writerMaxWait, log)
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, _ := worklist.Window(cursor.LastProcessedIndex, s.windowSize)
	start := cursor.LastProcessedIndex
	if start >= worklist.Len() {
		start = 0
	}
	log.Infof("sync tick: %d worklist items, window [%d, %d)", worklist.Len(), start, start+len(items))

	stats := models.SyncStats{}
	processed := 0
	for _, item := range items {
		// Budget check before starting each item: completed items keep
		// their cursor advance, unstarted ones are retried next tick.
		if elapsed := s.now().Sub(started); elapsed > s.budget {
			log.Warnf("time budget exceeded after %s, stopping before %s", elapsed.Round(time.Millisecond), item)
			break
		}

		updated, err := s.processItem(ctx, item, opts, writer, categories, log)
		if err != nil {
			log.Errorf("item %s failed: %v", item, err)
		} else {
			stats.Updated += updated
		}
		processed++

		// Incremental history update so truncation still leaves visible
		// partial progress.
		added, skipped := writer.Counts()
		stats.Added, stats.Skipped = added, skipped
		s.updateRun(ctx, run, log, stats, start+processed, worklist.Len())
	}

	if err := writer.Flush(ctx); err != nil {
		log.Errorf("final flush failed: %v", err)
	}
	stats.Added, stats.Skipped = writer.Counts()

	next := advanceCursor(start, processed, worklist.Len())
	if err := s.stores.History.SaveCursor(ctx, cursor, next, worklist.Len()); err != nil {
		// Cursor persistence is best-effort; postings already written stay.
		log.Errorf("failed to save worklist cursor: %v", err)
	}

	now := s.now().UTC()
	run.Status = models.SyncStatusCompleted
	run.CompletedAt = &now
	run.Stats = stats
	run.Logs = log.Entries()
	run.LastProcessedIndex = next
	run.TotalItems = worklist.Len()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to finalize run row: %v", err)
	}

	return &SyncResult{
		Added:   stats.Added,
		Updated: stats.Updated,
		Skipped: stats.Skipped,
		Logs:    log.Entries(),
	}, nil
}

// processItem syncs one worklist item and returns how many stored postings
// it updated in place.
func (s *SyncService) processItem(ctx context.Context, item WorkItem, opts SyncOptions, writer *BatchWriter, categories map[string]uint, log *RunLog) (int, error) {
	src := s.registry.Get(item.Source)
	if src == nil {
		return 0, &sources.FetchError{Source: item.Source, Company: item.Company, Err: errUnknownSource}
	}

	if item.Pseudo {
		postings, err := src.Fetch(ctx, sources.FetchOptions{})
		if err != nil {
			return 0, err
		}
		log.Infof("%s: fetched %d postings", item, len(postings))
		return s.ingest(ctx, postings, item, opts, writer, categories, log)
	}

	offset := 0
	progress, err := s.stores.Progress.Get(ctx, item.Company)
	if err != nil {
		return 0, err
	}
	if progress != nil {
		offset = progress.LastJobOffset
	}

	postings, err := src.Fetch(ctx, sources.FetchOptions{
		Company: item.Company,
		Offset:  offset,
		Limit:   opts.MaxJobsPerCompany,
	})
	if err != nil {
		return 0, err
	}
	log.Infof("%s: fetched %d postings at offset %d", item, len(postings), offset)

	updated, err := s.ingest(ctx, postings, item, opts, writer, categories, log)
	if err != nil {
		return updated, err
	}

	// Fewer results than the cap means the backlog is drained: reset to 0
	// so the next cycle re-scans from the top. Otherwise resume behind the
	// postings just consumed.
	nextOffset := 0
	if len(postings) >= opts.MaxJobsPerCompany {
		nextOffset = offset + len(postings)
	}
	if err := s.stores.Progress.Upsert(ctx, item.Company, item.Source, nextOffset, s.now().UTC()); err != nil {
		log.Errorf("%s: failed to persist offset %d: %v", item, nextOffset, err)
	}
	return updated, nil
}

// ingest sanitizes and stores a batch of fetched postings. New postings are
// buffered on the writer; existing ones are updated in place when update
// mode is on.
func (s *SyncService) ingest(ctx context.Context, postings []sources.RawPosting, item WorkItem, opts SyncOptions, writer *BatchWriter, categories map[string]uint, log *RunLog) (int, error) {
	updated := 0
	for _, raw := range postings {
		title := sanitize.CleanText(raw.Title)
		sourceURL := raw.SourceURL
		if title == "" || sourceURL == "" {
			log.Warnf("%s: skipping posting with missing title or url", item)
			continue
		}

		company := sanitize.CleanText(raw.Company)
		if company == "" {
			company = item.Company
		}
		description := sanitize.CleanDescription(raw.Description)
		categoryID := categories[sanitize.Classify(title, raw.Tags)]

		existing, err := s.stores.Postings.GetBySourceURL(ctx, sourceURL)
		if err != nil {
			return updated, err
		}

		if existing != nil {
			if !opts.UpdateExisting {
				continue
			}
			existing.Title = title
			existing.Company = company
			existing.Description = description
			existing.Salary = sanitize.CleanText(raw.Salary)
			existing.Tags = raw.Tags
			if categoryID != 0 {
				existing.CategoryID = &categoryID
			}
			if err := s.stores.Postings.Update(ctx, existing); err != nil {
				return updated, err
			}
			updated++
			continue
		}

		if !opts.AddNew {
			continue
		}
		posting := &models.JobPosting{
			Title:       title,
			Company:     company,
			Description: description,
			Salary:      sanitize.CleanText(raw.Salary),
			SourceName:  raw.SourceName,
			SourceURL:   sourceURL,
			Tags:        raw.Tags,
		}
		if categoryID != 0 {
			posting.CategoryID = &categoryID
		}
		if err := writer.Add(ctx, posting); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// loadCategories resolves the category slug → id map once per tick.
func (s *SyncService) loadCategories(ctx context.Context) (map[string]uint, error) {
	list, err := s.stores.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]uint, len(list))
	for _, cat := range list {
		out[cat.Slug] = cat.ID
	}
	return out, nil
}

// updateRun persists the run row incrementally. Best-effort: a history
// write failure never rolls back postings already written.
func (s *SyncService) updateRun(ctx context.Context, run *models.SyncHistory, log *RunLog, stats models.SyncStats, index, total int) {
	run.Stats = stats
	run.Logs = log.Entries()
	run.LastProcessedIndex = index
	run.TotalItems = total
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to update run row: %v", err)
	}
}

// failRun marks the run row failed, retaining collected logs.
func (s *SyncService) failRun(ctx context.Context, run *models.SyncHistory, log *RunLog, cause error) {
	now := s.now().UTC()
	run.Status = models.SyncStatusFailed
	run.CompletedAt = &now
	run.Error = cause.Error()
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to record run failure: %v", err)
	}
}

// advanceCursor computes the next persisted cursor after processing
// `processed` items starting at `start`, wrapping to 0 at the list end.
func advanceCursor(start, processed, total int) int {
	next := start + processed
	if next >= total {
		return 0
	}
	return next
}
