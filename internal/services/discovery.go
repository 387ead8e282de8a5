package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/probe"
)

// Discovery defaults.
const (
	// DefaultDiscoveryWindowSize is how many candidates one tick probes
	DefaultDiscoveryWindowSize = 5
	// DefaultDiscoveryBudget is the wall-clock budget of one discovery tick
	DefaultDiscoveryBudget = 25 * time.Second
)

// DiscoveryResult is the outcome of one discovery tick.
type DiscoveryResult struct {
	Discovered []string          `json:"discovered"`
	NotFound   []string          `json:"not_found"`
	Logs       []models.LogEntry `json:"logs"`
}

// DiscoveryService resolves candidate company names into confirmed sources.
// Candidates move pending → checking → {discovered | not_found}; not_found
// candidates re-enter the selection pool for later retry.
type DiscoveryService struct {
	stores   *repos.Stores
	backends []probe.Backend

	windowSize int
	budget     time.Duration
	now        func() time.Time
}

// NewDiscoveryService creates a discovery state machine over the given
// stores. Backends are tried in the order given; the first hit wins.
func NewDiscoveryService(stores *repos.Stores, backends []probe.Backend) *DiscoveryService {
	return &DiscoveryService{
		stores:     stores,
		backends:   backends,
		windowSize: DefaultDiscoveryWindowSize,
		budget:     DefaultDiscoveryBudget,
		now:        time.Now,
	}
}

// RunTick probes one window of the candidate queue. Probe failures for one
// candidate never abort the tick.
func (s *DiscoveryService) RunTick(ctx context.Context) (*DiscoveryResult, error) {
	log := NewRunLog()
	run := &models.SyncHistory{
		RunID:     uuid.NewString(),
		SyncType:  models.SyncTypeDiscovery,
		Status:    models.SyncStatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.stores.History.Create(ctx, run); err != nil {
		return nil, err
	}

	result, err := s.runTick(ctx, run, log)
	if err != nil {
		s.failDiscoveryRun(ctx, run, log, err)
		return nil, err
	}
	return result, nil
}

func (s *DiscoveryService) runTick(ctx context.Context, run *models.SyncHistory, log *RunLog) (*DiscoveryResult, error) {
	started := s.now()

	pool, err := s.stores.Companies.ListCandidatePool(ctx)
	if err != nil {
		return nil, err
	}
	cursor, err := s.stores.History.GetCursor(ctx, models.SyncTypeDiscovery)
	if err != nil {
		return nil, err
	}

	worklist := candidateWindow(pool, cursor.LastProcessedIndex, s.windowSize)
	start := cursor.LastProcessedIndex
	if start >= len(pool) {
		start = 0
	}
	log.Infof("discovery tick: %d candidates in pool, window [%d, %d)", len(pool), start, start+len(worklist))

	result := &DiscoveryResult{}
	stats := models.SyncStats{}
	processed := 0
	for _, candidate := range worklist {
		if elapsed := s.now().Sub(started); elapsed > s.budget {
			log.Warnf("time budget exceeded after %s, stopping before %q", elapsed.Round(time.Millisecond), candidate.Slug)
			break
		}

		discovered := s.resolveCandidate(ctx, candidate, log)
		if discovered {
			result.Discovered = append(result.Discovered, candidate.Slug)
			stats.CompaniesAdded++
		} else {
			result.NotFound = append(result.NotFound, candidate.Slug)
		}
		processed++

		run.Stats = stats
		run.Logs = log.Entries()
		run.LastProcessedIndex = start + processed
		run.TotalItems = len(pool)
		if err := s.stores.History.Update(ctx, run); err != nil {
			log.Errorf("failed to update run row: %v", err)
		}
	}

	next := advanceCursor(start, processed, len(pool))
	if err := s.stores.History.SaveCursor(ctx, cursor, next, len(pool)); err != nil {
		log.Errorf("failed to save discovery cursor: %v", err)
	}

	now := s.now().UTC()
	run.Status = models.SyncStatusCompleted
	run.CompletedAt = &now
	run.Stats = stats
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to finalize run row: %v", err)
	}

	result.Logs = log.Entries()
	return result, nil
}

// resolveCandidate probes every backend in priority order for one candidate
// and persists the terminal state. Reports whether the candidate was
// discovered.
func (s *DiscoveryService) resolveCandidate(ctx context.Context, candidate models.PotentialCompany, log *RunLog) bool {
	if err := s.stores.Companies.MarkChecking(ctx, candidate.ID); err != nil {
		log.Errorf("failed to mark %q checking: %v", candidate.Slug, err)
	}

	probes := 0
	for _, backend := range s.backends {
		probes++
		result, err := backend.Probe(ctx, candidate.Slug)
		if err != nil {
			log.Warnf("probe %s/%s failed: %v", backend.Name(), candidate.Slug, err)
			continue
		}
		log.Infof("probe %s/%s: found=%v jobs=%d", backend.Name(), candidate.Slug, result.Found, result.JobCount)
		if !result.Found {
			continue
		}

		company := &models.DiscoveredCompany{
			Slug:           candidate.Slug,
			Name:           result.CompanyName,
			Source:         result.Source,
			Status:         "active",
			JobCount:       result.JobCount,
			RemoteJobCount: result.RemoteJobCount,
		}
		for _, job := range result.SampleJobs {
			company.SampleJobs = append(company.SampleJobs, models.SampleJob{
				Title:    job.Title,
				Location: job.Location,
				URL:      job.URL,
			})
		}
		created, err := s.stores.Companies.InsertDiscovered(ctx, company)
		if err != nil {
			log.Errorf("failed to store discovered company %q: %v", candidate.Slug, err)
		} else if !created {
			// Insert-or-ignore: a concurrent run got there first.
			log.Infof("company %q already discovered", candidate.Slug)
		}

		if err := s.stores.Companies.RecordProbeOutcome(ctx, candidate.ID, models.CandidateStatusDiscovered, s.now().UTC(), probes); err != nil {
			log.Errorf("failed to record outcome for %q: %v", candidate.Slug, err)
		}
		return true
	}

	if err := s.stores.Companies.RecordProbeOutcome(ctx, candidate.ID, models.CandidateStatusNotFound, s.now().UTC(), probes); err != nil {
		log.Errorf("failed to record outcome for %q: %v", candidate.Slug, err)
	}
	return false
}

func (s *DiscoveryService) failDiscoveryRun(ctx context.Context, run *models.SyncHistory, log *RunLog, cause error) {
	now := s.now().UTC()
	run.Status = models.SyncStatusFailed
	run.CompletedAt = &now
	run.Error = cause.Error()
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to record run failure: %v", err)
	}
}

// candidateWindow mirrors Worklist.Window for the candidate queue.
func candidateWindow(pool []models.PotentialCompany, start, size int) []models.PotentialCompany {
	if len(pool) == 0 || size <= 0 {
		return nil
	}
	if start < 0 || start >= len(pool) {
		start = 0
	}
	end := start + size
	if end > len(pool) {
		end = len(pool)
	}
	return pool[start:end]
}
