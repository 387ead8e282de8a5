package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
)

// Dedup criteria names.
const (
	CriterionTitle       = "title"
	CriterionCompany     = "company"
	CriterionDescription = "description"
	CriterionSalary      = "salary"
)

// criterionThresholds holds the per-criterion similarity gates, in percent.
// A pair is a duplicate only when every selected criterion independently
// clears its own threshold; salary is exact string equality.
var criterionThresholds = map[string]float64{
	CriterionTitle:       80,
	CriterionCompany:     90,
	CriterionDescription: 70,
}

// DedupeOptions control one deduplication run.
type DedupeOptions struct {
	// DryRun reports clusters without mutating anything
	DryRun bool `json:"dry_run"`
	// Criteria selects which gates apply; empty means all four
	Criteria []string `json:"criteria,omitempty"`
}

// DuplicateGroup is one resolved cluster: the retained posting and the
// postings folded into it.
type DuplicateGroup struct {
	KeptID       uint   `json:"kept_id"`
	DuplicateIDs []uint `json:"duplicate_ids"`
}

// DedupeResult is the outcome of one deduplication run.
type DedupeResult struct {
	DuplicatesFound   int               `json:"duplicates_found"`
	DuplicatesRemoved int               `json:"duplicates_removed"`
	Groups            []DuplicateGroup  `json:"groups"`
	Logs              []models.LogEntry `json:"logs"`
}

// DedupeService finds and optionally removes near-duplicate postings.
type DedupeService struct {
	stores *repos.Stores
	now    func() time.Time
}

// NewDedupeService creates a deduplicator over the given stores.
func NewDedupeService(stores *repos.Stores) *DedupeService {
	return &DedupeService{stores: stores, now: time.Now}
}

// validateCriteria rejects criterion names outside the four known gates. A
// misspelled criterion would otherwise apply no gate at all and flag every
// pair, so unknown names must fail the run rather than be skipped.
func validateCriteria(criteria []string) error {
	for _, criterion := range criteria {
		switch criterion {
		case CriterionTitle, CriterionCompany, CriterionDescription, CriterionSalary:
		default:
			return fmt.Errorf("unknown dedupe criterion %q", criterion)
		}
	}
	return nil
}

// Run scans all stored postings for near-duplicate clusters. Within a
// cluster the earliest-created posting is kept and the rest are deleted,
// unless DryRun is set, in which case nothing is mutated.
func (s *DedupeService) Run(ctx context.Context, opts DedupeOptions) (*DedupeResult, error) {
	criteria := opts.Criteria
	if len(criteria) == 0 {
		criteria = []string{CriterionTitle, CriterionCompany, CriterionDescription, CriterionSalary}
	}
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}

	log := NewRunLog()
	run := &models.SyncHistory{
		RunID:     uuid.NewString(),
		SyncType:  models.SyncTypeDedupe,
		Status:    models.SyncStatusRunning,
		StartedAt: s.now().UTC(),
	}
	if err := s.stores.History.Create(ctx, run); err != nil {
		return nil, err
	}

	postings, err := s.stores.Postings.ListAllOrdered(ctx)
	if err != nil {
		s.failDedupeRun(ctx, run, log, err)
		return nil, err
	}
	log.Infof("dedupe: scanning %d postings, criteria=%s dry_run=%v", len(postings), strings.Join(criteria, ","), opts.DryRun)

	docs := make([]dedupeDoc, len(postings))
	for i := range postings {
		docs[i] = newDedupeDoc(postings[i])
	}

	result := &DedupeResult{}
	stats := models.SyncStats{}
	clustered := make([]bool, len(postings))

	// Single quadratic pass. A posting that joined a cluster can never
	// anchor a new one, so clusters do not overlap. Postings are ordered by
	// id ascending, so the anchor is always the earliest-created record.
	for i := range postings {
		if clustered[i] {
			continue
		}
		var group DuplicateGroup
		var pairs []*models.DuplicateJobPair
		for j := i + 1; j < len(postings); j++ {
			if clustered[j] {
				continue
			}
			dup, avg := s.compare(docs[i], docs[j], criteria)
			if !dup {
				continue
			}
			clustered[j] = true
			group.DuplicateIDs = append(group.DuplicateIDs, postings[j].ID)
			result.DuplicatesFound++
			// The averaged score is advisory only: it is logged and stored
			// for inspection but never part of the duplicate decision.
			log.Infof("duplicate: #%d ~ #%d (avg similarity %.1f)", postings[i].ID, postings[j].ID, avg)
			pairs = append(pairs, &models.DuplicateJobPair{
				JobID1:          postings[i].ID,
				JobID2:          postings[j].ID,
				SimilarityScore: avg,
				Resolved:        true,
			})
		}
		if len(group.DuplicateIDs) == 0 {
			continue
		}
		clustered[i] = true
		group.KeptID = postings[i].ID
		result.Groups = append(result.Groups, group)

		if opts.DryRun {
			continue
		}
		deleted, err := s.stores.Postings.DeleteByIDs(ctx, group.DuplicateIDs)
		if err != nil {
			log.Errorf("failed to delete duplicates of #%d: %v", group.KeptID, err)
			continue
		}
		result.DuplicatesRemoved += int(deleted)
		stats.Deleted += int(deleted)
		// Pairs are recorded only once the delete went through, so a
		// Resolved pair never refers to rows that still exist.
		for _, pair := range pairs {
			if err := s.stores.Duplicates.Create(ctx, pair); err != nil {
				log.Errorf("failed to record duplicate pair: %v", err)
			}
		}
	}

	log.Infof("dedupe: %d duplicates in %d groups, removed %d", result.DuplicatesFound, len(result.Groups), result.DuplicatesRemoved)

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

// compare applies the conjunctive per-criterion gates to one pair. It also
// returns the averaged score across the selected criteria, which is
// advisory only.
func (s *DedupeService) compare(a, b dedupeDoc, criteria []string) (bool, float64) {
	total := 0.0
	for _, criterion := range criteria {
		var score float64
		switch criterion {
		case CriterionTitle:
			score = jaccard(a.title, b.title)
		case CriterionCompany:
			score = jaccard(a.company, b.company)
		case CriterionDescription:
			score = jaccard(a.description, b.description)
		case CriterionSalary:
			if a.salary != b.salary {
				return false, 0
			}
			total += 100
			continue
		default:
			continue
		}
		if score < criterionThresholds[criterion] {
			return false, 0
		}
		total += score
	}
	return true, total / float64(len(criteria))
}

func (s *DedupeService) failDedupeRun(ctx context.Context, run *models.SyncHistory, log *RunLog, cause error) {
	now := s.now().UTC()
	run.Status = models.SyncStatusFailed
	run.CompletedAt = &now
	run.Error = cause.Error()
	run.Logs = log.Entries()
	if err := s.stores.History.Update(ctx, run); err != nil {
		log.Errorf("failed to record run failure: %v", err)
	}
}

// dedupeDoc caches the token sets of one posting for the quadratic pass.
type dedupeDoc struct {
	title       map[string]struct{}
	company     map[string]struct{}
	description map[string]struct{}
	salary      string
}

func newDedupeDoc(p models.JobPosting) dedupeDoc {
	return dedupeDoc{
		title:       tokenSet(p.Title),
		company:     tokenSet(p.Company),
		description: tokenSet(p.Description),
		salary:      p.Salary,
	}
}

// tokenSet splits s into a set of lowercase whitespace-separated tokens.
func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(s)) {
		out[token] = struct{}{}
	}
	return out
}

// jaccard returns the token-set overlap of a and b as a percentage. Two
// empty sets are identical by convention.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 100
	}
	return float64(intersection) / float64(union) * 100
}
