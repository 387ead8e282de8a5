package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// CompanyRepository handles database operations for the discovery candidate
// queue and for confirmed companies
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new instance of CompanyRepository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{
		db: db,
	}
}

// CreateCandidate adds a candidate to the queue
func (r *CompanyRepository) CreateCandidate(ctx context.Context, candidate *models.PotentialCompany) error {
	if candidate.AddedAt.IsZero() {
		candidate.AddedAt = time.Now().UTC()
	}
	if candidate.Status == models.CandidateStatusUnknown {
		candidate.Status = models.CandidateStatusPending
	}
	return r.db.WithContext(ctx).Create(candidate).Error
}

// ListCandidatePool returns the candidates eligible for probing: pending
// plus not_found, so prior misses are retried. Ordered by queue add time.
func (r *CompanyRepository) ListCandidatePool(ctx context.Context) ([]models.PotentialCompany, error) {
	var candidates []models.PotentialCompany
	err := r.db.WithContext(ctx).
		Where("status IN ?", []models.CandidateStatus{models.CandidateStatusPending, models.CandidateStatusNotFound}).
		Order(models.CandidateAddedAtField + " ASC").
		Find(&candidates).Error
	return candidates, err
}

// MarkChecking flips a candidate to checking before its probes run
func (r *CompanyRepository) MarkChecking(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.PotentialCompany{}).
		Where(&models.PotentialCompany{Model: gorm.Model{ID: id}}).
		Update("status", models.CandidateStatusChecking).Error
}

// RecordProbeOutcome stores the terminal state of one probe round on the
// candidate and bumps its check counter by the number of backends probed.
func (r *CompanyRepository) RecordProbeOutcome(ctx context.Context, id uint, status models.CandidateStatus, checkedAt time.Time, probes int) error {
	return r.db.WithContext(ctx).Model(&models.PotentialCompany{}).
		Where(&models.PotentialCompany{Model: gorm.Model{ID: id}}).
		Updates(map[string]interface{}{
			"status":          status,
			"check_count":     gorm.Expr("check_count + ?", probes),
			"last_checked_at": checkedAt,
		}).Error
}

// GetCandidateBySlug retrieves a candidate by slug. Returns nil without
// error when the slug is not queued.
func (r *CompanyRepository) GetCandidateBySlug(ctx context.Context, slug string) (*models.PotentialCompany, error) {
	var candidate models.PotentialCompany
	err := r.db.WithContext(ctx).
		Where(&models.PotentialCompany{Slug: slug}).
		First(&candidate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &candidate, nil
}

// InsertDiscovered inserts a confirmed company with insert-or-ignore
// semantics on the unique slug. Reports whether a row was actually created,
// so concurrent discovery runs racing on the same slug stay benign.
func (r *CompanyRepository) InsertDiscovered(ctx context.Context, company *models.DiscoveredCompany) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(company)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert discovered company: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListDiscovered returns every confirmed company, ordered by slug so the
// worklist derived from it is deterministic.
func (r *CompanyRepository) ListDiscovered(ctx context.Context) ([]models.DiscoveredCompany, error) {
	var companies []models.DiscoveredCompany
	err := r.db.WithContext(ctx).Order("slug ASC").Find(&companies).Error
	return companies, err
}

// GetDiscoveredBySlug retrieves a confirmed company by slug. Returns nil
// without error when absent.
func (r *CompanyRepository) GetDiscoveredBySlug(ctx context.Context, slug string) (*models.DiscoveredCompany, error) {
	var company models.DiscoveredCompany
	err := r.db.WithContext(ctx).
		Where(&models.DiscoveredCompany{Slug: slug}).
		First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discovered company: %w", err)
	}
	return &company, nil
}
