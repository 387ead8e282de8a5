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

// ProgressRepository handles the per-company sync cursors
type ProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new instance of ProgressRepository
func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		db: db,
	}
}

// Get retrieves the cursor row for a company. Returns nil without error when
// the company has never been synced.
func (r *ProgressRepository) Get(ctx context.Context, companySlug string) (*models.CompanyJobProgress, error) {
	var progress models.CompanyJobProgress
	err := r.db.WithContext(ctx).
		Where(&models.CompanyJobProgress{CompanySlug: companySlug}).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company progress: %w", err)
	}
	return &progress, nil
}

// Upsert writes the cursor row for a company, creating it on first sync.
// The write is a keyed upsert so concurrent invocations cannot corrupt it.
func (r *ProgressRepository) Upsert(ctx context.Context, companySlug, source string, offset int, syncedAt time.Time) error {
	progress := models.CompanyJobProgress{
		CompanySlug:   companySlug,
		Source:        source,
		LastJobOffset: offset,
		LastSyncedAt:  syncedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"source", "last_job_offset", "last_synced_at", "updated_at"}),
		}).
		Create(&progress).Error
}
