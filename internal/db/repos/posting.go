package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// PostingRepository provides access to job-posting database operations
type PostingRepository struct {
	db *gorm.DB
}

// NewPostingRepository creates a new posting repository instance
func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// Create creates a new posting in the database
func (r *PostingRepository) Create(ctx context.Context, posting *models.JobPosting) error {
	return r.db.WithContext(ctx).Create(posting).Error
}

// CreateBatch creates a batch of postings in a single bulk insert
func (r *PostingRepository) CreateBatch(ctx context.Context, postings []*models.JobPosting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(postings, 100).Error
	})
}

// Update updates an existing posting in the database
func (r *PostingRepository) Update(ctx context.Context, posting *models.JobPosting) error {
	return r.db.WithContext(ctx).Save(posting).Error
}

// GetBySourceURL retrieves a posting by its natural key. Returns nil without
// error when no posting has that URL.
func (r *PostingRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*models.JobPosting, error) {
	var posting models.JobPosting
	err := r.db.WithContext(ctx).
		Where(&models.JobPosting{SourceURL: sourceURL}).
		First(&posting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting by source url: %w", err)
	}
	return &posting, nil
}

// List returns postings ordered by creation time descending
func (r *PostingRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.JobPosting, error) {
	o := opts.WithDefaults()
	var postings []models.JobPosting
	err := r.db.WithContext(ctx).
		Limit(o.Limit).Offset(o.Offset).
		Order(models.PostingCreatedAtField + " DESC").
		Find(&postings).Error
	return postings, err
}

// ListAllOrdered returns every posting ordered by id ascending. Used by the
// deduplicator, which needs a deterministic scan order.
func (r *PostingRepository) ListAllOrdered(ctx context.Context) ([]models.JobPosting, error) {
	var postings []models.JobPosting
	err := r.db.WithContext(ctx).Order("id ASC").Find(&postings).Error
	return postings, err
}

// ListBySource returns every posting stored for one source
func (r *PostingRepository) ListBySource(ctx context.Context, sourceName string) ([]models.JobPosting, error) {
	var postings []models.JobPosting
	err := r.db.WithContext(ctx).
		Where(&models.JobPosting{SourceName: sourceName}).
		Find(&postings).Error
	return postings, err
}

// DistinctSources returns the distinct source names present in the table
func (r *PostingRepository) DistinctSources(ctx context.Context) ([]string, error) {
	var sources []string
	err := r.db.WithContext(ctx).Model(&models.JobPosting{}).
		Distinct("source_name").
		Pluck("source_name", &sources).Error
	return sources, err
}

// ListStale returns up to limit postings whose updated_at is older than the
// cutoff, optionally scoped to the given sources, oldest first.
func (r *PostingRepository) ListStale(ctx context.Context, cutoff time.Time, sourceNames []string, limit int) ([]models.JobPosting, error) {
	var postings []models.JobPosting
	query := r.db.WithContext(ctx).
		Where(models.PostingUpdatedAtField+" < ?", cutoff).
		Order(models.PostingUpdatedAtField + " ASC").
		Limit(limit)
	if len(sourceNames) > 0 {
		query = query.Where("source_name IN ?", sourceNames)
	}
	err := query.Find(&postings).Error
	return postings, err
}

// DeleteByIDs permanently removes the given postings. Hard delete: the row's
// source URL must become insertable again on the next sync.
func (r *PostingRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.JobPosting{}, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete postings: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of stored postings
func (r *PostingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JobPosting{}).Count(&count).Error
	return count, err
}
