package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// DuplicateRepository records resolved near-duplicate pairs
type DuplicateRepository struct {
	db *gorm.DB
}

// NewDuplicateRepository creates a new duplicate repository instance
func NewDuplicateRepository(db *gorm.DB) *DuplicateRepository {
	return &DuplicateRepository{db: db}
}

// Create records one resolved pair
func (r *DuplicateRepository) Create(ctx context.Context, pair *models.DuplicateJobPair) error {
	return r.db.WithContext(ctx).Create(pair).Error
}

// List returns recorded pairs, newest first
func (r *DuplicateRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.DuplicateJobPair, error) {
	o := opts.WithDefaults()
	var pairs []models.DuplicateJobPair
	err := r.db.WithContext(ctx).
		Limit(o.Limit).Offset(o.Offset).
		Order("created_at DESC").
		Find(&pairs).Error
	return pairs, err
}
