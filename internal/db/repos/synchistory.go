package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// SyncHistoryRepository provides access to the run ledger and the persisted
// worklist cursors
type SyncHistoryRepository struct {
	db *gorm.DB
}

// NewSyncHistoryRepository creates a new sync history repository instance
func NewSyncHistoryRepository(db *gorm.DB) *SyncHistoryRepository {
	return &SyncHistoryRepository{db: db}
}

// Create creates a new run row in the ledger
func (r *SyncHistoryRepository) Create(ctx context.Context, history *models.SyncHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// Update writes the full run row back. Called incrementally after each
// worklist item so a truncated run still shows partial progress.
func (r *SyncHistoryRepository) Update(ctx context.Context, history *models.SyncHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// GetByID retrieves a run by its ID
func (r *SyncHistoryRepository) GetByID(ctx context.Context, id uint) (*models.SyncHistory, error) {
	var history models.SyncHistory
	err := r.db.WithContext(ctx).
		Where(&models.SyncHistory{Model: gorm.Model{ID: id}}).
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sync run not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return &history, nil
}

// List returns user-visible runs, newest first. Cursor rows with status
// batch_state are excluded.
func (r *SyncHistoryRepository) List(ctx context.Context, syncType string, opts *models.ListOptions) ([]models.SyncHistory, error) {
	o := opts.WithDefaults()
	var runs []models.SyncHistory
	query := r.db.WithContext(ctx).
		Where("status <> ?", models.SyncStatusBatchState).
		Limit(o.Limit).Offset(o.Offset).
		Order(models.SyncHistoryStartedAtField + " DESC")
	if syncType != "" {
		query = query.Where(&models.SyncHistory{SyncType: syncType})
	}
	err := query.Find(&runs).Error
	return runs, err
}

// GetCursor returns the singleton batch_state row for a sync type, creating
// it at index 0 on first use.
func (r *SyncHistoryRepository) GetCursor(ctx context.Context, syncType string) (*models.SyncHistory, error) {
	cursor := models.SyncHistory{
		SyncType: syncType,
		Status:   models.SyncStatusBatchState,
	}
	err := r.db.WithContext(ctx).
		Where(&models.SyncHistory{SyncType: syncType, Status: models.SyncStatusBatchState}).
		FirstOrCreate(&cursor).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s cursor: %w", syncType, err)
	}
	return &cursor, nil
}

// SaveCursor persists the cursor position for a sync type
func (r *SyncHistoryRepository) SaveCursor(ctx context.Context, cursor *models.SyncHistory, index, totalItems int) error {
	cursor.LastProcessedIndex = index
	cursor.TotalItems = totalItems
	return r.db.WithContext(ctx).Save(cursor).Error
}
