package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/models"
	"github.com/chatmesh/mailstack/internal/tracing"
)

type folderSyncRepository struct {
	db *gorm.DB
}

func NewFolderSyncRepository(db *gorm.DB) interfaces.FolderSyncRepository {
	return &folderSyncRepository{db: db}
}

// GetSyncState retrieves the sync state for a folder
func (r *folderSyncRepository) GetSyncState(ctx context.Context, folderName string) (*models.FolderSyncState, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "folderSyncRepository.GetSyncState")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var state models.FolderSyncState
	result := r.db.WithContext(ctx).
		Where("folder_name = ?", folderName).
		First(&state)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil // No sync state yet
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get sync state: %w", result.Error)
	}

	return &state, nil
}

// SaveSyncState saves the sync state for a folder
func (r *folderSyncRepository) SaveSyncState(ctx context.Context, state *models.FolderSyncState) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "folderSyncRepository.SaveSyncState")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	// Set the last sync time
	state.LastSync = time.Now()

	// Try to update first
	result := r.db.WithContext(ctx).
		Model(&models.FolderSyncState{}).
		Where("folder_name = ?", state.FolderName).
		Updates(map[string]interface{}{
			"last_uid":   state.LastUID,
			"last_sync":  state.LastSync,
			"updated_at": time.Now(),
		})

	// If no record was updated, create a new one
	if result.RowsAffected == 0 {
		result = r.db.WithContext(ctx).Create(state)
	}

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to save sync state: %w", result.Error)
	}

	return nil
}

// DeleteSyncState deletes the sync state for a folder
func (r *folderSyncRepository) DeleteSyncState(ctx context.Context, folderName string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "folderSyncRepository.DeleteSyncState")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Where("folder_name = ?", folderName).
		Delete(&models.FolderSyncState{})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to delete sync state: %w", result.Error)
	}

	return nil
}
