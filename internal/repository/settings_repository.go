package repository

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/models"
	"github.com/chatmesh/mailstack/internal/tracing"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) interfaces.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the raw stored value for a key, nil when unset
func (r *settingsRepository) Get(ctx context.Context, key string) (*string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "settingsRepository.Get")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("setting.key", key)

	var setting models.Setting
	result := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&setting)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil // no value stored
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get setting: %w", result.Error)
	}

	return &setting.Value, nil
}

// Set stores the value for a key; a nil value removes the stored entry.
func (r *settingsRepository) Set(ctx context.Context, key string, value *string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "settingsRepository.Set")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("setting.key", key)

	if value == nil {
		result := r.db.WithContext(ctx).
			Where("key = ?", key).
			Delete(&models.Setting{})
		if result.Error != nil {
			tracing.TraceErr(span, result.Error)
			return fmt.Errorf("failed to clear setting: %w", result.Error)
		}
		return nil
	}

	// Try to update first
	result := r.db.WithContext(ctx).
		Model(&models.Setting{}).
		Where("key = ?", key).
		Update("value", *value)

	// If no record was updated, create a new one
	if result.RowsAffected == 0 {
		result = r.db.WithContext(ctx).Create(&models.Setting{
			Key:   key,
			Value: *value,
		})
	}

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to save setting: %w", result.Error)
	}

	return nil
}
