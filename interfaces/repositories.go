package interfaces

import (
	"context"

	"github.com/chatmesh/mailstack/internal/models"
)

// SettingsRepository is the raw key-value access to the settings table.
// Typed reads with defaults live in the settings package on top of this.
type SettingsRepository interface {
	// Get returns nil when the key has no stored value.
	Get(ctx context.Context, key string) (*string, error)
	// Set stores value under key; a nil value deletes the stored entry,
	// falling back to the key's default if one exists.
	Set(ctx context.Context, key string, value *string) error
}

type FolderSyncRepository interface {
	GetSyncState(ctx context.Context, folderName string) (*models.FolderSyncState, error)
	SaveSyncState(ctx context.Context, state *models.FolderSyncState) error
	DeleteSyncState(ctx context.Context, folderName string) error
}
