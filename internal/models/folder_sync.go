package models

import (
	"time"
)

// FolderSyncState tracks the highest UID fetched from a folder so far.
type FolderSyncState struct {
	ID         string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FolderName string    `gorm:"column:folder_name;type:varchar(100);uniqueIndex;not null"`
	LastUID    uint32    `gorm:"column:last_uid;not null"`
	LastSync   time.Time `gorm:"column:last_sync;type:timestamp;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (FolderSyncState) TableName() string {
	return "folder_sync_states"
}
