package repository

import (
	"gorm.io/gorm"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/models"
)

type Repositories struct {
	SettingsRepository   interfaces.SettingsRepository
	FolderSyncRepository interfaces.FolderSyncRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		SettingsRepository:   NewSettingsRepository(db),
		FolderSyncRepository: NewFolderSyncRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Setting{},
		&models.FolderSyncState{},
	)
}
