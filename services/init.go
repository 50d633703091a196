package services

import (
	"github.com/chatmesh/mailstack/config"
	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/repository"
	"github.com/chatmesh/mailstack/internal/settings"
	"github.com/chatmesh/mailstack/services/events"
	"github.com/chatmesh/mailstack/services/imap"
)

type Services struct {
	SettingsStore  *settings.Store
	IMAPService    interfaces.IMAPService
	EventPublisher interfaces.EventPublisher
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	settingsStore := settings.NewStore(repos.SettingsRepository)

	imapService := imap.NewIMAPService(cfg.IMAPConfig, log, settingsStore, repos.FolderSyncRepository)

	// The publisher is optional; without a broker URL fetched messages
	// are only handed to the in-process event handler.
	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		rabbitPublisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log)
		if err != nil {
			return nil, err
		}
		publisher = rabbitPublisher
	}

	return &Services{
		SettingsStore:  settingsStore,
		IMAPService:    imapService,
		EventPublisher: publisher,
	}, nil
}
