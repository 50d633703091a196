package imap

import (
	"context"
	"sync"

	"github.com/chatmesh/mailstack/config"
	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/settings"
)

type IMAPService struct {
	cfg          *config.IMAPConfig
	log          logger.Logger
	settings     *settings.Store
	syncRepo     interfaces.FolderSyncRepository
	eventHandler func(context.Context, interfaces.MailEvent)
	sessionMutex sync.RWMutex
	session      interfaces.IMAPSession
	scanGate     scanGate
}

func NewIMAPService(
	cfg *config.IMAPConfig,
	log logger.Logger,
	settingsStore *settings.Store,
	syncRepo interfaces.FolderSyncRepository,
) interfaces.IMAPService {
	return &IMAPService{
		cfg:      cfg,
		log:      log,
		settings: settingsStore,
		syncRepo: syncRepo,
	}
}

// SetEventHandler sets the handler invoked for every fetched message
func (s *IMAPService) SetEventHandler(handler func(context.Context, interfaces.MailEvent)) {
	s.eventHandler = handler
}

// Start establishes the IMAP session
func (s *IMAPService) Start(ctx context.Context) error {
	session, err := s.connectToIMAPServer(ctx)
	if err != nil {
		return err
	}

	s.sessionMutex.Lock()
	s.session = session
	s.sessionMutex.Unlock()

	s.log.Infof("Connected to %s:%d", s.cfg.Server, s.cfg.Port)
	return nil
}

// Stop logs out and drops the session
func (s *IMAPService) Stop() error {
	s.sessionMutex.Lock()
	session := s.session
	s.session = nil
	s.sessionMutex.Unlock()

	if session == nil {
		return nil
	}

	if err := session.Logout(); err != nil {
		s.log.Warnf("Error during logout: %v", err)
	}
	s.log.Info("IMAP service stopped")
	return nil
}

func (s *IMAPService) currentSession() interfaces.IMAPSession {
	s.sessionMutex.RLock()
	defer s.sessionMutex.RUnlock()
	return s.session
}
