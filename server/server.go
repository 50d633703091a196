package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/chatmesh/mailstack/api"
	"github.com/chatmesh/mailstack/config"
	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/cron"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/repository"
	"github.com/chatmesh/mailstack/internal/tracing"
	"github.com/chatmesh/mailstack/services"
)

type Server struct {
	config       *config.Config
	httpServer   *http.Server
	router       *gin.Engine
	services     *services.Services
	repositories *repository.Repositories
	cronManager  *cron.CronManager
	log          logger.Logger
	tracerCloser io.Closer
}

func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	// Initialize logger
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	// Initialize tracing
	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	// Initialize repositories
	repos := repository.InitRepositories(db)

	// Initialize services
	svcs, err := services.InitServices(cfg, appLogger, repos)
	if err != nil {
		return nil, err
	}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	return &Server{
		config:       cfg,
		router:       router,
		services:     svcs,
		repositories: repos,
		log:          appLogger,
		cronManager:  cron.NewCronManager(appLogger, svcs.IMAPService),
		tracerCloser: closer,
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppConfig.APIPort,
			Handler: router,
		},
	}, nil
}

func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Forward fetched messages to the broker when one is configured
	s.services.IMAPService.SetEventHandler(func(ctx context.Context, event interfaces.MailEvent) {
		defer tracing.RecoverAndLogToJaeger(s.log)
		if s.services.EventPublisher == nil {
			return
		}
		if err := s.services.EventPublisher.PublishMailEvent(ctx, event); err != nil {
			s.log.Errorf("Failed to publish mail event: %v", err)
		}
	})

	if err := s.services.IMAPService.Start(ctx); err != nil {
		return err
	}

	api.RegisterRoutes(s.router, s.services, s.log, s.config.AppConfig.APIKey)

	s.cronManager.StartCron()

	// Start the HTTP server
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Starting HTTP server on port %s", s.config.AppConfig.APIPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Infof("Received signal %s, shutting down", sig)
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.cronManager.Stop()

	if err := s.services.IMAPService.Stop(); err != nil {
		s.log.Warnf("Error stopping IMAP service: %v", err)
	}

	if s.services.EventPublisher != nil {
		if err := s.services.EventPublisher.Close(); err != nil {
			s.log.Warnf("Error closing event publisher: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warnf("HTTP server shutdown error: %v", err)
	}

	if s.tracerCloser != nil {
		if err := s.tracerCloser.Close(); err != nil {
			s.log.Warnf("Error closing tracer: %v", err)
		}
	}

	return nil
}
