package cron

import (
	"context"
	"os"
	"sync"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/chatmesh/mailstack/interfaces"
	cron_config "github.com/chatmesh/mailstack/internal/cron/config"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/tracing"
)

const (
	// GroupScan serializes jobs that touch the IMAP session
	GroupScan = "scan"
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupScan: new(sync.Mutex),
	},
}

type CronManager struct {
	log    logger.Logger
	cron   *cronv3.Cron
	stopCh chan struct{}
	jobIDs map[string]cronv3.EntryID
	imap   interfaces.IMAPService
}

func NewCronManager(log logger.Logger, imapService interfaces.IMAPService) *CronManager {
	return &CronManager{
		log:    log,
		stopCh: make(chan struct{}),
		jobIDs: make(map[string]cronv3.EntryID),
		imap:   imapService,
	}
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		hostname, _ := os.Hostname()
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from host: %s", hostname)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Register the periodic full folder scan
	if cronConfig.CronScheduleFolderScan != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleFolderScan, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupScan].Lock()
			defer jobLocks.locks[GroupScan].Unlock()
			cm.runFolderScan()
		})
		if err != nil {
			cm.log.Fatalf("Could not add folder scan cron job: %v", err)
		}
		cm.jobIDs["folder_scan"] = id
		cm.log.Infof("Registered folder scan job with schedule: %s", cronConfig.CronScheduleFolderScan)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Create a new cron with seconds field enabled and panic recovery
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger), // Skip if still running
			cronv3.Recover(cronv3.DefaultLogger),            // Default recovery as backup
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) runFolderScan() {
	cm.log.Info("Running scheduled folder scan")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runFolderScan")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	if err := cm.imap.ScanFolders(ctx); err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to scan folders: %v", err)
		return
	}

	cm.log.Info("Completed scheduled folder scan")
}
