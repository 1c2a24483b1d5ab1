package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// VendorSyncSchedule is a five-field cron expression. Only fixed
	// "minute hour * * *" daily schedules are supported.
	VendorSyncSchedule string

	// CRMSweepInterval is how often to sweep the CRM bridge for sync
	// errors
	CRMSweepInterval time.Duration

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		VendorSyncSchedule: "0 2 * * *",
		CRMSweepInterval:   15 * time.Minute,
		CheckInterval:      time.Minute,
	}
}

// parseDailySchedule extracts the minute and hour from a fixed daily
// cron expression
func parseDailySchedule(schedule string) (hour, minute int, err error) {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, schedule)
	}
	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidSchedule, schedule)
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidSchedule, schedule)
	}
	for _, field := range fields[2:] {
		if field != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported, got %q", ErrInvalidSchedule, schedule)
		}
	}
	return hour, minute, nil
}

// CronTrigger schedules the recurring integration jobs: the nightly
// vendor feed sync and the periodic CRM error sweep
type CronTrigger struct {
	config     CronTriggerConfig
	scheduler  *Scheduler
	logger     *zap.Logger
	syncHour   int
	syncMinute int

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // date of the last vendor sync trigger
	lastSweep   time.Time
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	logger *zap.Logger,
) (*CronTrigger, error) {
	hour, minute, err := parseDailySchedule(config.VendorSyncSchedule)
	if err != nil {
		return nil, err
	}

	return &CronTrigger{
		config:     config,
		scheduler:  scheduler,
		logger:     logger,
		syncHour:   hour,
		syncMinute: minute,
		lastSweep:  time.Now(),
	}, nil
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Int("vendor_sync_hour", c.syncHour),
		zap.Int("vendor_sync_minute", c.syncMinute),
		zap.Duration("crm_sweep_interval", c.config.CRMSweepInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether a job is due
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkVendorSync()
			c.checkCRMSweep()
		}
	}
}

// checkVendorSync triggers the nightly vendor feed sync once per day
// at the configured time
func (c *CronTrigger) checkVendorSync() {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	alreadyRan := c.lastRunDate == currentDate
	c.mu.Unlock()
	if alreadyRan {
		return
	}

	if now.Hour() != c.syncHour || now.Minute() != c.syncMinute {
		return
	}

	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	c.logger.Info("Triggering nightly vendor feed sync")
	if err := c.scheduler.Schedule(JobTypeVendorFeedSync); err != nil {
		c.logger.Error("Failed to schedule vendor feed sync", zap.Error(err))
	}
}

// checkCRMSweep triggers the CRM error sweep on its interval
func (c *CronTrigger) checkCRMSweep() {
	c.mu.Lock()
	due := time.Since(c.lastSweep) >= c.config.CRMSweepInterval
	if due {
		c.lastSweep = time.Now()
	}
	c.mu.Unlock()
	if !due {
		return
	}

	if err := c.scheduler.Schedule(JobTypeCRMErrorSweep); err != nil {
		c.logger.Error("Failed to schedule crm error sweep", zap.Error(err))
	}
}

// TriggerManualSync allows admin endpoints to queue a sync job on
// demand
func (c *CronTrigger) TriggerManualSync(jobType JobType) error {
	switch jobType {
	case JobTypeVendorFeedSync, JobTypeCRMErrorSweep, JobTypeCRMContactSync, JobTypeCRMProductSync:
		return c.scheduler.Schedule(jobType)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, jobType)
	}
}
