// File: internal/jobs/pool_monitor.go
package jobs

import (
	"database/sql"
	"fmt"
	"time"

	"credential_service_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StatsSource reports connection pool statistics. *sql.DB implements it.
type StatsSource interface {
	Stats() sql.DBStats
}

// PoolMonitorJob periodically logs database pool usage. A request that never
// returns its connection shows up here as a pool pinned at its limit.
type PoolMonitorJob struct {
	stats         StatsSource
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewPoolMonitorJob creates a new PoolMonitorJob.
func NewPoolMonitorJob(stats StatsSource, logger *zap.Logger, cfg *config.Config) *PoolMonitorJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)

	return &PoolMonitorJob{
		stats:         stats,
		logger:        logger.Named("PoolMonitorJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job. An empty schedule disables it.
func (j *PoolMonitorJob) SetupAndStart() error {
	jobSpec := j.cfg.PoolMonitorSchedule
	if jobSpec == "" {
		j.logger.Warn("Pool monitor schedule not defined (POOL_MONITOR_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule pool monitor job", zap.String("spec", jobSpec), zap.Error(err))
		return fmt.Errorf("invalid pool monitor schedule %q: %w", jobSpec, err)
	}

	j.logger.Info("Pool monitor job scheduled", zap.String("spec", jobSpec), zap.Int("jobID", int(jobID)))
	j.cronScheduler.Start()
	return nil
}

func (j *PoolMonitorJob) runJob() {
	s := j.stats.Stats()
	fields := []zap.Field{
		zap.Int("max_open", s.MaxOpenConnections),
		zap.Int("open", s.OpenConnections),
		zap.Int("in_use", s.InUse),
		zap.Int("idle", s.Idle),
		zap.Int64("wait_count", s.WaitCount),
		zap.Duration("wait_duration", s.WaitDuration),
	}
	if s.MaxOpenConnections > 0 && s.InUse >= s.MaxOpenConnections {
		j.logger.Warn("Database pool exhausted", fields...)
		return
	}
	j.logger.Info("Database pool stats", fields...)
}

// Stop gracefully stops the cron scheduler.
func (j *PoolMonitorJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping pool monitor scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Pool monitor scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Pool monitor scheduler stop timed out.")
	}
}
