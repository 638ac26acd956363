package jobs

import (
	"context"
	"log/slog"
	"time"

	"pharmacy/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AvailabilitySweepJob periodically frees drivers whose location feed went
// silent. A driver that stops pinging keeps their last is_available flag
// forever otherwise, and stale entries pollute the broadcast audience.
type AvailabilitySweepJob struct {
	handler   commands.ReleaseStaleDriversCommandHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAvailabilitySweepJob creates a sweep job. Drivers whose last ping is
// older than threshold are marked unavailable on each run.
func NewAvailabilitySweepJob(
	handler commands.ReleaseStaleDriversCommandHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *AvailabilitySweepJob {
	return &AvailabilitySweepJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(),
		logger:    logger.With("component", "availability_sweep_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *AvailabilitySweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewReleaseStaleDriversCommand(time.Now().Add(-j.threshold))
		if err != nil {
			j.logger.ErrorContext(ctx, "Availability sweep command rejected", "error", err)
			return
		}

		swept, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Availability sweep failed", "error", err)
			return
		}
		if swept > 0 {
			j.logger.InfoContext(ctx, "Marked stale drivers unavailable", "count", swept)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Availability sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *AvailabilitySweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Availability sweep job stopped")
}
