package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/usecase"

	basecache "github.com/riskibarqy/cricket-hub/internal/platform/cache"
)

const (
	syncJobName        = "cricket-sync"
	cacheSweepJobName  = "cache-sweep"
	cacheSweepInterval = time.Minute
)

// cacheSweeper is the part of the shared cache store the sweep job drives.
type cacheSweeper interface {
	Sweep(ctx context.Context) int
	Stats() basecache.Stats
}

// syncRunner is the part of usecase.SyncService the scheduler drives.
type syncRunner interface {
	Run(ctx context.Context) (usecase.SyncReport, error)
}

func newSyncScheduler() (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return scheduler, nil
}

// scheduleSync registers one singleton job; a run that overlaps the next tick
// is rescheduled rather than stacked.
func scheduleSync(ctx context.Context, scheduler gocron.Scheduler, runner syncRunner, interval time.Duration, logger *logging.Logger) error {
	_, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runSync(ctx, runner, interval, logger)
		}),
		gocron.WithName(syncJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", syncJobName, err)
	}
	return nil
}

func runSync(ctx context.Context, runner syncRunner, timeout time.Duration, logger *logging.Logger) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report, err := runner.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "sync run failed", "error", err)
		return
	}
	if report.Skipped {
		return
	}
	for _, task := range report.Tasks {
		logger.InfoContext(ctx, "sync task finished",
			"task", task.Task,
			"status", task.Status,
			"records", task.Records,
			"duration_ms", task.DurationMs,
		)
	}
}

// scheduleCacheSweep drops expired cache entries that no reader touched.
func scheduleCacheSweep(ctx context.Context, scheduler gocron.Scheduler, store cacheSweeper, logger *logging.Logger) error {
	_, err := scheduler.NewJob(
		gocron.DurationJob(cacheSweepInterval),
		gocron.NewTask(func() {
			sweepCache(ctx, store, logger)
		}),
		gocron.WithName(cacheSweepJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", cacheSweepJobName, err)
	}
	return nil
}

func sweepCache(ctx context.Context, store cacheSweeper, logger *logging.Logger) {
	if ctx.Err() != nil {
		return
	}
	removed := store.Sweep(ctx)
	stats := store.Stats()
	logger.DebugContext(ctx, "cache swept",
		"removed", removed,
		"entries", stats.Entries,
		"hits", stats.Hits,
		"misses", stats.Misses,
	)
}
