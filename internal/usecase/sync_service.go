package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-hub/internal/domain/match"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
)

const (
	syncStatusSuccess = "success"
	syncStatusFailed  = "failed"
	syncStatusSkipped = "skipped"

	syncTaskSeries = "series"
)

type SyncTaskResult struct {
	Task       string
	Status     string
	Records    int
	DurationMs int64
	Message    string
}

type SyncReport struct {
	Skipped bool
	Tasks   []SyncTaskResult
}

// SyncService refreshes stored matches and series in the background.
type SyncService struct {
	matches *MatchService
	series  *SeriesService
	flags   *FeatureFlags
	workers int
	logger  *logging.Logger
}

func NewSyncService(matches *MatchService, seriesService *SeriesService, flags *FeatureFlags, workers int, logger *logging.Logger) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &SyncService{
		matches: matches,
		series:  seriesService,
		flags:   flags,
		workers: workers,
		logger:  logger,
	}
}

// Run submits one task per enabled view, plus the series sync, to a worker
// pool and waits for all of them.
func (s *SyncService) Run(ctx context.Context) (_ SyncReport, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer func() { endSpan(span, err) }()

	if !s.flags.Enabled(FlagAutoSync) {
		s.logger.DebugContext(ctx, "auto sync disabled, skipping run")
		return SyncReport{Skipped: true}, nil
	}

	tasks := make(map[string]func(context.Context) (int, error), 4)
	for _, view := range []match.View{match.ViewLive, match.ViewRecent, match.ViewUpcoming} {
		if !s.flags.Enabled(ViewFlag(view)) {
			continue
		}
		view := view
		tasks[string(view)] = func(ctx context.Context) (int, error) {
			return s.matches.Refresh(ctx, view)
		}
	}
	if s.series != nil && s.flags.Enabled(FlagSeries) {
		tasks[syncTaskSeries] = s.series.Sync
	}
	if len(tasks) == 0 {
		return SyncReport{}, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	report, err := s.runTasks(ctx, pool.Submit, tasks)
	if err != nil {
		return report, err
	}
	s.logger.InfoContext(ctx, "sync run finished", "tasks", len(report.Tasks))
	return report, nil
}

// runTasks hands every task to submit and waits for the ones accepted. When
// submit refuses a task, the tasks already running are still awaited and
// returned with the error; the rest are not started.
func (s *SyncService) runTasks(ctx context.Context, submit func(func()) error, tasks map[string]func(context.Context) (int, error)) (SyncReport, error) {
	results := make(chan SyncTaskResult, len(tasks))
	var workers sync.WaitGroup
	var submitErr error
	for name, task := range tasks {
		name, task := name, task
		workers.Add(1)
		if err := submit(func() {
			defer workers.Done()
			results <- s.runTask(ctx, name, task)
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit sync task %s: %w", name, err)
			break
		}
	}

	workers.Wait()
	close(results)

	report := SyncReport{Tasks: make([]SyncTaskResult, 0, len(tasks))}
	for row := range results {
		report.Tasks = append(report.Tasks, row)
	}
	sort.SliceStable(report.Tasks, func(i, j int) bool {
		return report.Tasks[i].Task < report.Tasks[j].Task
	})
	if submitErr != nil {
		s.logger.ErrorContext(ctx, "sync run aborted",
			"finished", len(report.Tasks),
			"not_started", len(tasks)-len(report.Tasks),
			"error", submitErr,
		)
	}
	return report, submitErr
}

func (s *SyncService) runTask(ctx context.Context, name string, task func(context.Context) (int, error)) SyncTaskResult {
	start := time.Now()
	row := SyncTaskResult{Task: name, Status: syncStatusSuccess}
	records, err := task(ctx)
	row.Records = records
	row.DurationMs = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		row.Status = syncStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "sync task failed", "task", name, "error", err)
	case records == 0:
		row.Status = syncStatusSkipped
	}
	return row
}
