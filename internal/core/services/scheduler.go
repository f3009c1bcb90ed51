package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driven"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
	"github.com/custodia-labs/ballotwatch/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many results are kept per task.
const historyRetention = 100

// errRunSkipped marks an execution that did no work because another
// discovery run held the run lock. It leaves no trace in the task state.
var errRunSkipped = errors.New("run skipped")

// Scheduler manages background task execution.
// It is a pure core service with no external control API.
type Scheduler struct {
	store     driven.SchedulerStore
	discovery driving.DiscoveryService
	tick      time.Duration

	mu       sync.Mutex
	config   domain.SchedulerConfig
	running  bool
	inFlight map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	discovery driving.DiscoveryService,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		discovery: discovery,
		tick:      time.Minute,
		inFlight:  make(map[string]bool),
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Error("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for running tasks to complete
	s.wg.Wait()

	return nil
}

// Reconfigure applies a new configuration, for example after the config
// file changed. Tasks are rescheduled from now if their interval changed.
func (s *Scheduler) Reconfigure(ctx context.Context, config domain.SchedulerConfig) error {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	return s.initialiseTasks(ctx)
}

// initialiseTasks ensures all configured tasks exist in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	s.mu.Lock()
	taskCfg := s.config.GetTaskConfig(domain.TaskIDCandidateDiscovery)
	s.mu.Unlock()

	return s.ensureTask(ctx, domain.TaskIDCandidateDiscovery, "Candidate Discovery", taskCfg)
}

// ensureTask creates or updates a task in the store. A task whose interval
// dropped to zero (manual frequency) is unscheduled; its history stays.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case task == nil && !cfg.Enabled:
		return nil
	case task == nil:
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  true,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	case cfg.Interval <= 0:
		logger.Info("scheduler: unscheduling %s", id)
		return s.store.DeleteTask(ctx, id)
	default:
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// Tasks returns the stored tasks with their last and next run times.
func (s *Scheduler) Tasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	return s.store.ListTasks(ctx)
}

// History returns up to limit recent executions of a task, newest first.
func (s *Scheduler) History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	if limit <= 0 {
		limit = historyRetention
	}
	return s.store.GetTaskHistory(ctx, taskID, limit)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if task.Due(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task in the background. A task that is still
// running from an earlier tick is not started again.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: %s still running", task.ID)
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDCandidateDiscovery:
			result.ItemsProcessed, err = s.runDiscovery(ctx)
		default:
			logger.Warn("scheduler: unknown task ID: %s", task.ID)
			return
		}

		if errors.Is(err, errRunSkipped) {
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
			logger.Error("scheduler: task %s failed: %v", task.ID, err)
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		// The run may have been cut short by shutdown; record it regardless.
		saveCtx := context.WithoutCancel(ctx)
		if saveErr := s.store.SaveTask(saveCtx, task); saveErr != nil {
			logger.Error("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(saveCtx, result); recordErr != nil {
			logger.Error("scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(saveCtx, historyRetention); pruneErr != nil {
			logger.Error("scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runDiscovery runs and syncs one discovery pass. It returns errRunSkipped
// when another process holds the run lock.
func (s *Scheduler) runDiscovery(ctx context.Context) (int, error) {
	if s.discovery == nil {
		return 0, nil
	}

	outcome, err := s.discovery.Run(ctx, driving.RunOptions{Sync: true, Trigger: "scheduled"})
	if errors.Is(err, domain.ErrRunInProgress) {
		logger.Info("scheduler: discovery already running, skipping")
		return 0, errRunSkipped
	}
	if err != nil {
		return 0, err
	}
	return outcome.Result.TotalDeduplicated, nil
}
