package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs the feed refresh on a cron schedule. A tick that fires
// while the previous refresh is still running is skipped, not queued:
// overlapping browser sessions against the portal help nobody.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	newTask  func() TaskInterface

	running sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(schedule string, newTask func() TaskInterface) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		newTask:  newTask,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.tick); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	slog.Info("Scheduler started", "schedule", s.schedule)
	return nil
}

func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) tick() {
	if !s.running.TryLock() {
		slog.Warn("Previous refresh still running, skipping scheduled run")
		return
	}
	defer s.running.Unlock()

	s.executeTask(s.newTask())
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 30*time.Minute)
	defer cancel()

	for {
		err := task.Execute(taskCtx)
		if err == nil {
			return
		}

		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if !task.CanRetry() {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
			return
		}

		task.IncrementRetryCount()
		retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}

		slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

		select {
		case <-taskCtx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		case <-time.After(retryDelay):
		}
	}
}
