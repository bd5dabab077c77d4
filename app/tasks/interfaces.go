package tasks

import (
	"context"

	"github.com/cinfoposte/unwomen-jobs/app/collector"
	"github.com/cinfoposte/unwomen-jobs/app/feed"
)

// JobCollector abstracts the portal scrape so the refresh task can be
// exercised without a browser.
type JobCollector interface {
	Run(ctx context.Context) ([]feed.Item, error)
	Stats() collector.Stats
}

// TaskSchedulerInterface is what the main application uses to run the
// feed refresh on a cron schedule.
//
// Example usage:
//
//	scheduler := NewScheduler(schedule, task, status)
//	if err := scheduler.Start(); err != nil { ... }
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start() error
	Stop()
}
