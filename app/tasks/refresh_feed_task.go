package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinfoposte/unwomen-jobs/app/cfg"
	"github.com/cinfoposte/unwomen-jobs/app/feed"
)

// ErrEmptyRun means the scrape completed but no posting passed the filter.
// Treated as a failure unless --allow-empty is set, since an empty result
// usually signals broken extraction rather than an empty portal.
var ErrEmptyRun = errors.New("scrape produced no included postings")

// RefreshFeedTask performs one full refresh cycle: scrape the portal,
// merge the included postings into the persisted feed and write it back.
// The feed file is never touched when collection fails.
type RefreshFeedTask struct {
	Task
	collector JobCollector
	store     *feed.Store
	merger    *feed.Merger
	generator *feed.Generator
	status    *StatusTracker

	allowEmpty     bool
	resetOnCorrupt bool
}

func NewRefreshFeedTask(collector JobCollector, store *feed.Store, status *StatusTracker) *RefreshFeedTask {
	c := cfg.Get()

	return &RefreshFeedTask{
		Task:           NewTask(TaskTypeRefreshFeed),
		collector:      collector,
		store:          store,
		merger:         feed.NewMerger(),
		generator:      feed.NewGenerator(),
		status:         status,
		allowEmpty:     c.AllowEmpty,
		resetOnCorrupt: c.ResetOnCorrupt,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	collected, err := t.collector.Run(ctx)
	if err != nil {
		return t.fail(fmt.Errorf("collection failed: %w", err))
	}

	if len(collected) == 0 && !t.allowEmpty {
		return t.fail(ErrEmptyRun)
	}

	if err := t.store.Lock(ctx); err != nil {
		return t.fail(fmt.Errorf("failed to lock feed file: %w", err))
	}
	defer t.store.Unlock()

	existing, err := t.store.Load()
	if err != nil {
		if errors.Is(err, feed.ErrMalformed) && t.resetOnCorrupt {
			slog.Warn("Previous feed file is malformed, starting fresh", "path", t.store.Path(), "error", err)
			existing = nil
		} else {
			return t.fail(fmt.Errorf("failed to load previous feed: %w", err))
		}
	}

	merged, added := t.merger.Run(existing, collected)

	rss, err := t.generator.Run(merged)
	if err != nil {
		return t.fail(fmt.Errorf("failed to generate feed: %w", err))
	}

	if err := t.store.Write(rss); err != nil {
		return t.fail(fmt.Errorf("failed to write feed file: %w", err))
	}

	t.status.RecordSuccess(added, len(merged), t.collector.Stats())

	slog.Info("Task completed",
		"type", "RefreshFeed",
		"duration", t.GetDuration(),
		"collected", len(collected),
		"new", added,
		"total", len(merged),
		"path", t.store.Path())

	return nil
}

func (t *RefreshFeedTask) fail(err error) error {
	t.status.RecordFailure(err, t.collector.Stats())
	return err
}
