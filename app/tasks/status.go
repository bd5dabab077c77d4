package tasks

import (
	"sync"
	"time"

	"github.com/cinfoposte/unwomen-jobs/app/collector"
)

// RunStatus captures the outcome of the most recent feed refresh. Served
// by the API for monitoring.
type RunStatus struct {
	LastRunAt     time.Time       `json:"last_run_at"`
	LastSuccessAt time.Time       `json:"last_success_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	ItemsAdded    int             `json:"items_added"`
	FeedItems     int             `json:"feed_items"`
	Stats         collector.Stats `json:"stats"`
}

type StatusTracker struct {
	mu     sync.RWMutex
	status RunStatus
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{}
}

func (t *StatusTracker) RecordSuccess(added, total int, stats collector.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	t.status.LastRunAt = now
	t.status.LastSuccessAt = now
	t.status.LastError = ""
	t.status.ItemsAdded = added
	t.status.FeedItems = total
	t.status.Stats = stats
}

func (t *StatusTracker) RecordFailure(err error, stats collector.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.LastRunAt = time.Now().UTC()
	t.status.LastError = err.Error()
	t.status.Stats = stats
}

func (t *StatusTracker) Get() RunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status
}
