package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTask struct {
	Task
	failures int
	execs    int
}

func (t *flakyTask) Execute(ctx context.Context) error {
	t.execs++
	if t.execs <= t.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestSchedulerInvalidSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", func() TaskInterface {
		return &flakyTask{Task: NewTask(TaskTypeRefreshFeed)}
	})
	require.Error(t, s.Start())
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler("@hourly", func() TaskInterface {
		return &flakyTask{Task: NewTask(TaskTypeRefreshFeed)}
	})
	require.NoError(t, s.Start())
	s.Stop()
}

func TestExecuteTaskRetriesUntilSuccess(t *testing.T) {
	task := &flakyTask{Task: NewTask(TaskTypeRefreshFeed), failures: 2}

	s := NewScheduler("@hourly", func() TaskInterface { return task })
	s.executeTask(task)

	assert.Equal(t, 3, task.execs, "two failures then success")
	assert.Equal(t, 2, task.RetryCount)
}

func TestExecuteTaskGivesUpAfterMaxRetries(t *testing.T) {
	task := &flakyTask{Task: NewTask(TaskTypeRefreshFeed), failures: 100}

	s := NewScheduler("@hourly", func() TaskInterface { return task })
	s.executeTask(task)

	assert.Equal(t, DefaultMaxRetries+1, task.execs)
	assert.False(t, task.CanRetry())
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeRefreshFeed)

	assert.Equal(t, TaskTypeRefreshFeed, task.GetType())
	assert.NotEmpty(t, task.GetID())
	assert.True(t, task.CanRetry())

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	assert.False(t, task.CanRetry())
}
