package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExecutor records executed jobs and fails the first failCount
// executions
type fakeExecutor struct {
	mu        sync.Mutex
	executed  []*Job
	failCount int
	done      chan struct{}
}

func newFakeExecutor(failCount int) *fakeExecutor {
	return &fakeExecutor{
		failCount: failCount,
		done:      make(chan struct{}, 10),
	}
}

func (e *fakeExecutor) Execute(_ context.Context, job *Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.executed = append(e.executed, job)
	e.done <- struct{}{}
	if len(e.executed) <= e.failCount {
		return errors.New("transient failure")
	}
	return nil
}

func (e *fakeExecutor) executionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.executed)
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 1,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        time.Millisecond,
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job execution")
	}
}

func TestScheduler_ExecutesSubmittedJob(t *testing.T) {
	executor := newFakeExecutor(0)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(JobTypeVendorFeedSync, 2)
	require.NoError(t, s.SubmitJob(job))

	waitFor(t, executor.done)
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 1, executor.executionCount())
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	executor := newFakeExecutor(1)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	job := NewJob(JobTypeCRMErrorSweep, 2)
	require.NoError(t, s.SubmitJob(job))

	waitFor(t, executor.done) // first attempt fails
	waitFor(t, executor.done) // retry succeeds

	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 1, job.RetryCount)
}

func TestScheduler_SubmitWhenStopped(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), newFakeExecutor(0), zap.NewNop())

	err := s.SubmitJob(NewJob(JobTypeVendorFeedSync, 0))

	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestJob_RetryBookkeeping(t *testing.T) {
	job := NewJob(JobTypeCRMContactSync, 1)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	require.NotNil(t, job.NextRetryAt)

	job.Fail("boom again")
	assert.False(t, job.ShouldRetry())
}

func TestParseDailySchedule(t *testing.T) {
	hour, minute, err := parseDailySchedule("0 2 * * *")
	require.NoError(t, err)
	assert.Equal(t, 2, hour)
	assert.Equal(t, 0, minute)

	hour, minute, err = parseDailySchedule("30 23 * * *")
	require.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 30, minute)

	_, _, err = parseDailySchedule("0 2 * *")
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, _, err = parseDailySchedule("0 25 * * *")
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, _, err = parseDailySchedule("*/5 2 * * *")
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, _, err = parseDailySchedule("0 2 * * 1")
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCronTrigger_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(testSchedulerConfig(), newFakeExecutor(0), zap.NewNop())
	cfg := DefaultCronTriggerConfig()
	cfg.VendorSyncSchedule = "every day at 2"

	_, err := NewCronTrigger(cfg, s, zap.NewNop())

	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestCronTrigger_TriggerManualSync(t *testing.T) {
	executor := newFakeExecutor(0)
	s := NewScheduler(testSchedulerConfig(), executor, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	trigger, err := NewCronTrigger(DefaultCronTriggerConfig(), s, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, trigger.TriggerManualSync(JobTypeVendorFeedSync))
	waitFor(t, executor.done)

	err = trigger.TriggerManualSync(JobType("MAKE_COFFEE"))
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestSyncJobExecutor_UnknownJobType(t *testing.T) {
	executor := NewSyncJobExecutor(nil, nil, zap.NewNop())

	err := executor.Execute(context.Background(), NewJob(JobType("UNKNOWN"), 0))

	assert.ErrorIs(t, err, ErrInvalidJobType)
}
