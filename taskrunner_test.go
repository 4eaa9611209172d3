package memscan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTaskRunnerRunsInline(t *testing.T) {
	var r SyncTaskRunner
	ran := false
	r.Run(func(ctx context.Context) {
		ran = true
		assert.NoError(t, ctx.Err())
	})
	assert.True(t, ran, "SyncTaskRunner.Run must execute the task before returning")
	r.Join() // no-op, must not block
}

func TestSyncTaskRunnerRequestStopFromWithinTask(t *testing.T) {
	var r SyncTaskRunner
	var sawCancel bool
	r.Run(func(ctx context.Context) {
		r.RequestStop()
		<-ctx.Done()
		sawCancel = ctx.Err() != nil
	})
	assert.True(t, sawCancel)
}

func TestAsyncTaskRunnerRunsConcurrentlyAndJoinWaits(t *testing.T) {
	var r AsyncTaskRunner
	started := make(chan struct{})
	finished := false

	r.Run(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished = true
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("task never started")
	}

	assert.False(t, finished, "task should still be blocked on ctx.Done()")
	r.RequestStop()
	r.Join()
	assert.True(t, finished)
}

func TestAsyncTaskRunnerSecondRunStopsFirstTask(t *testing.T) {
	var r AsyncTaskRunner
	firstDone := make(chan struct{})

	r.Run(func(ctx context.Context) {
		<-ctx.Done()
		close(firstDone)
	})

	secondRan := make(chan struct{})
	r.Run(func(ctx context.Context) {
		close(secondRan)
	})

	select {
	case <-firstDone:
	case <-time.After(time.Second):
		t.Fatal("starting a second task must stop the first")
	}

	select {
	case <-secondRan:
	case <-time.After(time.Second):
		t.Fatal("second task never ran")
	}

	r.Join()
}

func TestAsyncTaskRunnerJoinWithoutRunDoesNotBlock(t *testing.T) {
	var r AsyncTaskRunner
	done := make(chan struct{})
	go func() {
		r.Join()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Join on a runner that never ran should return immediately")
	}
}

func TestTaskRunnerInterfaceSatisfiedByBoth(t *testing.T) {
	var _ TaskRunner = (*AsyncTaskRunner)(nil)
	var _ TaskRunner = (*SyncTaskRunner)(nil)
	require.True(t, true)
}
