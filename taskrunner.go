package memscan

import (
	"context"
	"sync"
)

// TaskRunner abstracts how a long-running task (typically a scan loop driven
// by a caller's UI or CLI) is executed, so callers can swap between real
// background execution and deterministic inline execution in tests.
// Grounded on original_source/src/maia/core/task_runner.h's ITaskRunner,
// whose Run(task)/RequestStop/Join trio maps onto a goroutine plus a
// context.CancelFunc: ctx standing in for std::stop_token and cancel for
// request_stop.
type TaskRunner interface {
	// Run starts task, passing it a context that is cancelled by RequestStop.
	// Run must not block; the task itself runs independently.
	Run(task func(ctx context.Context))

	// RequestStop cancels the context passed to the running task, if any.
	// Safe to call before Run, after Join, or more than once.
	RequestStop()

	// Join blocks until the most recent task started by Run has returned.
	Join()
}

// AsyncTaskRunner runs each task on its own goroutine, the counterpart of
// the original's AsyncTaskRunner (std::jthread).
type AsyncTaskRunner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ TaskRunner = (*AsyncTaskRunner)(nil)

// Run launches task on a new goroutine. A second Run call while a previous
// task is still in flight requests the previous task to stop and waits for
// it before starting the new one, so a runner never has two tasks racing on
// its own cancel/done state.
func (r *AsyncTaskRunner) Run(task func(ctx context.Context)) {
	r.mu.Lock()
	prevCancel, prevDone := r.cancel, r.done
	r.mu.Unlock()
	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		task(ctx)
	}()
}

// RequestStop cancels the context of whatever task is currently running.
func (r *AsyncTaskRunner) RequestStop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Join blocks until the running task's goroutine has returned.
func (r *AsyncTaskRunner) Join() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

// SyncTaskRunner runs each task inline on the calling goroutine, the
// counterpart of the original's SyncTaskRunner. Useful for driving
// Scan.FindWithContext and similar cancellable operations deterministically
// from tests, without the ordering nondeterminism a real goroutine brings.
type SyncTaskRunner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

var _ TaskRunner = (*SyncTaskRunner)(nil)

// Run executes task immediately, blocking until it returns. The context
// passed to task is never cancelled by this runner on its own; call
// RequestStop from another goroutine, or from task itself, to observe
// cancellation mid-run.
func (r *SyncTaskRunner) Run(task func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()
	task(ctx)
}

// RequestStop cancels the context of the task most recently started by Run.
// Since Run blocks until task returns, this only has an effect when called
// from another goroutine while task is in flight, or from task itself.
func (r *SyncTaskRunner) RequestStop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Join is a no-op: Run already blocks until task completes.
func (r *SyncTaskRunner) Join() {}
