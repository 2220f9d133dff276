// Package tasks provides a small task-submission primitive: callers submit a
// closure and receive its result or error on a channel. Long-running imports
// and relabels stay synchronous inside the task; only the invocation is
// offloaded.
package tasks

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrRunnerClosed indicates a submission after Close.
var ErrRunnerClosed = errors.New("tasks: runner is closed")

// Task is a unit of work executed on the runner's worker goroutine.
type Task func(ctx context.Context) (any, error)

// Outcome carries a task's result or error.
type Outcome struct {
	Value any
	Err   error
}

type submission struct {
	ctx     context.Context
	task    Task
	outcome chan Outcome
}

// RunnerConfig describes the dependencies of the task runner.
type RunnerConfig struct {
	Logger *zap.Logger
}

// Runner executes submitted tasks sequentially on one worker goroutine.
type Runner struct {
	logger *zap.Logger

	mu     sync.Mutex
	queue  chan submission
	closed bool
	done   chan struct{}
}

// NewRunner constructs and starts the runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runner := &Runner{
		logger: logger,
		queue:  make(chan submission, 16),
		done:   make(chan struct{}),
	}
	go runner.work()
	return runner
}

// Submit queues the task and returns a channel that yields exactly one
// Outcome. Submissions after Close yield ErrRunnerClosed immediately.
func (r *Runner) Submit(ctx context.Context, task Task) <-chan Outcome {
	outcome := make(chan Outcome, 1)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		outcome <- Outcome{Err: ErrRunnerClosed}
		return outcome
	}
	r.queue <- submission{ctx: ctx, task: task, outcome: outcome}
	return outcome
}

// Close stops accepting tasks and waits for queued ones to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

func (r *Runner) work() {
	defer close(r.done)
	for queued := range r.queue {
		value, err := queued.task(queued.ctx)
		if err != nil {
			r.logger.Error("task failed", zap.Error(err))
		}
		queued.outcome <- Outcome{Value: value, Err: err}
	}
}
