package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueClosed is returned by Sync once the queue has been closed.
var ErrQueueClosed = errors.New("main queue closed")

// MainQueue is the single execution context that owns controller state.
// Tasks run one at a time on a dedicated goroutine in the order they were
// posted. Post never blocks, so tasks and subscribers may post further work.
type MainQueue struct {
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

// NewMainQueue creates a queue and starts its goroutine. A nil logger means
// slog.Default().
func NewMainQueue(logger *slog.Logger) *MainQueue {
	if logger == nil {
		logger = slog.Default()
	}

	q := &MainQueue{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.run()

	return q
}

// Post schedules fn to run on the queue. Tasks posted after Close are dropped.
func (q *MainQueue) Post(fn func()) {
	q.post(fn)
}

func (q *MainQueue) post(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return true
}

// Sync blocks until every task posted before the call has run.
func (q *MainQueue) Sync(ctx context.Context) error {
	reached := make(chan struct{})
	if !q.post(func() { close(reached) }) {
		return ErrQueueClosed
	}

	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, runs the ones already queued and waits for
// the goroutine to exit. It must not be called from a queued task.
func (q *MainQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	<-q.done
}

func (q *MainQueue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.runTask(task)
	}
}

// runTask runs one task, keeping the queue alive if it panics.
func (q *MainQueue) runTask(task func()) {
	defer func() {
		if v := recover(); v != nil {
			q.logger.Error("panic recovered in main queue task", "panic", v)
		}
	}()

	task()
}
