// Package queue serializes stack transactions onto a single worker.
//
// Every mutation of a stack goes through one Queue so that at most one
// unwind/rebuild is in flight and transactions apply in submission order.
// Submitted operations always run to completion; there is no cancellation.
package queue

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
)

// ErrClosed is reported for operations submitted after Close.
var ErrClosed = errors.New("queue closed")

// Op is a unit of work run on the queue's worker goroutine.
type Op func() error

type request struct {
	op   Op
	done chan error
}

// Queue runs submitted operations one at a time, first in first out.
type Queue struct {
	mu       sync.RWMutex
	requests chan request
	stopped  chan struct{}
	closed   atomic.Bool

	pending   atomic.Int64
	completed atomic.Int64

	logger *slog.Logger
}

// New creates a Queue with room for size waiting operations and starts its worker.
func New(size int, logger *slog.Logger) *Queue {
	if size < 0 {
		size = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	q := &Queue{
		requests: make(chan request, size),
		stopped:  make(chan struct{}),
		logger:   logger,
	}
	go q.run()
	return q
}

// Enqueue submits op and returns a channel that receives its result once,
// after op and every operation submitted before it have finished. Enqueue
// blocks while the buffer is full.
func (q *Queue) Enqueue(op Op) <-chan error {
	done := make(chan error, 1)

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed.Load() {
		done <- ErrClosed
		return done
	}

	q.pending.Inc()
	q.requests <- request{op: op, done: done}
	return done
}

// Close stops accepting operations, waits for the queued ones to finish,
// and stops the worker. Calling Close more than once is safe.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed.CompareAndSwap(false, true) {
		close(q.requests)
	}
	q.mu.Unlock()
	<-q.stopped
}

// Pending returns the number of submitted operations that have not finished.
func (q *Queue) Pending() int64 {
	return q.pending.Load()
}

// Completed returns the number of operations that have finished.
func (q *Queue) Completed() int64 {
	return q.completed.Load()
}

func (q *Queue) run() {
	defer close(q.stopped)
	for req := range q.requests {
		err := q.exec(req.op)
		q.pending.Dec()
		q.completed.Inc()
		req.done <- err
	}
}

func (q *Queue) exec(op Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("queued operation panicked", "panic", r)
			err = fmt.Errorf("queue: operation panicked: %v", r)
		}
	}()
	return op()
}
