// Package worker runs row jobs from a queue on a fixed pool of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/collide/internal/adapters/mq/queue"
	"github.com/okian/collide/pkg/logger"
	"github.com/okian/collide/pkg/metrics"
)

// Job is what workers read off the queue.
type Job = queue.Job

// Processor handles a single job.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, job Job) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, job Job) error { return f(ctx, job) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// InMemoryWorker processes jobs until the queue drains or ctx is cancelled.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string

	done chan struct{}
	errs []error

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, p Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		name:      "worker",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run consumes jobs until the queue is closed and drained, or ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	for job := range w.queue.Dequeue(ctx) {
		if err := w.processJob(ctx, job); err != nil {
			w.errs = append(w.errs, err)
			w.logger.Error(ctx, "error processing job", logger.Int("row", job.Row), logger.Error(err))
		}
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Err returns the errors seen by the worker. Only valid after Done.
func (w *InMemoryWorker) Err() error {
	return errors.Join(w.errs...)
}

func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := w.processor.Process(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process_error")
		return fmt.Errorf("row %d: %w", job.Row, err)
	}
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	started sync.Once
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// the number of CPUs.
func NewPool(workerCount int, q Queue, p Processor) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range pool.workers {
		pool.workers[i] = NewInMemoryWorker(q, p, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start launches every worker. Calling it again has no effect.
func (p *Pool) Start(ctx context.Context) {
	p.started.Do(func() {
		for _, w := range p.workers {
			go w.Run(ctx)
		}
	})
}

// Wait blocks until every worker has stopped and returns their joined
// errors. It returns ctx.Err() if ctx ends first.
func (p *Pool) Wait(ctx context.Context) error {
	var errs []error
	for i, w := range p.workers {
		select {
		case <-w.Done():
			if err := w.Err(); err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker did not finish", logger.Int("worker_id", i))
			return fmt.Errorf("waiting for workers: %w", ctx.Err())
		}
	}
	return errors.Join(errs...)
}
