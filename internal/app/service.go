// Package service wires the collision pipeline together and implements the
// dependencies required by the HTTP API and the batch CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/collide/internal/adapters/mq/queue"
	"github.com/okian/collide/internal/adapters/mq/worker"
	"github.com/okian/collide/internal/adapters/repository"
	"github.com/okian/collide/internal/domain/dedupe"
	"github.com/okian/collide/internal/domain/events"
	"github.com/okian/collide/internal/domain/model"
	"github.com/okian/collide/internal/domain/resolver"
	"github.com/okian/collide/internal/domain/types"
	"github.com/okian/collide/pkg/logger"
	"github.com/okian/collide/pkg/metrics"
)

const (
	defaultCollisionDistance = 10
	defaultQueueSize         = 4096
	defaultParallelThreshold = 512
)

// enqueueBackoff is how long the producer waits for a full row queue to drain.
const enqueueBackoff = 50 * time.Microsecond

// Service resolves fleets and keeps a history of submitted runs.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	distance          float64
	workerCount       int
	queueSize         int
	parallelThreshold int
	storePath         string
	maxStoredRuns     int

	// State
	started      bool
	ownsStore    bool
	runsResolved atomic.Int64

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		distance:          defaultCollisionDistance,
		workerCount:       runtime.NumCPU(),
		queueSize:         defaultQueueSize,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start opens the run store. A configured store is used as is; otherwise a
// sqlite store is opened when a path is set, and a memory store when not.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	switch {
	case s.store != nil:
		s.logger.Info(ctx, "using provided run store")
	case s.storePath != "":
		st, err := repository.NewSQLiteStore(ctx, s.storePath)
		if err != nil {
			metrics.RecordErrorByComponent("service", "store_open")
			return fmt.Errorf("start service: %w", err)
		}
		s.store, s.ownsStore = st, true
		s.logger.Info(ctx, "using sqlite run store", logger.String("path", s.storePath))
	default:
		var opts []repository.Option
		if s.maxStoredRuns > 0 {
			opts = append(opts, repository.WithMaxRuns(s.maxStoredRuns))
		}
		s.store, s.ownsStore = repository.NewMemoryStore(opts...), true
		s.logger.Info(ctx, "using memory run store")
	}

	s.started = true
	s.logger.Info(ctx, "collision service started",
		logger.Float64("collision_distance", s.distance),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("parallel_threshold", s.parallelThreshold),
	)
	return nil
}

// Stop closes the store if the service opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.ownsStore && s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing run store", logger.Error(err))
		}
		s.store, s.ownsStore = nil, false
	}
	s.started = false
	s.logger.Info(context.Background(), "collision service stopped")
}

// Resolve runs the full pipeline over records. A distance of 0 selects the
// configured default.
func (s *Service) Resolve(ctx context.Context, records []model.Record, distance float64) (types.Report, error) {
	start := time.Now()

	if distance == 0 {
		distance = s.distance
	}
	gen, err := events.NewGenerator(distance)
	if err != nil {
		metrics.RecordErrorByComponent("service", "invalid_distance")
		return types.Report{}, err
	}

	fleet := model.NewFleet(records)
	s.warnDuplicates(ctx, fleet)

	candidates, err := s.generate(ctx, gen, fleet)
	if err != nil {
		metrics.RecordErrorByComponent("service", "generate")
		return types.Report{}, err
	}

	out, err := resolver.Resolve(candidates, fleet)
	if err != nil {
		metrics.RecordErrorByComponent("service", "resolve")
		return types.Report{}, err
	}

	elapsed := time.Since(start)
	s.runsResolved.Add(1)
	metrics.RecordRun(float64(elapsed.Microseconds())/1000,
		len(fleet), events.PairCount(len(fleet)), len(candidates),
		len(out.Committed), out.Discarded, len(out.Survivors))
	s.logger.Info(ctx, "fleet resolved",
		logger.Int("vehicles", len(fleet)),
		logger.Int("candidates", len(candidates)),
		logger.Int("committed", len(out.Committed)),
		logger.Int("discarded", out.Discarded),
		logger.Int("survivors", len(out.Survivors)),
		logger.Duration("elapsed", elapsed),
	)

	return out.Report(fleet, distance), nil
}

func (s *Service) warnDuplicates(ctx context.Context, fleet []model.Vehicle) {
	labels := make([]string, len(fleet))
	for i := range fleet {
		labels[i] = fleet[i].ID
	}
	for _, l := range dedupe.Duplicates(labels) {
		metrics.RecordDuplicateLabel()
		s.logger.Warn(ctx, "duplicate vehicle label", logger.String("label", l))
	}
}

func (s *Service) generate(ctx context.Context, gen *events.Generator, fleet []model.Vehicle) ([]model.CollisionEvent, error) {
	if len(fleet) < s.parallelThreshold || s.workerCount < 2 {
		return gen.Generate(fleet), nil
	}
	return s.generateParallel(ctx, gen, fleet)
}

// generateParallel fans the rows out over a worker pool. Each row writes its
// own slot, so joining the slots in row order gives the sequential result.
func (s *Service) generateParallel(ctx context.Context, gen *events.Generator, fleet []model.Vehicle) ([]model.CollisionEvent, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make([][]model.CollisionEvent, len(fleet))
	q := queue.NewInMemoryQueue(queue.WithCapacity(min(s.queueSize, len(fleet))))
	pool := worker.NewPool(s.workerCount, q, worker.ProcessorFunc(func(_ context.Context, job worker.Job) error {
		if job.Row < 0 || job.Row >= len(rows) {
			return fmt.Errorf("row %d of %d: out of range", job.Row, len(rows))
		}
		rows[job.Row] = gen.Row(fleet, job.Row)
		return nil
	}))
	pool.Start(ctx)

	enqueueErr := s.enqueueRows(ctx, q, len(fleet))
	_ = q.Close()
	if enqueueErr != nil {
		cancel()
	}
	waitErr := pool.Wait(ctx)
	if err := errors.Join(enqueueErr, waitErr); err != nil {
		return nil, fmt.Errorf("parallel generation: %w", err)
	}
	return events.Concat(rows), nil
}

func (s *Service) enqueueRows(ctx context.Context, q *queue.InMemoryQueue, n int) error {
	for row := 0; row < n; row++ {
		for q.Len(ctx) >= q.Capacity() {
			select {
			case <-ctx.Done():
				return fmt.Errorf("enqueue row %d: %w: %w", row, queue.ErrFull, ctx.Err())
			case <-time.After(enqueueBackoff):
			}
		}
		if !q.Enqueue(ctx, queue.Job{Row: row}) {
			return fmt.Errorf("enqueue row %d: %w", row, queue.ErrFull)
		}
	}
	return nil
}

// Submit resolves records and stores the report as a new run.
func (s *Service) Submit(ctx context.Context, records []model.Record, distance float64) (types.Run, error) {
	store, err := s.runStore()
	if err != nil {
		return types.Run{}, err
	}
	report, err := s.Resolve(ctx, records, distance)
	if err != nil {
		return types.Run{}, err
	}
	run := types.Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Report:    report,
	}
	if err := store.Save(ctx, run); err != nil {
		metrics.RecordErrorByComponent("service", "store_save")
		return types.Run{}, fmt.Errorf("save run: %w", err)
	}
	s.logger.Debug(ctx, "run stored", logger.String("id", run.ID))
	return run, nil
}

// Run returns the stored run with id.
func (s *Service) Run(ctx context.Context, id string) (types.Run, error) {
	store, err := s.runStore()
	if err != nil {
		return types.Run{}, err
	}
	return store.Get(ctx, id)
}

// Runs returns up to n stored runs, newest first.
func (s *Service) Runs(ctx context.Context, n int) ([]types.Run, error) {
	store, err := s.runStore()
	if err != nil {
		return nil, err
	}
	return store.Recent(ctx, n)
}

func (s *Service) runStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"collisionDistance": s.distance,
		"workerCount":       s.workerCount,
		"queueSize":         s.queueSize,
		"parallelThreshold": s.parallelThreshold,
		"runsResolved":      s.runsResolved.Load(),
	}
	if s.started && s.store != nil {
		stored := s.store.Count(context.Background())
		stats["storedRuns"] = stored
		metrics.UpdateStoredRuns(stored)
	}
	return stats
}
