package service

import (
	"github.com/okian/collide/internal/adapters/repository"
	"github.com/okian/collide/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCollisionDistance sets the distance used when a caller passes 0.
func WithCollisionDistance(d float64) Option {
	return func(s *Service) {
		if d > 0 {
			s.distance = d
		}
	}
}

// WithWorkerCount sets the number of generation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the row queue used by parallel generation.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithParallelThreshold sets the fleet size at which generation goes parallel.
func WithParallelThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelThreshold = n
		}
	}
}

// WithStore sets the run store. It takes precedence over WithStorePath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStorePath makes Start open a sqlite store at path.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithMaxStoredRuns bounds the in-memory store.
func WithMaxStoredRuns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxStoredRuns = n
		}
	}
}
