package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxRuns bounds the number of retained runs; the oldest are evicted first.
func WithMaxRuns(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}
