package fleetgen

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/okian/collide/internal/adapters/textio"
	"github.com/okian/collide/pkg/logger"
)

// Stats summarises a submission session.
type Stats struct {
	Fleets     int
	Vehicles   int
	Collisions int
	Survivors  int
}

// Run generates fleets. Without a base URL one fleet is written to w in the
// batch input format. With one, cfg.Fleets fleets are submitted and each
// stored run is read back to check it round-trips.
func Run(ctx context.Context, cfg Config, w io.Writer) (Stats, error) {
	if err := cfg.validate(); err != nil {
		return Stats{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	if cfg.BaseURL == "" {
		records := generate(rng, cfg)
		if err := textio.WriteRecords(w, records); err != nil {
			return Stats{}, fmt.Errorf("write records: %w", err)
		}
		return Stats{Fleets: 1, Vehicles: len(records)}, nil
	}

	log := logger.Get().Named("fleetgen")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	fleets := max(cfg.Fleets, 1)

	var stats Stats
	for i := 0; i < fleets; i++ {
		records := generate(rng, cfg)
		run, err := client.Submit(ctx, records, cfg.Distance)
		if err != nil {
			return stats, fmt.Errorf("fleet %d: %w", i+1, err)
		}
		stored, err := client.Run(ctx, run.ID)
		if err != nil {
			return stats, fmt.Errorf("fleet %d: read back: %w", i+1, err)
		}
		if len(stored.Report.Collisions) != len(run.Report.Collisions) {
			return stats, fmt.Errorf("%w: fleet %d: stored run %s differs from submitted", ErrSubmit, i+1, run.ID)
		}

		stats.Fleets++
		stats.Vehicles += run.Report.Vehicles
		stats.Collisions += len(run.Report.Collisions)
		stats.Survivors += len(run.Report.Survivors)
		log.Info(ctx, "fleet submitted",
			logger.String("run_id", run.ID),
			logger.Int("vehicles", run.Report.Vehicles),
			logger.Int("collisions", len(run.Report.Collisions)),
			logger.Int("survivors", len(run.Report.Survivors)),
		)
	}

	_, err := fmt.Fprintf(w, "submitted %d fleets: %d vehicles, %d collisions, %d survivors\n",
		stats.Fleets, stats.Vehicles, stats.Collisions, stats.Survivors)
	return stats, err
}
