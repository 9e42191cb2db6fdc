package fleetgen

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/collide/internal/domain/model"
)

// Generate returns cfg.Vehicles records. The same seed always yields the
// same fleet, labels included.
func Generate(cfg Config) ([]model.Record, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return generate(rand.New(rand.NewSource(cfg.Seed)), cfg), nil
}

func generate(rng *rand.Rand, cfg Config) []model.Record {
	records := make([]model.Record, cfg.Vehicles)
	for i := range records {
		records[i] = model.Record{
			Label: label(rng),
			X:     uniform(rng, cfg.Extent),
			Y:     uniform(rng, cfg.Extent),
			VX:    uniform(rng, cfg.MaxSpeed),
			VY:    uniform(rng, cfg.MaxSpeed),
		}
	}
	return records
}

// label draws a v4 uuid from rng so labels follow the seed.
func label(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// math/rand never fails to read
		return uuid.NewString()
	}
	return id.String()
}

func uniform(rng *rand.Rand, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}
