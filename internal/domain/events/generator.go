// Package events enumerates vehicle pairs and emits a candidate collision
// event for every pair with a future contact time.
package events

import (
	"fmt"
	"math"

	"github.com/okian/collide/internal/domain/kinematics"
	"github.com/okian/collide/internal/domain/model"
)

// Generator produces candidate events for a fixed collision distance.
type Generator struct {
	distance float64
}

// NewGenerator validates distance up front so generation itself cannot fail.
func NewGenerator(distance float64) (*Generator, error) {
	if err := ValidateDistance(distance); err != nil {
		return nil, err
	}
	return &Generator{distance: distance}, nil
}

// ValidateDistance rejects non-positive, NaN and infinite distances.
func ValidateDistance(distance float64) error {
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidDistance, distance)
	}
	return nil
}

// Distance returns the collision distance.
func (g *Generator) Distance() float64 {
	return g.distance
}

// Row evaluates the pairs (i, j) for every j > i, in ascending j.
// It only reads vehicles, so rows may be evaluated concurrently.
func (g *Generator) Row(vehicles []model.Vehicle, i int) []model.CollisionEvent {
	if i < 0 || i >= len(vehicles) {
		return nil
	}
	var out []model.CollisionEvent
	for j := i + 1; j < len(vehicles); j++ {
		c := kinematics.Between(vehicles[i], vehicles[j], g.distance)
		if !c.Valid {
			continue
		}
		out = append(out, model.CollisionEvent{Time: c.Time, First: i, Second: j})
	}
	return out
}

// Generate returns the candidate events of every pair in enumeration order
// (i ascending, then j ascending).
func (g *Generator) Generate(vehicles []model.Vehicle) []model.CollisionEvent {
	var out []model.CollisionEvent
	for i := range vehicles {
		out = append(out, g.Row(vehicles, i)...)
	}
	return out
}

// Concat joins per-row results in row order.
func Concat(rows [][]model.CollisionEvent) []model.CollisionEvent {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	out := make([]model.CollisionEvent, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// PairCount is the number of unordered pairs among n vehicles.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
