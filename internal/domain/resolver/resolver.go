// Package resolver decides which candidate collisions actually happen.
//
// Events are scanned in time order and an event is committed only when
// neither vehicle has already been removed by an earlier commit. Events at
// the same time are ordered by (First, Second), which is the order the
// generator enumerates pairs in.
package resolver

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/collide/internal/domain/model"
	"github.com/okian/collide/internal/domain/types"
)

// Outcome is the result of a resolution pass.
type Outcome struct {
	// Committed holds accepted events in chronological order.
	Committed []model.CollisionEvent
	// Discarded counts events dropped because a participant was already gone.
	Discarded int
	// Survivors are the vehicles never removed, in index order.
	Survivors []model.Vehicle
}

// Compare orders events by time, then by pair.
func Compare(a, b model.CollisionEvent) int {
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	if c := cmp.Compare(a.First, b.First); c != 0 {
		return c
	}
	return cmp.Compare(a.Second, b.Second)
}

// Sort orders events in place.
func Sort(events []model.CollisionEvent) {
	slices.SortStableFunc(events, Compare)
}

// Resolve commits the earliest non-conflicting events and marks their
// vehicles removed. The events slice is not modified.
func Resolve(events []model.CollisionEvent, vehicles []model.Vehicle) (Outcome, error) {
	sorted := slices.Clone(events)
	Sort(sorted)

	var out Outcome
	for _, e := range sorted {
		if e.First < 0 || e.Second >= len(vehicles) || e.First >= e.Second {
			return Outcome{}, fmt.Errorf("%w: %d-%d of %d vehicles", ErrInvalidEvent, e.First, e.Second, len(vehicles))
		}
		a, b := &vehicles[e.First], &vehicles[e.Second]
		if a.Removed() || b.Removed() {
			out.Discarded++
			continue
		}
		if err := a.MarkRemoved(); err != nil {
			return Outcome{}, err
		}
		if err := b.MarkRemoved(); err != nil {
			return Outcome{}, err
		}
		out.Committed = append(out.Committed, e)
	}

	for i := range vehicles {
		if !vehicles[i].Removed() {
			out.Survivors = append(out.Survivors, vehicles[i])
		}
	}
	return out, nil
}

// Report projects the outcome onto the output contract.
func (o Outcome) Report(vehicles []model.Vehicle, distance float64) types.Report {
	r := types.Report{
		Vehicles:          len(vehicles),
		CollisionDistance: distance,
		Collisions:        make([]types.Collision, 0, len(o.Committed)),
		Survivors:         make([]types.Survivor, 0, len(o.Survivors)),
	}
	for _, e := range o.Committed {
		r.Collisions = append(r.Collisions, types.Collision{
			Time:   e.Time,
			Label1: vehicles[e.First].ID,
			Label2: vehicles[e.Second].ID,
			Index1: e.First,
			Index2: e.Second,
		})
	}
	for _, v := range o.Survivors {
		r.Survivors = append(r.Survivors, types.Survivor{
			Label:    v.ID,
			Position: types.Point{X: v.Position.X, Y: v.Position.Y},
			Velocity: types.Point{X: v.Velocity.X, Y: v.Velocity.Y},
		})
	}
	return r
}
