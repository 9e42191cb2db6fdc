// Package model contains domain models passed between layers.
package model

import "gonum.org/v1/gonum/spatial/r2"

// Record is one input row: a label followed by position and velocity components.
type Record struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

// Vehicle is a point moving at constant velocity from Position at time 0.
// Index is the canonical identity; ID is only used for reporting.
type Vehicle struct {
	Index    int
	ID       string
	Position r2.Vec
	Velocity r2.Vec

	removed bool
}

// NewVehicle builds an active vehicle from a record at the given load index.
func NewVehicle(index int, rec Record) Vehicle {
	return Vehicle{
		Index:    index,
		ID:       rec.Label,
		Position: r2.Vec{X: rec.X, Y: rec.Y},
		Velocity: r2.Vec{X: rec.VX, Y: rec.VY},
	}
}

// NewFleet assigns indices in load order.
func NewFleet(records []Record) []Vehicle {
	fleet := make([]Vehicle, len(records))
	for i, rec := range records {
		fleet[i] = NewVehicle(i, rec)
	}
	return fleet
}

// Removed reports whether the vehicle has been committed to a collision.
func (v *Vehicle) Removed() bool {
	return v.removed
}

// MarkRemoved moves the vehicle to its terminal state.
// It fails if the vehicle was already removed; there is no way back.
func (v *Vehicle) MarkRemoved() error {
	if v.removed {
		return ErrAlreadyRemoved
	}
	v.removed = true
	return nil
}

// Record returns the vehicle's input form.
func (v *Vehicle) Record() Record {
	return Record{
		Label: v.ID,
		X:     v.Position.X,
		Y:     v.Position.Y,
		VX:    v.Velocity.X,
		VY:    v.Velocity.Y,
	}
}
