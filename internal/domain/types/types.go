// Package types contains common types used across the application
package types

import "time"

// Point is a JSON-friendly 2D vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Collision is a committed collision as rendered to callers.
type Collision struct {
	Time   float64 `json:"time"`
	Label1 string  `json:"label1"`
	Label2 string  `json:"label2"`
	Index1 int     `json:"index1"`
	Index2 int     `json:"index2"`
}

// Survivor is a vehicle that took part in no committed collision.
type Survivor struct {
	Label    string `json:"label"`
	Position Point  `json:"position"`
	Velocity Point  `json:"velocity"`
}

// Report is the result of resolving one fleet.
type Report struct {
	Vehicles          int         `json:"vehicles"`
	CollisionDistance float64     `json:"collision_distance"`
	Collisions        []Collision `json:"collisions"`
	Survivors         []Survivor  `json:"survivors"`
}

// Run is a persisted report.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `json:"report"`
}
