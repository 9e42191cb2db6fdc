// Package kinematics computes first-contact times between points moving at
// constant velocity.
//
// The separation between two vehicles at time t is dr + t·dv, so contact at a
// distance D is the quadratic
//
//	|dv|²·t² + 2(dr·dv)·t + |dr|² − D² = 0.
//
// Missing solutions are reported as an absent Contact rather than a numeric marker.
package kinematics

import (
	"math"

	"github.com/okian/collide/internal/domain/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Contact is an optional contact time. The zero value means no contact.
type Contact struct {
	Time  float64
	Valid bool
}

// At returns a present contact at t.
func At(t float64) Contact { return Contact{Time: t, Valid: true} }

// None is the absent contact.
var None = Contact{}

// Before reports whether c is present and earlier than other, treating an
// absent other as later than any time.
func (c Contact) Before(other Contact) bool {
	if !c.Valid {
		return false
	}
	return !other.Valid || c.Time < other.Time
}

// RelativePosition returns b's position as seen from a.
func RelativePosition(a, b model.Vehicle) r2.Vec {
	return r2.Sub(b.Position, a.Position)
}

// RelativeVelocity returns b's velocity as seen from a.
func RelativeVelocity(a, b model.Vehicle) r2.Vec {
	return r2.Sub(b.Velocity, a.Velocity)
}

// SquaredMagnitude returns v.X² + v.Y².
func SquaredMagnitude(v r2.Vec) float64 {
	return r2.Norm2(v)
}

// LinearCoefficient is the t coefficient of |dr + t·dv|².
func LinearCoefficient(dr, dv r2.Vec) float64 {
	return 2 * r2.Dot(dr, dv)
}

// SolveContactTimes returns both roots of the contact quadratic, with negative
// roots and complex solutions reported as absent. The first root is never
// smaller than the second when both are present.
//
// With no relative motion the quadratic degenerates: a pair already within
// distance is in contact from time 0, any other pair never meets.
func SolveContactTimes(dr, dv r2.Vec, distance float64) (Contact, Contact) {
	a := SquaredMagnitude(dv)
	b := LinearCoefficient(dr, dv)
	c := SquaredMagnitude(dr) - distance*distance

	if a == 0 {
		if c <= 0 {
			return At(0), None
		}
		return None, None
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return None, None
	}

	root := math.Sqrt(discriminant)
	return future((-b + root) / (2 * a)), future((-b - root) / (2 * a))
}

// EarliestFutureContact returns the earliest non-negative contact time, or
// None. A pair that already overlaps at time 0 is an immediate contact.
func EarliestFutureContact(dr, dv r2.Vec, distance float64) Contact {
	if SquaredMagnitude(dr) <= distance*distance {
		return At(0)
	}

	t1, t2 := SolveContactTimes(dr, dv, distance)
	if t2.Before(t1) {
		return t2
	}
	return t1
}

// Between is EarliestFutureContact for two vehicles.
func Between(a, b model.Vehicle, distance float64) Contact {
	return EarliestFutureContact(RelativePosition(a, b), RelativeVelocity(a, b), distance)
}

func future(t float64) Contact {
	if t < 0 || math.IsNaN(t) {
		return None
	}
	return At(t)
}
