// Package fleetgen builds random fleets for exercising the resolver, either
// as record files for batch mode or as submissions to a running server.
package fleetgen

import (
	"errors"
	"time"
)

// Config holds generator and submission settings.
type Config struct {
	Vehicles int     // Number of vehicles per fleet
	Seed     int64   // Seed for positions, velocities and labels
	Extent   float64 // Positions are drawn from [-Extent, Extent] on both axes
	MaxSpeed float64 // Velocity components are drawn from [-MaxSpeed, MaxSpeed]

	BaseURL  string        // Server to submit to; empty writes records instead
	Distance float64       // Collision distance sent with submissions; 0 uses the server default
	Fleets   int           // Number of fleets to submit
	Timeout  time.Duration // HTTP request timeout
}

// Sentinel kinds for generator errors.
var (
	ErrInvalidConfig = errors.New("invalid fleet config")
	ErrSubmit        = errors.New("submit fleet failed")
)

func (c Config) validate() error {
	switch {
	case c.Vehicles < 0:
		return errors.Join(ErrInvalidConfig, errors.New("vehicles must not be negative"))
	case c.Extent <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("extent must be positive"))
	case c.MaxSpeed < 0:
		return errors.Join(ErrInvalidConfig, errors.New("max speed must not be negative"))
	case c.Distance < 0:
		return errors.Join(ErrInvalidConfig, errors.New("distance must not be negative"))
	}
	return nil
}
