package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/collide/internal/fleetgen"
	"github.com/okian/collide/pkg/logger"
)

const (
	defaultVehicles = 1000
	defaultExtent   = 1000
	defaultMaxSpeed = 10
	defaultTimeout  = 30 * time.Second
)

func main() {
	var (
		vehicles = flag.Int("vehicles", defaultVehicles, "Number of vehicles per fleet")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		extent   = flag.Float64("extent", defaultExtent, "Positions are drawn from [-extent, extent]")
		maxSpeed = flag.Float64("speed", defaultMaxSpeed, "Velocity components are drawn from [-speed, speed]")
		baseURL  = flag.String("url", "", "Submit to this server instead of writing records to stdout")
		distance = flag.Float64("distance", 0, "Collision distance for submissions (0 uses the server default)")
		fleets   = flag.Int("fleets", 1, "Number of fleets to submit")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := fleetgen.Config{
		Vehicles: *vehicles,
		Seed:     *seed,
		Extent:   *extent,
		MaxSpeed: *maxSpeed,
		BaseURL:  *baseURL,
		Distance: *distance,
		Fleets:   *fleets,
		Timeout:  *timeout,
	}
	if _, err := fleetgen.Run(ctx, cfg, os.Stdout); err != nil {
		logger.Get().Error(ctx, "fleetgen failed", logger.Int64("seed", *seed), logger.Error(err))
		stop()
		os.Exit(1)
	}
}
