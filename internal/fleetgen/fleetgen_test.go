package fleetgen_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/collide/internal/adapters/http/api"
	"github.com/okian/collide/internal/adapters/textio"
	service "github.com/okian/collide/internal/app"
	"github.com/okian/collide/internal/fleetgen"
	. "github.com/smartystreets/goconvey/convey"
)

func baseConfig() fleetgen.Config {
	return fleetgen.Config{Vehicles: 25, Seed: 11, Extent: 200, MaxSpeed: 5, Fleets: 1, Timeout: 5 * time.Second}
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded fleet config", t, func() {
		cfg := baseConfig()

		Convey("When generating twice with the same seed", func() {
			a, errA := fleetgen.Generate(cfg)
			b, errB := fleetgen.Generate(cfg)

			Convey("Then the fleets are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When generating", func() {
			records, err := fleetgen.Generate(cfg)
			So(err, ShouldBeNil)

			Convey("Then values stay in bounds and labels are uuids", func() {
				So(records, ShouldHaveLength, 25)
				for _, r := range records {
					So(r.X, ShouldBeBetweenOrEqual, -200.0, 200.0)
					So(r.Y, ShouldBeBetweenOrEqual, -200.0, 200.0)
					So(r.VX, ShouldBeBetweenOrEqual, -5.0, 5.0)
					So(r.VY, ShouldBeBetweenOrEqual, -5.0, 5.0)
					_, err := uuid.Parse(r.Label)
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When another seed is used", func() {
			a, _ := fleetgen.Generate(cfg)
			cfg.Seed = 12
			b, _ := fleetgen.Generate(cfg)

			Convey("Then the fleet differs", func() {
				So(a, ShouldNotResemble, b)
			})
		})

		Convey("When the config is invalid", func() {
			cfg.Extent = 0
			_, err := fleetgen.Generate(cfg)

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, fleetgen.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestRunWritesRecords(t *testing.T) {
	Convey("Given no server URL", t, func() {
		cfg := baseConfig()
		var out bytes.Buffer
		stats, err := fleetgen.Run(context.Background(), cfg, &out)

		Convey("Then the fleet is written in the batch input format", func() {
			So(err, ShouldBeNil)
			So(stats.Vehicles, ShouldEqual, 25)

			records, err := textio.ReadRecords(&out)
			So(err, ShouldBeNil)
			want, _ := fleetgen.Generate(cfg)
			So(records, ShouldResemble, want)
		})
	})
}

func TestRunSubmits(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		mux := http.NewServeMux()
		api.NewServer(svc, svc, 10).Register(mux)
		srv := httptest.NewServer(mux)
		Reset(func() {
			srv.Close()
			svc.Stop()
		})

		Convey("When fleets are submitted", func() {
			cfg := baseConfig()
			cfg.BaseURL = srv.URL
			cfg.Fleets = 3
			cfg.Distance = 15
			var out bytes.Buffer
			stats, err := fleetgen.Run(ctx, cfg, &out)

			Convey("Then every fleet is stored and summarised", func() {
				So(err, ShouldBeNil)
				So(stats.Fleets, ShouldEqual, 3)
				So(stats.Vehicles, ShouldEqual, 75)
				So(stats.Survivors+2*stats.Collisions, ShouldEqual, 75)
				So(out.String(), ShouldStartWith, "submitted 3 fleets")

				runs, err := svc.Runs(ctx, 10)
				So(err, ShouldBeNil)
				So(runs, ShouldHaveLength, 3)
				So(runs[0].Report.CollisionDistance, ShouldEqual, 15.0)
			})
		})

		Convey("When a run id does not exist", func() {
			client := fleetgen.NewClient(srv.URL+"/", time.Second)
			_, err := client.Run(ctx, "missing")

			Convey("Then the error carries the status", func() {
				So(errors.Is(err, fleetgen.ErrSubmit), ShouldBeTrue)
				So(strings.Contains(err.Error(), "404"), ShouldBeTrue)
			})
		})
	})
}
