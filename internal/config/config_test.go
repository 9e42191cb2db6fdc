package config_test

import (
	"errors"
	"math"
	"runtime"
	"testing"

	"github.com/okian/collide/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("Then the defaults are set", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Mode, convey.ShouldEqual, config.ModeBatch)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Format, convey.ShouldEqual, config.FormatText)
			convey.So(cfg.CollisionDistance, convey.ShouldEqual, 10.0)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.ParallelThreshold, convey.ShouldEqual, 512)
			convey.So(cfg.StorePath, convey.ShouldBeEmpty)
			convey.So(cfg.MaxRunsLimit, convey.ShouldEqual, 100)
		})

		convey.Convey("Then it validates", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"unknown mode", func(c *config.Config) { c.Mode = "daemon" }},
			{"unknown format", func(c *config.Config) { c.Format = "xml" }},
			{"zero distance", func(c *config.Config) { c.CollisionDistance = 0 }},
			{"negative distance", func(c *config.Config) { c.CollisionDistance = -3 }},
			{"NaN distance", func(c *config.Config) { c.CollisionDistance = math.NaN() }},
			{"empty addr in serve", func(c *config.Config) { c.Mode = config.ModeServe; c.Addr = "" }},
			{"no workers", func(c *config.Config) { c.WorkerCount = 0 }},
			{"no queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"no threshold", func(c *config.Config) { c.ParallelThreshold = 0 }},
			{"no runs limit", func(c *config.Config) { c.MaxRunsLimit = 0 }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then "+tc.name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then an empty addr is fine in batch mode", func() {
			cfg := config.New()
			cfg.Addr = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
