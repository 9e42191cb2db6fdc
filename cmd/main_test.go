package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/collide/internal/config"
	"github.com/okian/collide/internal/domain/types"
	"github.com/okian/collide/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const headOnInput = "A 0 0 1 0\nB 20 0 -1 0\nC 100 100 0 0\n"

func TestRunBatch(t *testing.T) {
	convey.Convey("Given batch mode", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := newService(cfg, logger.Get())

		convey.Convey("When records come from stdin", func() {
			var out bytes.Buffer
			err := runBatch(ctx, cfg, svc, strings.NewReader(headOnInput), &out)

			convey.Convey("Then the text report is written", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldEqual, strings.Join([]string{
					"there are 3 vehicles",
					"collision report",
					"at 5 A collided with B",
					"the remaining vehicles are",
					"C 100 100 0 0",
					"",
				}, "\n"))
			})
		})

		convey.Convey("When records come from a file and JSON is requested", func() {
			path := filepath.Join(t.TempDir(), "fleet.txt")
			convey.So(os.WriteFile(path, []byte(headOnInput), 0o600), convey.ShouldBeNil)
			cfg.Input = path
			cfg.Format = config.FormatJSON

			var out bytes.Buffer
			err := runBatch(ctx, cfg, svc, strings.NewReader(""), &out)

			convey.Convey("Then the JSON report is written", func() {
				convey.So(err, convey.ShouldBeNil)
				var report types.Report
				convey.So(json.Unmarshal(out.Bytes(), &report), convey.ShouldBeNil)
				convey.So(report.Vehicles, convey.ShouldEqual, 3)
				convey.So(report.Collisions, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the input is malformed", func() {
			err := runBatch(ctx, cfg, svc, strings.NewReader("A 0 0 1"), &bytes.Buffer{})

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the input file is missing", func() {
			cfg.Input = filepath.Join(t.TempDir(), "missing.txt")
			err := runBatch(ctx, cfg, svc, nil, &bytes.Buffer{})

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRunDispatch(t *testing.T) {
	convey.Convey("Given a batch config and stdin", t, func() {
		cfg := config.New()
		var out bytes.Buffer

		convey.Convey("When run is called", func() {
			err := run(context.Background(), cfg, strings.NewReader(headOnInput), &out)

			convey.Convey("Then the report reaches stdout", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldStartWith, "there are 3 vehicles\n")
			})
		})
	})
}

func TestServeHandler(t *testing.T) {
	convey.Convey("Given the serve mode routes", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		convey.Reset(svc.Stop)
		h := newHandler(cfg, svc)

		for _, path := range []string{"/healthz", "/stats", "/runs", "/openapi.yaml", "/api-docs"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}

		convey.Convey("When a fleet is posted", func() {
			body := `{"vehicles":[{"label":"A","x":0,"y":0,"vx":1,"vy":0},{"label":"B","x":20,"y":0,"vx":-1,"vy":0}]}`
			req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then it is created", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
