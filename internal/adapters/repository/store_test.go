package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	repository "github.com/okian/collide/internal/adapters/repository"
	"github.com/okian/collide/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRun(i int, at time.Time) types.Run {
	return types.Run{
		ID:        fmt.Sprintf("run-%02d", i),
		CreatedAt: at,
		Report: types.Report{
			Vehicles:          3,
			CollisionDistance: 10,
			Collisions:        []types.Collision{{Time: float64(i), Label1: "A", Label2: "B", Index1: 0, Index2: 1}},
			Survivors:         []types.Survivor{{Label: "C", Position: types.Point{X: 1, Y: 2}, Velocity: types.Point{X: 3, Y: 4}}},
		},
	}
}

func exerciseStore(newStore func() repository.Store) {
	ctx := context.Background()
	store := newStore()
	Reset(func() { _ = store.Close() })

	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	Convey("When it is empty", func() {
		Convey("Then lookups fail with not found", func() {
			_, err := store.Get(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(store.Count(ctx), ShouldEqual, 0)
			runs, err := store.Recent(ctx, 5)
			So(err, ShouldBeNil)
			So(runs, ShouldBeEmpty)
		})
	})

	Convey("When runs are saved", func() {
		for i := 0; i < 3; i++ {
			So(store.Save(ctx, sampleRun(i, base.Add(time.Duration(i)*time.Minute))), ShouldBeNil)
		}

		Convey("Then each run can be read back", func() {
			got, err := store.Get(ctx, "run-01")
			So(err, ShouldBeNil)
			want := sampleRun(1, base.Add(time.Minute))
			So(got.ID, ShouldEqual, want.ID)
			So(got.CreatedAt.Equal(want.CreatedAt), ShouldBeTrue)
			So(cmp.Diff(want.Report, got.Report), ShouldBeEmpty)
			So(store.Count(ctx), ShouldEqual, 3)
		})

		Convey("And recent runs come newest first", func() {
			runs, err := store.Recent(ctx, 2)
			So(err, ShouldBeNil)
			So(runs, ShouldHaveLength, 2)
			So(runs[0].ID, ShouldEqual, "run-02")
			So(runs[1].ID, ShouldEqual, "run-01")
		})

		Convey("And a non-positive limit is rejected", func() {
			_, err := store.Recent(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("And saving an existing id replaces it", func() {
			replaced := sampleRun(0, base.Add(time.Hour))
			replaced.Report.Vehicles = 9
			So(store.Save(ctx, replaced), ShouldBeNil)
			got, err := store.Get(ctx, "run-00")
			So(err, ShouldBeNil)
			So(got.Report.Vehicles, ShouldEqual, 9)
			So(store.Count(ctx), ShouldEqual, 3)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		exerciseStore(func() repository.Store { return repository.NewMemoryStore() })
	})

	Convey("Given a memory store bounded to two runs", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithMaxRuns(2))
		base := time.Now()
		for i := 0; i < 3; i++ {
			So(store.Save(ctx, sampleRun(i, base)), ShouldBeNil)
		}

		Convey("Then the oldest run is evicted", func() {
			So(store.Count(ctx), ShouldEqual, 2)
			_, err := store.Get(ctx, "run-00")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("And a closed store refuses writes", func() {
			So(store.Close(), ShouldBeNil)
			So(errors.Is(store.Save(ctx, sampleRun(9, base)), repository.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		exerciseStore(func() repository.Store {
			path := filepath.Join(t.TempDir(), "runs.db")
			store, err := repository.NewSQLiteStore(context.Background(), path)
			So(err, ShouldBeNil)
			return store
		})
	})

	Convey("Given a sqlite database reopened after writes", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "runs.db")
		store, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		So(store.Save(ctx, sampleRun(5, time.Now())), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("Then the runs are still there", func() {
			reopened, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer reopened.Close()
			So(reopened.Count(ctx), ShouldEqual, 1)
			got, err := reopened.Get(ctx, "run-05")
			So(err, ShouldBeNil)
			So(got.Report.Collisions[0].Time, ShouldEqual, 5.0)
		})
	})
}
