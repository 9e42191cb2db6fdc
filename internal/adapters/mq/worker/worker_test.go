package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/collide/internal/adapters/mq/queue"
	worker "github.com/okian/collide/internal/adapters/mq/worker"
	logging "github.com/okian/collide/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

type recordingProcessor struct {
	mu   sync.Mutex
	rows []int
	fail map[int]error
}

func (p *recordingProcessor) Process(_ context.Context, job worker.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.fail[job.Row]; ok {
		return err
	}
	p.rows = append(p.rows, job.Row)
	return nil
}

func filledQueue(n int) *queue.InMemoryQueue {
	q := queue.NewInMemoryQueue(queue.WithCapacity(n))
	for i := 0; i < n; i++ {
		q.Enqueue(context.Background(), queue.Job{Row: i})
	}
	_ = q.Close()
	return q
}

func TestPool(t *testing.T) {
	convey.Convey("Given a closed queue of row jobs", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		q := filledQueue(50)

		convey.Convey("When a pool drains it", func() {
			p := &recordingProcessor{}
			pool := worker.NewPool(4, q, p)
			pool.Start(ctx)
			pool.Start(ctx)
			err := pool.Wait(ctx)

			convey.Convey("Then every row is processed once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Size(), convey.ShouldEqual, 4)
				convey.So(p.rows, convey.ShouldHaveLength, 50)
				seen := make(map[int]bool)
				for _, r := range p.rows {
					convey.So(seen[r], convey.ShouldBeFalse)
					seen[r] = true
				}
			})
		})

		convey.Convey("When some rows fail", func() {
			boom := errors.New("boom")
			p := &recordingProcessor{fail: map[int]error{3: boom, 7: boom}}
			pool := worker.NewPool(2, q, p)
			pool.Start(ctx)
			err := pool.Wait(ctx)

			convey.Convey("Then the errors are joined and the rest still run", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
				convey.So(p.rows, convey.ShouldHaveLength, 48)
			})
		})
	})

	convey.Convey("Given a queue that is never closed", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		pool := worker.NewPool(1, q, worker.ProcessorFunc(func(context.Context, worker.Job) error { return nil }))

		convey.Convey("When the run context is cancelled", func() {
			runCtx, cancelRun := context.WithCancel(context.Background())
			pool.Start(runCtx)
			cancelRun()

			convey.Convey("Then workers stop", func() {
				waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				convey.So(pool.Wait(waitCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive size", t, func() {
		pool := worker.NewPool(0, filledQueue(1), &recordingProcessor{})

		convey.Convey("Then it falls back to one worker per CPU", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
