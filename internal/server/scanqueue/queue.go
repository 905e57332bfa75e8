// Package scanqueue runs inline malware scans in the background with a
// bounded worker pool. Upload requests enqueue a job and return
// immediately; the verdict lands on the scan-target object's av-status
// tag when the job finishes.
package scanqueue

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/cds-snc/notification-document-download-api/internal/logging"
)

const jobTimeout = 2 * time.Minute

type Job func(ctx context.Context) error

type Queue struct {
	pool   *pool.Pool
	logger logging.Logger
}

// New creates a queue that runs at most workers jobs concurrently.
// Submit blocks once all workers are busy, which backpressures uploads
// instead of growing an unbounded goroutine pile.
func New(workers int, logger logging.Logger) *Queue {
	return &Queue{
		pool:   pool.New().WithMaxGoroutines(workers),
		logger: logger,
	}
}

// Submit schedules a job. Failures are logged, not propagated: the object
// keeps its in_progress tag and the download policy decides what that
// means.
func (q *Queue) Submit(name string, job Job) {
	q.pool.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := job(ctx); err != nil {
			q.logger.Error(ctx, "scan job failed", "job", name, "error", err)
		}
	})
}

// Close waits for every submitted job to finish.
func (q *Queue) Close() {
	q.pool.Wait()
}
