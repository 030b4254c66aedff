// Package worker runs accepted submissions through the pipeline on a bounded
// in-process queue. Once enqueued, a submission runs to a terminal outcome
// with no cancellation or progress query.
package worker

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arokua/job-hunter/internal/model"
)

// ErrQueueFull is returned by Enqueue when the queue is saturated. The
// accept path never blocks on a slow pipeline.
var ErrQueueFull = eris.New("worker: queue is full")

// Runner executes one submission to its terminal outcome.
type Runner interface {
	Run(ctx context.Context, sub model.Submission) model.Outcome
}

// Pool is a bounded submission queue with a fixed number of workers.
type Pool struct {
	runner      Runner
	queue       chan model.Submission
	concurrency int
	jobTimeout  time.Duration
	g           *errgroup.Group
}

// NewPool creates a Pool. jobTimeout bounds one submission's whole run;
// zero means no bound.
func NewPool(runner Runner, concurrency, queueSize int, jobTimeout time.Duration) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Pool{
		runner:      runner,
		queue:       make(chan model.Submission, queueSize),
		concurrency: concurrency,
		jobTimeout:  jobTimeout,
		g:           &errgroup.Group{},
	}
}

// Start launches the workers. They drain the queue until Close is called or
// ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.concurrency; i++ {
		p.g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case sub, ok := <-p.queue:
					if !ok {
						return nil
					}
					p.runOne(ctx, sub)
				}
			}
		})
	}
}

// Enqueue hands a submission to the pool without blocking.
func (p *Pool) Enqueue(sub model.Submission) error {
	select {
	case p.queue <- sub:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for in-flight submissions to finish.
func (p *Pool) Close() {
	close(p.queue)
	_ = p.g.Wait()
}

// runOne executes a single submission with the job timeout and a panic
// guard. Tagged errors are handled inside the pipeline itself; the recover
// here is a last resort for collaborator bugs, so a panicking run still
// terminates in the log rather than killing the worker.
func (p *Pool) runOne(ctx context.Context, sub model.Submission) {
	// Shutdown drains rather than aborts: once a submission is in flight it
	// runs to its terminal outcome, bounded only by the job timeout.
	runCtx := context.WithoutCancel(ctx)
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, p.jobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("worker: submission panicked",
				zap.String("submission_id", sub.SubmissionID),
				zap.Any("panic", r),
			)
		}
	}()

	p.runner.Run(runCtx, sub)
}
