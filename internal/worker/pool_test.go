package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arokua/job-hunter/internal/model"
)

type recordingRunner struct {
	mu    sync.Mutex
	ran   []string
	block chan struct{} // when set, Run waits on it before returning
}

func (r *recordingRunner) Run(ctx context.Context, sub model.Submission) model.Outcome {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.ran = append(r.ran, sub.SubmissionID)
	r.mu.Unlock()
	return model.Completed(sub.SubmissionID, 0)
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ran)
}

func sub(id string) model.Submission {
	return model.Submission{SubmissionID: id, Email: "dev@example.com"}
}

func TestPool_RunsEnqueuedSubmissions(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	p := NewPool(runner, 2, 8, 0)
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(sub("a")))
	require.NoError(t, p.Enqueue(sub("b")))
	require.NoError(t, p.Enqueue(sub("c")))
	p.Close()

	assert.Equal(t, 3, runner.count())
}

func TestPool_EnqueueFullQueue(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	runner := &recordingRunner{block: block}
	p := NewPool(runner, 1, 1, 0)
	p.Start(context.Background())

	// First submission occupies the worker, second fills the queue slot.
	// With the worker blocked, at most one more enqueue can be accepted
	// before the queue reports full.
	require.NoError(t, p.Enqueue(sub("running")))
	var full error
	for i := 0; i < 3; i++ {
		if err := p.Enqueue(sub("queued")); err != nil {
			full = err
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.ErrorIs(t, full, ErrQueueFull)

	close(block)
	p.Close()
}

func TestPool_PanicInRunDoesNotKillWorker(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var ran []string
	runner := runnerFunc(func(ctx context.Context, s model.Submission) model.Outcome {
		if s.SubmissionID == "boom" {
			panic("collaborator bug")
		}
		mu.Lock()
		ran = append(ran, s.SubmissionID)
		mu.Unlock()
		return model.Completed(s.SubmissionID, 0)
	})
	p := NewPool(runner, 1, 4, 0)
	p.Start(context.Background())

	// The worker must survive the panic and keep draining.
	require.NoError(t, p.Enqueue(sub("boom")))
	require.NoError(t, p.Enqueue(sub("after")))
	p.Close()

	assert.Equal(t, []string{"after"}, ran)
}

func TestPool_CloseDrainsQueue(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	p := NewPool(runner, 1, 16, 0)
	p.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Enqueue(sub("s")))
	}
	p.Close()

	assert.Equal(t, 10, runner.count())
}

func TestPool_DefaultsFloorInvalidSizes(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	p := NewPool(runner, 0, 0, 0)
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(sub("a")))
	p.Close()

	assert.Equal(t, 1, runner.count())
}

func TestPool_ShutdownDrainsInFlightRun(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var runErr error
	runner := runnerFunc(func(ctx context.Context, s model.Submission) model.Outcome {
		close(started)
		<-release
		runErr = ctx.Err()
		return model.Completed(s.SubmissionID, 0)
	})

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPool(runner, 1, 4, 0)
	p.Start(ctx)

	require.NoError(t, p.Enqueue(sub("in-flight")))
	<-started

	// Cancelling the accept context must not abort the running submission.
	cancel()
	close(release)
	p.Close()

	assert.NoError(t, runErr)
}

func TestPool_JobTimeoutBoundsRun(t *testing.T) {
	t.Parallel()

	var sawDeadline bool
	runner := runnerFunc(func(ctx context.Context, s model.Submission) model.Outcome {
		_, sawDeadline = ctx.Deadline()
		return model.Completed(s.SubmissionID, 0)
	})
	p := NewPool(runner, 1, 4, time.Minute)
	p.Start(context.Background())

	require.NoError(t, p.Enqueue(sub("a")))
	p.Close()

	assert.True(t, sawDeadline)
}

type runnerFunc func(ctx context.Context, sub model.Submission) model.Outcome

func (f runnerFunc) Run(ctx context.Context, sub model.Submission) model.Outcome {
	return f(ctx, sub)
}
