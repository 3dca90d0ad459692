package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJob struct {
	key     string
	retries int
	run     func(ctx context.Context) error
}

func (j *testJob) Key() string                  { return j.key }
func (j *testJob) Retries() int                 { return j.retries }
func (j *testJob) Run(ctx context.Context) error { return j.run(ctx) }

func newQueue(t *testing.T, workers int) *Queue {
	t.Helper()
	q := New(Config{Workers: workers, BufferSize: 64, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	t.Cleanup(q.Stop)
	return q
}

func waitDone(t *testing.T, batch *Batch) {
	t.Helper()
	select {
	case <-batch.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not complete in time")
	}
}

func TestQueue_Enqueue(t *testing.T) {
	t.Run("runs the job", func(t *testing.T) {
		q := newQueue(t, 2)

		done := make(chan struct{})
		err := q.Enqueue(&testJob{run: func(context.Context) error {
			close(done)
			return nil
		}})
		require.NoError(t, err)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("job never ran")
		}
	})

	t.Run("rejects duplicate keys while in flight", func(t *testing.T) {
		q := newQueue(t, 1)

		release := make(chan struct{})
		started := make(chan struct{})
		err := q.Enqueue(&testJob{key: "same", run: func(context.Context) error {
			close(started)
			<-release
			return nil
		}})
		require.NoError(t, err)
		<-started

		err = q.Enqueue(&testJob{key: "same", run: func(context.Context) error { return nil }})
		assert.ErrorIs(t, err, ErrDuplicateJob)

		close(release)
	})

	t.Run("key is reusable after completion", func(t *testing.T) {
		q := newQueue(t, 1)

		first := make(chan struct{})
		require.NoError(t, q.Enqueue(&testJob{key: "k", run: func(context.Context) error {
			close(first)
			return nil
		}}))
		<-first

		// The key is released in the worker's defer; give it a moment.
		require.Eventually(t, func() bool {
			return q.Enqueue(&testJob{key: "k", run: func(context.Context) error { return nil }}) == nil
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("stop waits for a sender parked on a full buffer", func(t *testing.T) {
		q := New(Config{Workers: 1, BufferSize: 1, RetryDelay: time.Millisecond})
		q.Start(context.Background())

		var ran atomic.Int32
		countingJob := func() Job {
			return &testJob{run: func(context.Context) error {
				ran.Add(1)
				return nil
			}}
		}

		release := make(chan struct{})
		started := make(chan struct{})
		require.NoError(t, q.Enqueue(&testJob{run: func(context.Context) error {
			close(started)
			<-release
			ran.Add(1)
			return nil
		}}))
		<-started

		// The worker is blocked, so this fills the buffer and the next
		// enqueue parks on the channel send.
		require.NoError(t, q.Enqueue(countingJob()))

		parked := make(chan error, 1)
		go func() {
			parked <- q.Enqueue(countingJob())
		}()
		time.Sleep(20 * time.Millisecond)

		stopReturned := make(chan struct{})
		go func() {
			q.Stop()
			close(stopReturned)
		}()
		time.Sleep(20 * time.Millisecond)

		close(release)

		select {
		case err := <-parked:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("parked enqueue never returned")
		}
		select {
		case <-stopReturned:
		case <-time.After(5 * time.Second):
			t.Fatal("stop never returned")
		}

		assert.EqualValues(t, 3, ran.Load())
		assert.ErrorIs(t, q.Enqueue(countingJob()), ErrStopped)
	})

	t.Run("rejects after stop", func(t *testing.T) {
		q := New(Config{Workers: 1})
		q.Start(context.Background())
		q.Stop()

		err := q.Enqueue(&testJob{run: func(context.Context) error { return nil }})
		assert.ErrorIs(t, err, ErrStopped)
	})
}

func TestQueue_Retries(t *testing.T) {
	t.Run("failed job is retried up to its budget", func(t *testing.T) {
		q := newQueue(t, 1)

		var attempts atomic.Int32
		done := make(chan struct{})
		require.NoError(t, q.Enqueue(&testJob{retries: 2, run: func(context.Context) error {
			if attempts.Add(1) < 3 {
				return errors.New("transient")
			}
			close(done)
			return nil
		}}))

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("job never succeeded")
		}
		assert.EqualValues(t, 3, attempts.Load())
	})

	t.Run("panicking job is contained and retried", func(t *testing.T) {
		q := newQueue(t, 1)

		var attempts atomic.Int32
		done := make(chan struct{})
		require.NoError(t, q.Enqueue(&testJob{retries: 1, run: func(context.Context) error {
			if attempts.Add(1) == 1 {
				panic("first run exploded")
			}
			close(done)
			return nil
		}}))

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("job never recovered")
		}
	})
}

func TestQueue_EnqueueBatch(t *testing.T) {
	t.Run("callback fires exactly once after all jobs", func(t *testing.T) {
		q := newQueue(t, 4)

		var ran atomic.Int32
		var fired atomic.Int32
		jobs := make([]Job, 10)
		for i := range jobs {
			jobs[i] = &testJob{run: func(context.Context) error {
				ran.Add(1)
				return nil
			}}
		}

		batch, err := q.EnqueueBatch("batch-1", jobs, func() {
			fired.Add(1)
			// Every job must be finished before the callback runs.
			assert.EqualValues(t, 10, ran.Load())
		})
		require.NoError(t, err)

		waitDone(t, batch)
		assert.EqualValues(t, 1, fired.Load())
		assert.EqualValues(t, 10, ran.Load())
	})

	t.Run("empty batch completes immediately", func(t *testing.T) {
		q := newQueue(t, 1)

		fired := false
		batch, err := q.EnqueueBatch("empty", nil, func() { fired = true })
		require.NoError(t, err)

		waitDone(t, batch)
		assert.True(t, fired)
	})

	t.Run("failed jobs still count toward completion", func(t *testing.T) {
		q := newQueue(t, 2)

		jobs := []Job{
			&testJob{run: func(context.Context) error { return nil }},
			&testJob{run: func(context.Context) error { return errors.New("permanent") }},
		}

		batch, err := q.EnqueueBatch("mixed", jobs, nil)
		require.NoError(t, err)
		waitDone(t, batch)
	})

	t.Run("duplicate key rejects the whole batch", func(t *testing.T) {
		q := newQueue(t, 1)

		release := make(chan struct{})
		started := make(chan struct{})
		require.NoError(t, q.Enqueue(&testJob{key: "busy", run: func(context.Context) error {
			close(started)
			<-release
			return nil
		}}))
		<-started
		defer close(release)

		jobs := []Job{
			&testJob{key: "fresh", run: func(context.Context) error { return nil }},
			&testJob{key: "busy", run: func(context.Context) error { return nil }},
		}

		_, err := q.EnqueueBatch("rejected", jobs, nil)
		assert.ErrorIs(t, err, ErrDuplicateJob)
	})
}
