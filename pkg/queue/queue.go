package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrDuplicateJob is returned when a keyed job is enqueued while another job
// with the same key is still queued or running.
var ErrDuplicateJob = errors.New("duplicate job for uniqueness key")

// ErrStopped is returned when enqueueing after the queue shut down.
var ErrStopped = errors.New("queue stopped")

// Job is one unit of background work.
type Job interface {
	// Key is the uniqueness key; jobs with the same non-empty key collapse
	// into one while in flight. Empty means unkeyed.
	Key() string
	// Retries is the number of re-attempts after a failed run.
	Retries() int
	Run(ctx context.Context) error
}

// Batch tracks a group of jobs enqueued together. Its completion callback
// fires exactly once, after the last job of the group finished or
// permanently failed, and never before.
type Batch struct {
	ID        string
	remaining atomic.Int64
	fired     atomic.Bool
	onDone    func()
	done      chan struct{}
}

// Done closes once the batch completion callback has run.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

func (b *Batch) jobFinished() {
	if b.remaining.Add(-1) != 0 {
		return
	}
	// The worker that decrements to zero runs the callback; the CAS keeps it
	// single-shot even if a zero-job batch raced completion.
	if b.fired.CompareAndSwap(false, true) {
		if b.onDone != nil {
			b.onDone()
		}
		close(b.done)
	}
}

type task struct {
	job   Job
	batch *Batch
}

type Config struct {
	Workers    int
	BufferSize int
	// RetryDelay spaces re-attempts of a failed job.
	RetryDelay time.Duration
}

// Queue runs jobs on a fixed pool of workers with at-least-once execution,
// bounded retries and per-job uniqueness keys.
type Queue struct {
	config Config
	tasks  chan task
	wg     sync.WaitGroup

	// producers counts enqueues that passed the stopped check but have not
	// finished their channel send; Stop must not close tasks under them.
	producers sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]struct{}
	stopped  bool
}

func New(config Config) *Queue {
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	return &Queue{
		config:   config,
		tasks:    make(chan task, config.BufferSize),
		inflight: make(map[string]struct{}),
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled and the
// task channel drained via Stop.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Stop rejects further enqueues, lets senders already past the stopped check
// finish their submit, and waits for in-flight jobs to drain.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	// No new producer can register after stopped is set, so this settles.
	q.producers.Wait()
	close(q.tasks)
	q.wg.Wait()
}

// Enqueue submits one job. A non-empty key still held by a queued or running
// job fails with ErrDuplicateJob.
func (q *Queue) Enqueue(job Job) error {
	return q.submit(task{job: job})
}

// EnqueueBatch submits jobs as one batch whose onDone callback fires exactly
// once after all of them finished. An empty batch completes immediately.
// On a duplicate key nothing from the batch is enqueued.
func (q *Queue) EnqueueBatch(id string, jobs []Job, onDone func()) (*Batch, error) {
	batch := &Batch{
		ID:     id,
		onDone: onDone,
		done:   make(chan struct{}),
	}
	batch.remaining.Store(int64(len(jobs)) + 1)

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil, ErrStopped
	}
	for _, job := range jobs {
		if key := job.Key(); key != "" {
			if _, ok := q.inflight[key]; ok {
				q.mu.Unlock()
				return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, key)
			}
		}
	}
	for _, job := range jobs {
		if key := job.Key(); key != "" {
			q.inflight[key] = struct{}{}
		}
	}
	q.producers.Add(1)
	q.mu.Unlock()

	for _, job := range jobs {
		q.tasks <- task{job: job, batch: batch}
	}
	q.producers.Done()

	// The extra slot keeps the callback from firing mid-enqueue; releasing it
	// completes empty batches on the spot.
	batch.jobFinished()

	return batch, nil
}

func (q *Queue) submit(t task) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return ErrStopped
	}
	if key := t.job.Key(); key != "" {
		if _, ok := q.inflight[key]; ok {
			q.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateJob, key)
		}
		q.inflight[key] = struct{}{}
	}
	q.producers.Add(1)
	q.mu.Unlock()

	q.tasks <- t
	q.producers.Done()
	return nil
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for t := range q.tasks {
		q.execute(ctx, t)
	}
}

func (q *Queue) execute(ctx context.Context, t task) {
	logger := zerolog.Ctx(ctx).With().Str("job_key", t.job.Key()).Logger()

	defer func() {
		if key := t.job.Key(); key != "" {
			q.mu.Lock()
			delete(q.inflight, key)
			q.mu.Unlock()
		}
		if t.batch != nil {
			t.batch.jobFinished()
		}
	}()

	attempts := t.job.Retries() + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		err := q.runOnce(ctx, t.job)
		if err == nil {
			return
		}
		if attempt == attempts {
			logger.Error().Err(err).Int("attempts", attempt).Msg("job failed permanently")
			return
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("job failed, retrying")

		select {
		case <-ctx.Done():
			logger.Warn().Msg("queue context cancelled, abandoning retries")
			return
		case <-time.After(q.config.RetryDelay):
		}
	}
}

func (q *Queue) runOnce(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panic: %v", r)
		}
	}()
	return job.Run(ctx)
}
