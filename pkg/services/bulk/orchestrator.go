package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/de-tools/page-atlas/pkg/events"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/queue"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// ErrSweepInProgress is returned when a sweep for a class is requested while
// another one for the same class is still running.
var ErrSweepInProgress = errors.New("sweep already in progress for class")

// State of one sweep, in order of progression.
type State string

const (
	StateIdle          State = "idle"
	StateCleaning      State = "cleaning"
	StateDispatching   State = "dispatching"
	StateAwaitingBatch State = "awaiting_batch"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

// TargetSource enumerates the inspections of one target class. Each returned
// inspection carries its own eligibility gate; the orchestrator sorts eligible
// targets from stale ones.
type TargetSource interface {
	Class() string
	Inspections(ctx context.Context) ([]inspect.Inspection, error)
}

// ReportStore is the slice of persistence the orchestrator needs: dropping
// stale reports during cleaning and summarizing levels after the batch.
type ReportStore interface {
	DeleteByTarget(ctx context.Context, ref domain.TargetRef) error
	CountByLevel(ctx context.Context, inspectableType string) (domain.LevelCounts, error)
	TargetLevel(ctx context.Context, ref domain.TargetRef) (domain.Level, bool, error)
}

// Orchestrator sweeps every instance of a target class through the inspection
// pipeline as one batch of queue jobs. At most one sweep per class is in
// flight at a time; a concurrent request for the same class is rejected, not
// queued behind the first.
type Orchestrator struct {
	inspector *inspect.Inspector
	store     ReportStore
	queue     *queue.Queue
	publisher events.Publisher

	// JobRetries is applied to each per-target inspection job. Planning never
	// retries: it is cheap to rerun by hand and silent retry risks double
	// dispatch.
	JobRetries int

	mu     sync.Mutex
	active map[string]State
}

func NewOrchestrator(
	inspector *inspect.Inspector,
	store ReportStore,
	q *queue.Queue,
	publisher events.Publisher,
) *Orchestrator {
	return &Orchestrator{
		inspector:  inspector,
		store:      store,
		queue:      q,
		publisher:  publisher,
		JobRetries: 2,
		active:     make(map[string]State),
	}
}

// State reports the current sweep state for a class, StateIdle when none is
// running.
func (o *Orchestrator) State(class string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.active[class]; ok {
		return s
	}
	return StateIdle
}

// Sweep plans and dispatches a full sweep for the source's class: reports of
// now-ineligible targets are removed, one inspection job is enqueued per
// eligible target, and a single completion callback summarizes the stored
// reports once every job has finished. Planning failures abort the sweep
// before any job is dispatched and are returned to the caller.
func (o *Orchestrator) Sweep(ctx context.Context, source TargetSource) error {
	return o.sweep(ctx, source, nil)
}

// SweepMatching is the filtered variant: it dispatches jobs only for targets
// whose last stored report has the given level, and skips the cleaning phase.
func (o *Orchestrator) SweepMatching(ctx context.Context, source TargetSource, level domain.Level) error {
	return o.sweep(ctx, source, &level)
}

func (o *Orchestrator) sweep(ctx context.Context, source TargetSource, level *domain.Level) error {
	class := source.Class()

	if !o.acquire(class) {
		return fmt.Errorf("%w: %s", ErrSweepInProgress, class)
	}

	logger := zerolog.Ctx(ctx).With().Str("class", class).Logger()

	jobs, err := o.plan(ctx, source, level)
	if err != nil {
		o.release(class)
		return err
	}

	o.setState(class, StateDispatching)

	if len(jobs) == 0 {
		logger.Info().Msg("sweep found no eligible targets")
		o.release(class)
		o.publisher.Publish(ctx, events.BulkInspectionCompleted{
			Summary: domain.ModelInspectionReport{Class: class},
		})
		return nil
	}

	started := time.Now()
	batchID := uuid.NewString()
	total := len(jobs)

	// The callback outlives the caller's request; detach it from the request
	// deadline but keep the logger.
	callbackCtx := context.WithoutCancel(ctx)

	// The batch can complete (and release the class) before EnqueueBatch
	// returns, so the transition has to happen first.
	o.setState(class, StateAwaitingBatch)

	_, err = o.queue.EnqueueBatch(batchID, jobs, func() {
		elapsed := time.Since(started)
		avg := elapsed / time.Duration(total)

		summary, err := o.summary(callbackCtx, class)
		if err != nil {
			logger.Error().Err(err).Msg("failed to summarize sweep")
		}

		logger.Info().
			Int("jobs", total).
			Dur("elapsed", elapsed).
			Dur("avg_per_job", avg).
			Msg("bulk inspection batch completed")

		o.release(class)
		o.publisher.Publish(callbackCtx, events.BulkInspectionCompleted{
			Summary:   summary,
			Elapsed:   elapsed,
			AvgPerJob: avg,
		})
	})
	if err != nil {
		o.release(class)
		return &domain.PlanningError{Class: class, Phase: "dispatch", Err: err}
	}

	logger.Info().Int("jobs", total).Str("batch_id", batchID).Msg("sweep dispatched")
	return nil
}

// plan runs the cleaning phase and builds the job list. Any failure here is a
// PlanningError: nothing has been dispatched yet and the sweep aborts whole.
func (o *Orchestrator) plan(ctx context.Context, source TargetSource, level *domain.Level) ([]queue.Job, error) {
	class := source.Class()
	o.setState(class, StateCleaning)

	inspections, err := source.Inspections(ctx)
	if err != nil {
		return nil, &domain.PlanningError{Class: class, Phase: "enumerate", Err: err}
	}

	logger := zerolog.Ctx(ctx)
	cleaned := 0
	var jobs []queue.Job

	for _, inspection := range inspections {
		if !inspection.ShouldInspect() {
			// Filtered sweeps leave stale reports alone; only the full sweep
			// reconciles drift.
			if level == nil {
				if ref := inspection.Target(); ref != nil {
					if err := o.store.DeleteByTarget(ctx, *ref); err != nil {
						return nil, &domain.PlanningError{Class: class, Phase: "cleaning", Err: err}
					}
					cleaned++
				}
			}
			continue
		}

		if level != nil {
			ref := inspection.Target()
			if ref == nil {
				continue
			}
			stored, ok, err := o.store.TargetLevel(ctx, *ref)
			if err != nil {
				return nil, &domain.PlanningError{Class: class, Phase: "filter", Err: err}
			}
			if !ok || stored != *level {
				continue
			}
		}

		jobs = append(jobs, &inspectionJob{
			inspector:  o.inspector,
			inspection: inspection,
			retries:    o.JobRetries,
		})
	}

	if cleaned > 0 {
		logger.Info().Str("class", class).Int("reports_deleted", cleaned).
			Msg("cleaned up stale inspection data before bulk inspection")
	}

	return jobs, nil
}

func (o *Orchestrator) summary(ctx context.Context, class string) (domain.ModelInspectionReport, error) {
	counts, err := o.store.CountByLevel(ctx, class)
	if err != nil {
		return domain.ModelInspectionReport{Class: class}, err
	}
	return domain.ModelInspectionReport{Class: class, Counts: counts}, nil
}

func (o *Orchestrator) acquire(class string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.active[class]; ok {
		return false
	}
	o.active[class] = StateCleaning
	return true
}

// setState only updates a class acquire created; release wins over a late
// state update, so a finished sweep can never be resurrected.
func (o *Orchestrator) setState(class string, s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.active[class]; ok {
		o.active[class] = s
	}
}

func (o *Orchestrator) release(class string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, class)
}

// inspectionJob adapts one inspection to the queue's job contract.
type inspectionJob struct {
	inspector  *inspect.Inspector
	inspection inspect.Inspection
	retries    int
}

func (j *inspectionJob) Key() string {
	if ref := j.inspection.Target(); ref != nil {
		return "inspect:" + ref.Type + ":" + ref.ID
	}
	return "inspect:url:" + j.inspection.URL()
}

func (j *inspectionJob) Retries() int {
	return j.retries
}

func (j *inspectionJob) Run(ctx context.Context) error {
	return j.inspector.RunAndRecord(ctx, j.inspection)
}
