package inspect

import (
	"context"
	"fmt"

	"github.com/de-tools/page-atlas/pkg/events"
	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Recorder persists one report atomically per target: old remarks go away,
// the report row is upserted, new remarks are inserted, all or nothing.
type Recorder interface {
	Record(ctx context.Context, report domain.InspectionReport) error
}

// httpRequestError is the sentinel pseudo-check a failed fetch is attributed
// to; the run's report then consists of that single FATAL result.
var httpRequestError = domain.CheckIdentity{
	Name:      "HTTP Request Error",
	Checklist: "Error",
}

// Inspector runs the inspection pipeline for one target: fetch, execute the
// declared checks sequentially against one shared context, aggregate into a
// report.
type Inspector struct {
	fetcher   Fetcher
	recorder  Recorder
	publisher events.Publisher
}

func NewInspector(fetcher Fetcher, recorder Recorder, publisher events.Publisher) *Inspector {
	return &Inspector{
		fetcher:   fetcher,
		recorder:  recorder,
		publisher: publisher,
	}
}

// Run executes the inspection and returns its report. A target whose
// ShouldInspect gate is closed yields (nil, nil): an explicit skip, not a
// failure. A fetch failure still yields a report, carrying one synthetic
// FATAL result and nothing else; the completion event only fires for runs
// that actually executed their checks.
func (s *Inspector) Run(ctx context.Context, inspection Inspection) (*domain.InspectionReport, error) {
	if !inspection.ShouldInspect() {
		return nil, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("url", inspection.URL()).Logger()

	response, err := s.fetcher.Fetch(ctx, inspection.URL(), inspection.HTTPOptions())
	if err != nil {
		logger.Warn().Err(err).Msg("fetch failed, reporting fatal")
		report := s.fetchFailureReport(inspection, err)
		return &report, nil
	}

	ic := NewContext(inspection, response)

	checks := inspection.Checks()
	results := make([]domain.CheckResult, 0, len(checks))
	for _, check := range checks {
		results = append(results, s.runCheck(ctx, check, ic))
	}

	report := domain.NewInspectionReport(inspection.URL(), inspection.Target(), results)
	logger.Info().
		Str("status", report.Status.String()).
		Int("checks", len(results)).
		Int("findings", report.FindingCounts.Total()).
		Msg("inspection completed")

	s.publisher.Publish(ctx, events.InspectionCompleted{Report: report})

	return &report, nil
}

// RunAndRecord runs the inspection and persists the report. Skipped targets
// record nothing. Recorder failures fail the whole job so the queue can retry.
func (s *Inspector) RunAndRecord(ctx context.Context, inspection Inspection) error {
	report, err := s.Run(ctx, inspection)
	if err != nil || report == nil {
		return err
	}

	if err := s.recorder.Record(ctx, *report); err != nil {
		return &domain.RecorderError{URL: report.URL, Err: err}
	}
	return nil
}

// runCheck isolates one check: an error return or a panic inside the check
// becomes a single FATAL result for that check and the run moves on.
func (s *Inspector) runCheck(ctx context.Context, check Check, ic *Context) (result domain.CheckResult) {
	identity := domain.CheckIdentity{Name: check.Name(), Checklist: check.Checklist()}

	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("check", identity.Name).
				Interface("panic", r).
				Msg("check panicked")
			result = s.failureResult(ic, identity, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err := check.Apply(ctx, ic)
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Str("check", identity.Name).
			Err(err).
			Msg("check failed")
		return s.failureResult(ic, identity, err)
	}
	return result
}

func (s *Inspector) failureResult(ic *Context, identity domain.CheckIdentity, err error) domain.CheckResult {
	finding := domain.Finding{
		Level:     domain.LevelFatal,
		Message:   "Check execution failed: " + err.Error(),
		Check:     identity.Name,
		Checklist: identity.Checklist,
		URL:       ic.URL(),
	}
	return domain.NewCheckResult(identity, []domain.Finding{finding})
}

func (s *Inspector) fetchFailureReport(inspection Inspection, err error) domain.InspectionReport {
	finding := domain.Finding{
		Level:     domain.LevelFatal,
		Message:   "HTTP request failed: " + err.Error(),
		Check:     httpRequestError.Name,
		Checklist: httpRequestError.Checklist,
		URL:       inspection.URL(),
	}
	result := domain.NewCheckResult(httpRequestError, []domain.Finding{finding})
	return domain.NewInspectionReport(inspection.URL(), inspection.Target(), []domain.CheckResult{result})
}
