package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/page-atlas/pkg/events"
	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// Notifier delivers one sweep summary to a channel.
type Notifier interface {
	Notify(ctx context.Context, summary domain.ModelInspectionReport, elapsed, avgPerJob time.Duration) error
}

// ShouldNotify applies the severity threshold to a sweep summary. A SUCCESS
// threshold always notifies; any other threshold notifies when at least one
// report sits at or above it.
func ShouldNotify(summary domain.ModelInspectionReport, min domain.Level) bool {
	if min == domain.LevelSuccess {
		return true
	}
	return summary.Counts.AtOrAbove(min) > 0
}

// Gate listens for completed sweeps and forwards their summaries to the
// notifier when the configured threshold is met. A disabled gate (no minimum
// level) never sends.
type Gate struct {
	minLevel *domain.Level
	notifier Notifier
}

func NewGate(minLevel *domain.Level, notifier Notifier) *Gate {
	return &Gate{
		minLevel: minLevel,
		notifier: notifier,
	}
}

// Handle is wired as an event bus subscriber; non-sweep events pass through.
func (g *Gate) Handle(ctx context.Context, event any) {
	completed, ok := event.(events.BulkInspectionCompleted)
	if !ok {
		return
	}

	if g.minLevel == nil || g.notifier == nil {
		return
	}

	logger := zerolog.Ctx(ctx).With().Str("class", completed.Summary.Class).Logger()

	if !ShouldNotify(completed.Summary, *g.minLevel) {
		logger.Debug().Str("min_level", g.minLevel.String()).Msg("sweep summary below notification threshold")
		return
	}

	if err := g.notifier.Notify(ctx, completed.Summary, completed.Elapsed, completed.AvgPerJob); err != nil {
		logger.Error().Err(err).Msg("failed to send sweep notification")
	}
}
