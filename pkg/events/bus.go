package events

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// InspectionCompleted fires after one run produced a report, before it is
// recorded.
type InspectionCompleted struct {
	Report domain.InspectionReport
}

// BulkInspectionCompleted fires once per finished sweep, after every job has
// committed or permanently failed.
type BulkInspectionCompleted struct {
	Summary   domain.ModelInspectionReport
	Elapsed   time.Duration
	AvgPerJob time.Duration
}

// Publisher is the fire-and-forget event boundary the pipeline emits into.
type Publisher interface {
	Publish(ctx context.Context, event any)
}

// Bus fans events out to in-process subscribers. Delivery is asynchronous;
// a slow or failing subscriber never blocks the publishing run.
type Bus struct {
	mu       sync.RWMutex
	handlers []func(ctx context.Context, event any)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(handler func(ctx context.Context, event any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *Bus) Publish(ctx context.Context, event any) {
	b.mu.RLock()
	handlers := make([]func(ctx context.Context, event any), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	logger := zerolog.Ctx(ctx)
	for _, handler := range handlers {
		h := handler
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Interface("panic", r).Msg("event subscriber panicked")
				}
			}()
			h(ctx, event)
		}()
	}
}

// NopPublisher drops every event. Useful where no subscriber is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, any) {}
