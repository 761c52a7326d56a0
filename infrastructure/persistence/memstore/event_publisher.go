package memstore

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"memcore/domain/events"
)

// EventPublisher is an in-process event sink. Events are retained in
// order for inspection; external deployments replace this with a real
// broker behind the same port.
type EventPublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
	logger    *zap.Logger
}

// NewEventPublisher creates an in-memory event publisher
func NewEventPublisher(logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{logger: logger}
}

// Publish records a single event
func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.published = append(p.published, event)
	p.mu.Unlock()

	p.logger.Debug("Event published",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
	)
	return nil
}

// PublishBatch records multiple events in order
func (p *EventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Published returns a copy of all recorded events in publish order
func (p *EventPublisher) Published() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.published...)
}
