package shared

import "context"

// EventHandler processes domain events delivered by the bus
type EventHandler interface {
	// Handle processes a single domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// An empty slice subscribes the handler to every event.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler subscriptions
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types.
	// Without explicit types the handler's EventTypes() decides.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a previously registered handler
	Unsubscribe(handler EventHandler)
}

// EventBus combines publishing and subscription with lifecycle control
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver writes domain events to the outbox table inside the
// caller's transaction. Repositories use it so order state and the
// events describing it commit atomically.
type OutboxEventSaver interface {
	// SaveEvents persists events via the given transaction.
	// txProvider must be a *gorm.DB transaction handle.
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
