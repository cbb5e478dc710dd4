package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/glimte/bossbus-go/contracts"
)

// EventBus dispatches events to their associated handlers. An event type may
// have any number of handlers, including none.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	logger   *slog.Logger
}

// EventBusOption configures the EventBus
type EventBusOption func(*EventBus)

// WithEventBusLogger sets the logger
func WithEventBusLogger(logger *slog.Logger) EventBusOption {
	return func(b *EventBus) {
		b.logger = logger
	}
}

// NewEventBus creates a new event bus
func NewEventBus(options ...EventBusOption) *EventBus {
	b := &EventBus{
		handlers: make(map[string][]EventHandler),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// AddHandlers appends handlers to the event type's list. Order is preserved
// and duplicates are allowed. All handlers are validated before any is added.
func (b *EventBus) AddHandlers(eventType contracts.Event, handlers ...EventHandler) error {
	if eventType == nil {
		return ErrNilMessage
	}
	if len(handlers) == 0 {
		return ErrNoHandlers
	}

	typeName := contracts.MessageName(eventType)
	for _, handler := range handlers {
		if err := validateEventHandler(typeName, handler); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[typeName] = append(b.handlers[typeName], handlers...)

	b.logger.Debug("registered event handlers",
		"eventType", typeName,
		"handlerCount", len(b.handlers[typeName]),
	)
	return nil
}

// RemoveHandlers removes previously registered handlers. With no handlers
// given, all handlers for the event type are removed. Otherwise each given
// handler removes its first match, by identity when possible and by dynamic
// type as a fallback.
func (b *EventBus) RemoveHandlers(eventType contracts.Event, handlers ...EventHandler) error {
	if eventType == nil {
		return ErrNilMessage
	}

	typeName := contracts.MessageName(eventType)

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(handlers) == 0 {
		delete(b.handlers, typeName)
		return nil
	}

	for _, handler := range handlers {
		if err := validateEventHandler(typeName, handler); err != nil {
			return err
		}
		if !b.removeFirstMatch(typeName, handler) {
			return &MissingHandlerError{Kind: contracts.KindEvent, MessageType: typeName}
		}
	}

	if len(b.handlers[typeName]) == 0 {
		delete(b.handlers, typeName)
	}
	return nil
}

// removeFirstMatch removes the first registered handler that is the given
// handler, falling back to the first one of the same dynamic type. Caller
// must hold the write lock.
func (b *EventBus) removeFirstMatch(typeName string, handler EventHandler) bool {
	registered := b.handlers[typeName]

	match := -1
	for i, existing := range registered {
		if sameHandler(existing, handler) {
			match = i
			break
		}
		if match < 0 && reflect.TypeOf(existing) == reflect.TypeOf(handler) {
			match = i
		}
	}
	if match < 0 {
		return false
	}

	b.handlers[typeName] = append(registered[:match], registered[match+1:]...)
	return true
}

// HandlerCount returns the number of handlers currently registered for the
// event type.
func (b *EventBus) HandlerCount(eventType contracts.Event) int {
	if eventType == nil {
		return 0
	}

	typeName := contracts.MessageName(eventType)

	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[typeName])
}

// Dispatch sends the event to every registered handler for its type, then to
// any ad hoc handlers supplied with the call, in that order. No handlers is
// not an error. Dispatch stops at the first handler error; handler results
// are never propagated.
func (b *EventBus) Dispatch(ctx context.Context, event contracts.Event, adhoc ...EventHandler) error {
	if event == nil {
		return ErrNilMessage
	}

	typeName := contracts.MessageName(event)

	b.mu.RLock()
	registered := b.handlers[typeName]
	effective := make([]EventHandler, 0, len(registered)+len(adhoc))
	effective = append(effective, registered...)
	b.mu.RUnlock()

	effective = append(effective, adhoc...)

	for _, handler := range effective {
		if handler == nil {
			return &InvalidHandlerError{MessageType: typeName, Reason: "handler cannot be nil"}
		}
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"eventType", typeName,
				"eventId", event.GetID(),
				"error", err,
			)
			return fmt.Errorf("handler failed for event '%s': %w", typeName, err)
		}
	}

	b.logger.Debug("event dispatched",
		"eventType", typeName,
		"handlerCount", len(effective),
	)
	return nil
}

func validateEventHandler(typeName string, handler EventHandler) error {
	if handler == nil {
		return &InvalidHandlerError{MessageType: typeName, Reason: "handler cannot be nil"}
	}
	if handler.EventType() != typeName {
		return &InvalidHandlerError{HandlerType: handler.EventType(), MessageType: typeName}
	}
	return nil
}
