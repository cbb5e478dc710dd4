package messaging

import (
	"context"
	"reflect"

	"github.com/glimte/bossbus-go/contracts"
)

// CommandHandler executes command messages. CommandType returns the name of
// the command type the handler accepts; registration checks it against the
// type being bound so a mismatched handler is rejected up front.
type CommandHandler interface {
	Handle(ctx context.Context, cmd contracts.Command) (any, error)
	CommandType() string
}

// CommandHandlerFunc is a function adapter for CommandHandler
type CommandHandlerFunc struct {
	commandType string
	fn          func(ctx context.Context, cmd contracts.Command) (any, error)
}

// NewCommandHandlerFunc creates a function-based command handler for the
// named command type.
func NewCommandHandlerFunc(commandType string, fn func(ctx context.Context, cmd contracts.Command) (any, error)) *CommandHandlerFunc {
	return &CommandHandlerFunc{commandType: commandType, fn: fn}
}

// Handle implements CommandHandler
func (h *CommandHandlerFunc) Handle(ctx context.Context, cmd contracts.Command) (any, error) {
	return h.fn(ctx, cmd)
}

// CommandType implements CommandHandler
func (h *CommandHandlerFunc) CommandType() string {
	return h.commandType
}

// EventHandler handles event messages. EventType returns the name of the
// event type the handler accepts.
type EventHandler interface {
	Handle(ctx context.Context, event contracts.Event) error
	EventType() string
}

// EventHandlerFunc is a function adapter for EventHandler
type EventHandlerFunc struct {
	eventType string
	fn        func(ctx context.Context, event contracts.Event) error
}

// NewEventHandlerFunc creates a function-based event handler for the named
// event type.
func NewEventHandlerFunc(eventType string, fn func(ctx context.Context, event contracts.Event) error) *EventHandlerFunc {
	return &EventHandlerFunc{eventType: eventType, fn: fn}
}

// Handle implements EventHandler
func (h *EventHandlerFunc) Handle(ctx context.Context, event contracts.Event) error {
	return h.fn(ctx, event)
}

// EventType implements EventHandler
func (h *EventHandlerFunc) EventType() string {
	return h.eventType
}

// sameHandler reports whether two handlers are the same handler. A plain
// interface comparison panics when the shared dynamic type is uncomparable
// (a value handler with a func or map field), so those compare by dynamic
// type alone.
func sameHandler(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return true
	}
	return a == b
}
